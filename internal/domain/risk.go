package domain

import (
	"encoding/json"
	"fmt"
)

// RiskLevel is the flood risk classification. The numeric order matches
// severity: Safe < Attention < Alert < Danger.
type RiskLevel int

const (
	Safe RiskLevel = iota
	Attention
	Alert
	Danger
)

// Classification thresholds.
const (
	dangerLevel    = 9.0
	alertLevel     = 7.0
	heavyRain      = 50.0
	torrentialRain = 70.0
)

// Label returns the display token for the risk level.
func (r RiskLevel) Label() string {
	switch r {
	case Danger:
		return "PERIGO"
	case Alert:
		return "ALERTA"
	case Attention:
		return "ATENCAO"
	default:
		return "SEGURO"
	}
}

// String returns the English name, used in logs and metrics.
func (r RiskLevel) String() string {
	switch r {
	case Danger:
		return "danger"
	case Alert:
		return "alert"
	case Attention:
		return "attention"
	default:
		return "safe"
	}
}

func (r RiskLevel) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RiskLevel) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, level := range []RiskLevel{Safe, Attention, Alert, Danger} {
		if level.String() == s {
			*r = level
			return nil
		}
	}
	return fmt.Errorf("unknown risk level %q", s)
}

// Classify derives the risk level and its label from a river level (m), a
// rain intensity (%) and the baseline level. Branches are checked in order and
// the first match wins; they overlap on purpose.
func Classify(level, rain, baseline float64) (RiskLevel, string) {
	var risk RiskLevel
	switch {
	case level >= dangerLevel || (level >= alertLevel && rain > heavyRain):
		risk = Danger
	// The first disjunct is already consumed by Danger; kept so the table
	// reads the same as the published precedence.
	case (level >= alertLevel && rain > heavyRain) || (level > baseline && rain > heavyRain):
		risk = Alert
	case (level > baseline && rain <= heavyRain) || (level <= baseline && rain > torrentialRain):
		risk = Attention
	default:
		risk = Safe
	}
	return risk, risk.Label()
}
