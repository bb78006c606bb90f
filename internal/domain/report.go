package domain

import "time"

// Trigger names the stimulus that caused a report generation.
type Trigger string

const (
	TriggerPeriodic Trigger = "periodic"
	TriggerButton   Trigger = "button"
	TriggerWeb      Trigger = "web"
)

// Report is the published snapshot of one classification cycle.
type Report struct {
	ID            uint64    `json:"id"`
	CurrentLevel  float64   `json:"current_level"`
	PreviousLevel float64   `json:"previous_level"`
	DiffPercent   float64   `json:"diff_percent"`
	RainIntensity float64   `json:"rain_intensity"`
	Status        RiskLevel `json:"status"`
	StatusLabel   string    `json:"status_label"`
	OutOfRange    bool      `json:"out_of_range,omitempty"`
	Trigger       Trigger   `json:"trigger"`
	GeneratedAt   time.Time `json:"generated_at"`
}

// NewReport builds report id from the current metrics and the level carried
// by the previous report (0 when there is none).
func NewReport(id uint64, m Metrics, previousLevel, baseline float64, trigger Trigger) Report {
	status, label := Classify(m.RiverLevel, m.RainIntensity, baseline)
	return Report{
		ID:            id,
		CurrentLevel:  m.RiverLevel,
		PreviousLevel: previousLevel,
		DiffPercent:   DiffPercent(m.RiverLevel, previousLevel),
		RainIntensity: m.RainIntensity,
		Status:        status,
		StatusLabel:   label,
		OutOfRange:    m.OutOfRange,
		Trigger:       trigger,
		GeneratedAt:   clock.Now(),
	}
}

// DiffPercent is the relative change from previous to current in percent.
// A zero previous level (first report, or a dry channel) yields 0.
func DiffPercent(current, previous float64) float64 {
	if previous == 0 {
		return 0
	}
	return (current - previous) / previous * 100
}
