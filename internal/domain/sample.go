package domain

// Calibration constants for the level and rain transforms.
const (
	ADCMax = 4095

	levelRiseThreshold = 2100
	levelFallThreshold = 1800
	levelMidpoint      = 2048
	levelHalfSpan      = 2047

	DefaultBaselineLevel = 5.0
	DefaultMaxRain       = 100.0
)

// RawSample holds one reading of both analog channels (0–4095 each).
type RawSample struct {
	RainRaw  uint16 `json:"rain_raw"`
	LevelRaw uint16 `json:"level_raw"`
}

// Calibration is the pair of constants the transforms are computed against.
type Calibration struct {
	BaselineLevel float64 `json:"baseline_level"` // meters
	MaxRain       float64 `json:"max_rain"`       // percent
}

// DefaultCalibration returns the factory calibration: 5 m baseline, 100% rain.
func DefaultCalibration() Calibration {
	return Calibration{BaselineLevel: DefaultBaselineLevel, MaxRain: DefaultMaxRain}
}

// Metrics are the calibrated quantities derived from a RawSample.
type Metrics struct {
	RiverLevel    float64 `json:"river_level"`    // meters
	RainIntensity float64 `json:"rain_intensity"` // percent
	OutOfRange    bool    `json:"out_of_range,omitempty"`
}

// Convert applies the level and rain transforms to a raw sample.
func Convert(raw RawSample, cal Calibration) Metrics {
	level := RiverLevel(raw.LevelRaw, cal.BaselineLevel)
	return Metrics{
		RiverLevel:    level,
		RainIntensity: RainIntensity(raw.RainRaw, cal.MaxRain),
		OutOfRange:    LevelOutOfRange(level, cal.BaselineLevel),
	}
}

// RiverLevel maps the raw level channel to meters around baseline. Values
// inside [1800, 2100] fall in the dead zone and read exactly baseline.
func RiverLevel(y uint16, baseline float64) float64 {
	switch {
	case y > levelRiseThreshold:
		return baseline + baseline*float64(int(y)-levelMidpoint)/levelHalfSpan
	case y < levelFallThreshold:
		return baseline - baseline*float64(levelMidpoint-int(y))/levelHalfSpan
	default:
		return baseline
	}
}

// RainIntensity maps the raw rain channel linearly onto [0, maxRain].
func RainIntensity(x uint16, maxRain float64) float64 {
	return maxRain * float64(x) / ADCMax
}

// LevelOutOfRange reports whether a derived level left the expected
// [0, 2·baseline] band. The level itself is never clamped.
func LevelOutOfRange(level, baseline float64) bool {
	return level < 0 || level > 2*baseline
}
