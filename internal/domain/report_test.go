package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestNewReport_FirstReportHasNoDiff(t *testing.T) {
	fixed := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)
	SetClock(clockwork.NewFakeClockAt(fixed))
	defer SetClock(nil)

	r := NewReport(1, Metrics{RiverLevel: 6.0, RainIntensity: 55}, 0, baseline, TriggerPeriodic)

	assert.Equal(t, uint64(1), r.ID)
	assert.Equal(t, 6.0, r.CurrentLevel)
	assert.Zero(t, r.PreviousLevel)
	assert.Zero(t, r.DiffPercent)
	assert.Equal(t, 55.0, r.RainIntensity)
	assert.Equal(t, Alert, r.Status)
	assert.Equal(t, "ALERTA", r.StatusLabel)
	assert.Equal(t, TriggerPeriodic, r.Trigger)
	assert.Equal(t, fixed, r.GeneratedAt)
}

func TestNewReport_DiffAgainstPrevious(t *testing.T) {
	r := NewReport(2, Metrics{RiverLevel: 6.0}, 5.0, baseline, TriggerButton)

	assert.Equal(t, 5.0, r.PreviousLevel)
	assert.InDelta(t, 20.0, r.DiffPercent, 1e-9)
}

func TestNewReport_CarriesOutOfRange(t *testing.T) {
	r := NewReport(3, Metrics{RiverLevel: -0.002, OutOfRange: true}, 5.0, baseline, TriggerWeb)
	assert.True(t, r.OutOfRange)
	assert.Equal(t, Safe, r.Status)
}

func TestDiffPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		expected float64
	}{
		{"no previous", 5.0, 0, 0},
		{"rise", 7.5, 5.0, 50},
		{"fall", 2.5, 5.0, -50},
		{"unchanged", 5.0, 5.0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, DiffPercent(tt.current, tt.previous), 1e-9)
		})
	}
}
