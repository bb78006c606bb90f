package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		level float64
		rain  float64
		risk  RiskLevel
		label string
	}{
		{"danger by level alone", 9.5, 0, Danger, "PERIGO"},
		{"danger wins over alert", 7.5, 60, Danger, "PERIGO"},
		{"alert above baseline with heavy rain", 6.0, 55, Alert, "ALERTA"},
		{"attention on torrential rain at baseline", 5.0, 80, Attention, "ATENCAO"},
		{"safe below baseline", 3.0, 10, Safe, "SEGURO"},
		{"danger threshold inclusive", 9.0, 0, Danger, "PERIGO"},
		{"alert level needs rain above 50", 7.0, 50, Attention, "ATENCAO"},
		{"danger just past rain threshold", 7.0, 50.01, Danger, "PERIGO"},
		{"attention above baseline light rain", 6.0, 40, Attention, "ATENCAO"},
		{"safe at baseline with heavy rain", 5.0, 60, Safe, "SEGURO"},
		{"safe at baseline rain exactly 70", 5.0, 70, Safe, "SEGURO"},
		{"attention below baseline rain above 70", 4.0, 71, Attention, "ATENCAO"},
		{"negative level still classified", -0.1, 0, Safe, "SEGURO"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			risk, label := Classify(tt.level, tt.rain, baseline)
			assert.Equal(t, tt.risk, risk)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestClassify_UsesBaseline(t *testing.T) {
	risk, _ := Classify(4.0, 55, 3.0)
	assert.Equal(t, Alert, risk)

	risk, _ = Classify(4.0, 55, 5.0)
	assert.Equal(t, Safe, risk)
}

func TestRiskLevel_Order(t *testing.T) {
	assert.Less(t, Safe, Attention)
	assert.Less(t, Attention, Alert)
	assert.Less(t, Alert, Danger)
}

func TestRiskLevel_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Alert)
	require.NoError(t, err)
	assert.JSONEq(t, `"alert"`, string(data))
}

func TestRiskLevel_UnmarshalJSON(t *testing.T) {
	var r RiskLevel
	require.NoError(t, json.Unmarshal([]byte(`"danger"`), &r))
	assert.Equal(t, Danger, r)

	assert.Error(t, json.Unmarshal([]byte(`"flooded"`), &r))
	assert.Error(t, json.Unmarshal([]byte(`3`), &r))
}
