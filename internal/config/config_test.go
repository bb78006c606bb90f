package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBroker = "tcp://broker.local:1883"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Second, cfg.SampleInterval)
	assert.Equal(t, 10*time.Second, cfg.ReportInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, 5.0, cfg.BaselineLevel)
	assert.Equal(t, 100.0, cfg.MaxRain)
	assert.Equal(t, "static", cfg.SensorMode)
	assert.Equal(t, uint16(0), cfg.SensorRainRaw)
	assert.Equal(t, uint16(2048), cfg.SensorLevelRaw)
	assert.Equal(t, int64(1), cfg.SensorSeed)
	assert.True(t, cfg.NetworkEnabled)
	assert.Equal(t, ":80", cfg.ReportAddr)
	assert.Equal(t, 5, cfg.ConnectAttempts)
	assert.Equal(t, 500*time.Millisecond, cfg.ConnectRetryDelay)
	assert.False(t, cfg.MDNSEnabled)
	assert.NotEmpty(t, cfg.MDNSInstance)
	assert.Equal(t, 16, cfg.SinkBuffer)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "river-reports", cfg.KafkaReportTopic)
	assert.False(t, cfg.MQTTEnabled)
	assert.Equal(t, "river-monitor/report", cfg.MQTTTopic)
	assert.Equal(t, "river-monitor", cfg.MQTTClientID)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("SAMPLE_INTERVAL", "250ms")
	t.Setenv("REPORT_INTERVAL", "1m")
	t.Setenv("DEBOUNCE_WINDOW", "200ms")
	t.Setenv("BASELINE_LEVEL", "3.5")
	t.Setenv("MAX_RAIN", "80")
	t.Setenv("SENSOR_MODE", "drift")
	t.Setenv("SENSOR_RAIN_RAW", "4095")
	t.Setenv("SENSOR_LEVEL_RAW", "100")
	t.Setenv("SENSOR_SEED", "42")
	t.Setenv("NETWORK_ENABLED", "false")
	t.Setenv("REPORT_ADDR", ":8081")
	t.Setenv("WIFI_SSID", "riverside")
	t.Setenv("WIFI_PASSWORD", "secret")
	t.Setenv("NETWORK_INTERFACE", "wlan0")
	t.Setenv("CONNECT_ATTEMPTS", "3")
	t.Setenv("CONNECT_RETRY_DELAY", "2s")
	t.Setenv("MDNS_ENABLED", "true")
	t.Setenv("MDNS_INSTANCE", "bridge-7")
	t.Setenv("SINK_BUFFER", "64")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "b1:9092,b2:9092")
	t.Setenv("KAFKA_REPORT_TOPIC", "reports")
	t.Setenv("MQTT_BROKER", testBroker)
	t.Setenv("MQTT_TOPIC", "rivers/7")
	t.Setenv("MQTT_CLIENT_ID", "node-7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.SampleInterval)
	assert.Equal(t, time.Minute, cfg.ReportInterval)
	assert.Equal(t, 200*time.Millisecond, cfg.DebounceWindow)
	assert.Equal(t, 3.5, cfg.BaselineLevel)
	assert.Equal(t, 80.0, cfg.MaxRain)
	assert.Equal(t, "drift", cfg.SensorMode)
	assert.Equal(t, uint16(4095), cfg.SensorRainRaw)
	assert.Equal(t, uint16(100), cfg.SensorLevelRaw)
	assert.Equal(t, int64(42), cfg.SensorSeed)
	assert.False(t, cfg.NetworkEnabled)
	assert.Equal(t, ":8081", cfg.ReportAddr)
	assert.Equal(t, "riverside", cfg.WiFiSSID)
	assert.Equal(t, "secret", cfg.WiFiPassword)
	assert.Equal(t, "wlan0", cfg.NetworkInterface)
	assert.Equal(t, 3, cfg.ConnectAttempts)
	assert.Equal(t, 2*time.Second, cfg.ConnectRetryDelay)
	assert.True(t, cfg.MDNSEnabled)
	assert.Equal(t, "bridge-7", cfg.MDNSInstance)
	assert.Equal(t, 64, cfg.SinkBuffer)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"b1:9092", "b2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "reports", cfg.KafkaReportTopic)
	assert.True(t, cfg.MQTTEnabled)
	assert.Equal(t, testBroker, cfg.MQTTBroker)
	assert.Equal(t, "rivers/7", cfg.MQTTTopic)
	assert.Equal(t, "node-7", cfg.MQTTClientID)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"SHUTDOWN_TIMEOUT", "not-a-duration"},
		{"SAMPLE_INTERVAL", "0s"},
		{"REPORT_INTERVAL", "-1s"},
		{"DEBOUNCE_WINDOW", "soon"},
		{"CONNECT_RETRY_DELAY", "bad"},
		{"BASELINE_LEVEL", "0"},
		{"MAX_RAIN", "lots"},
		{"SENSOR_RAIN_RAW", "4096"},
		{"SENSOR_LEVEL_RAW", "-1"},
		{"SENSOR_SEED", "x"},
		{"SENSOR_MODE", "joystick"},
		{"CONNECT_ATTEMPTS", "0"},
		{"SINK_BUFFER", "-3"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestLoad_MQTTEnabledWithoutBroker(t *testing.T) {
	t.Setenv("MQTT_ENABLED", "true")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MQTT_BROKER")
}

func TestLoad_MQTTBrokerImpliesEnabled(t *testing.T) {
	t.Setenv("MQTT_BROKER", testBroker)
	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.MQTTEnabled)
}

func TestLoad_MQTTExplicitlyDisabled(t *testing.T) {
	t.Setenv("MQTT_BROKER", testBroker)
	t.Setenv("MQTT_ENABLED", "false")
	cfg, err := Load()
	require.NoError(t, err)
	assert.False(t, cfg.MQTTEnabled)
}
