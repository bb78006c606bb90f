package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all node settings, populated from environment variables.
type Config struct {
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	HTTPAddr        string

	// Sampling and report triggers.
	SampleInterval time.Duration
	ReportInterval time.Duration
	DebounceWindow time.Duration

	// Calibration.
	BaselineLevel float64
	MaxRain       float64

	// Simulated ADC.
	SensorMode     string
	SensorRainRaw  uint16
	SensorLevelRaw uint16
	SensorSeed     int64

	// Network-serving capability.
	NetworkEnabled    bool
	ReportAddr        string
	WiFiSSID          string
	WiFiPassword      string
	NetworkInterface  string
	ConnectAttempts   int
	ConnectRetryDelay time.Duration
	MDNSEnabled       bool
	MDNSInstance      string

	// Report sinks.
	SinkBuffer       int
	KafkaEnabled     bool
	KafkaBrokers     []string
	KafkaReportTopic string
	MQTTEnabled      bool
	MQTTBroker       string
	MQTTTopic        string
	MQTTClientID     string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	sampleInterval, err := parsePositiveDuration("SAMPLE_INTERVAL", "1s")
	if err != nil {
		return nil, err
	}
	reportInterval, err := parsePositiveDuration("REPORT_INTERVAL", "10s")
	if err != nil {
		return nil, err
	}
	debounceWindow, err := parsePositiveDuration("DEBOUNCE_WINDOW", "500ms")
	if err != nil {
		return nil, err
	}
	connectRetryDelay, err := parsePositiveDuration("CONNECT_RETRY_DELAY", "500ms")
	if err != nil {
		return nil, err
	}

	baseline, err := parsePositiveFloat("BASELINE_LEVEL", "5.0")
	if err != nil {
		return nil, err
	}
	maxRain, err := parsePositiveFloat("MAX_RAIN", "100.0")
	if err != nil {
		return nil, err
	}

	rainRaw, err := parseRaw("SENSOR_RAIN_RAW", "0")
	if err != nil {
		return nil, err
	}
	levelRaw, err := parseRaw("SENSOR_LEVEL_RAW", "2048")
	if err != nil {
		return nil, err
	}
	seed, err := strconv.ParseInt(sharedcfg.EnvOrDefault("SENSOR_SEED", "1"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid SENSOR_SEED")
	}

	connectAttempts, err := parsePositiveInt("CONNECT_ATTEMPTS", "5")
	if err != nil {
		return nil, err
	}
	sinkBuffer, err := parsePositiveInt("SINK_BUFFER", "16")
	if err != nil {
		return nil, err
	}

	mqttBroker := os.Getenv("MQTT_BROKER")
	mqttEnabled := mqttBroker != ""
	if v := os.Getenv("MQTT_ENABLED"); v != "" {
		mqttEnabled = v == "true"
	}

	cfg := &Config{
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),

		SampleInterval: sampleInterval,
		ReportInterval: reportInterval,
		DebounceWindow: debounceWindow,

		BaselineLevel: baseline,
		MaxRain:       maxRain,

		SensorMode:     sharedcfg.EnvOrDefault("SENSOR_MODE", "static"),
		SensorRainRaw:  rainRaw,
		SensorLevelRaw: levelRaw,
		SensorSeed:     seed,

		NetworkEnabled:    sharedcfg.EnvOrDefault("NETWORK_ENABLED", "true") == "true",
		ReportAddr:        sharedcfg.EnvOrDefault("REPORT_ADDR", ":80"),
		WiFiSSID:          os.Getenv("WIFI_SSID"),
		WiFiPassword:      os.Getenv("WIFI_PASSWORD"),
		NetworkInterface:  os.Getenv("NETWORK_INTERFACE"),
		ConnectAttempts:   connectAttempts,
		ConnectRetryDelay: connectRetryDelay,
		MDNSEnabled:       os.Getenv("MDNS_ENABLED") == "true",
		MDNSInstance:      sharedcfg.EnvOrDefault("MDNS_INSTANCE", defaultInstance()),

		SinkBuffer:       sinkBuffer,
		KafkaEnabled:     os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaReportTopic: sharedcfg.EnvOrDefault("KAFKA_REPORT_TOPIC", "river-reports"),
		MQTTEnabled:      mqttEnabled,
		MQTTBroker:       mqttBroker,
		MQTTTopic:        sharedcfg.EnvOrDefault("MQTT_TOPIC", "river-monitor/report"),
		MQTTClientID:     sharedcfg.EnvOrDefault("MQTT_CLIENT_ID", "river-monitor"),
	}

	if cfg.SensorMode != "static" && cfg.SensorMode != "drift" {
		return nil, fmt.Errorf("invalid SENSOR_MODE %q: want static or drift", cfg.SensorMode)
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is true")
		}
		if cfg.KafkaReportTopic == "" {
			return nil, errors.New("KAFKA_REPORT_TOPIC is required when KAFKA_ENABLED is true")
		}
	}
	if cfg.MQTTEnabled && cfg.MQTTBroker == "" {
		return nil, errors.New("MQTT_ENABLED is true but MQTT_BROKER is not set")
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parsePositiveFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive number", key)
	}
	return v, nil
}

func parsePositiveInt(key, def string) (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault(key, def))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: must be a positive integer", key)
	}
	return n, nil
}

// parseRaw reads a 12-bit ADC value.
func parseRaw(key, def string) (uint16, error) {
	n, err := strconv.ParseUint(sharedcfg.EnvOrDefault(key, def), 10, 16)
	if err != nil || n > 4095 {
		return 0, fmt.Errorf("invalid %s: must be in [0, 4095]", key)
	}
	return uint16(n), nil
}

func defaultInstance() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "river-monitor"
	}
	return host + "-river-monitor"
}
