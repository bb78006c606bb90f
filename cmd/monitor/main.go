package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	httpadapter "github.com/couchcryptid/river-monitor/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/river-monitor/internal/adapter/kafka"
	mqttadapter "github.com/couchcryptid/river-monitor/internal/adapter/mqtt"
	"github.com/couchcryptid/river-monitor/internal/adapter/web"
	"github.com/couchcryptid/river-monitor/internal/config"
	"github.com/couchcryptid/river-monitor/internal/connectivity"
	"github.com/couchcryptid/river-monitor/internal/display"
	"github.com/couchcryptid/river-monitor/internal/domain"
	"github.com/couchcryptid/river-monitor/internal/monitor"
	"github.com/couchcryptid/river-monitor/internal/observability"
	"github.com/couchcryptid/river-monitor/internal/sensor"
	"github.com/couchcryptid/river-monitor/internal/sink"
	"github.com/couchcryptid/river-monitor/internal/store"
	"github.com/couchcryptid/river-monitor/internal/trigger"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

type settableADC interface {
	sensor.ADC
	httpadapter.ADCSetter
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	bootID := uuid.New()
	clock := clockwork.NewRealClock()

	adc := newADC(cfg)
	reader := sensor.NewReader(adc, domain.Calibration{BaselineLevel: cfg.BaselineLevel, MaxRain: cfg.MaxRain})
	framebuffer := display.NewFramebuffer()
	notifier := display.NewNotifier(framebuffer, logger)
	reports := store.NewReports()
	button := trigger.NewButton(clock, cfg.DebounceWindow, metrics)

	// Report sinks (feature-flagged via KAFKA_ENABLED / MQTT_ENABLED).
	var sinks []sink.Sink
	var kafkaWriter *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		kafkaWriter = kafkaadapter.NewWriter(cfg, logger)
		sinks = append(sinks, kafkaWriter)
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaReportTopic)
	}
	var mqttPublisher *mqttadapter.Publisher
	if cfg.MQTTEnabled {
		mqttPublisher = mqttadapter.NewPublisher(cfg, logger)
		if err := mqttPublisher.Connect(); err != nil {
			logger.Warn("mqtt not connected yet, retrying in background", "error", err)
		}
		sinks = append(sinks, mqttPublisher)
		logger.Info("mqtt sink enabled", "broker", cfg.MQTTBroker, "topic", cfg.MQTTTopic)
	}

	opts := monitor.Options{
		Baseline:       cfg.BaselineLevel,
		SampleInterval: cfg.SampleInterval,
		ReportInterval: cfg.ReportInterval,
		Clock:          clock,
		Button:         button,
	}
	var dispatcher *sink.Dispatcher
	if len(sinks) > 0 {
		dispatcher = sink.NewDispatcher(sinks, cfg.SinkBuffer, bootID, logger, metrics)
		opts.Dispatcher = dispatcher
	}

	m := monitor.New(reader, notifier, reports, logger, metrics, opts)
	srv := httpadapter.NewServer(cfg.HTTPAddr, m, adc, framebuffer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("river monitor starting", "boot_id", bootID.String(), "sensor_mode", cfg.SensorMode)

	// SIGUSR1 stands in for the push button.
	buttonDone := trigger.ListenSignals(ctx, button, syscall.SIGUSR1)

	var wg sync.WaitGroup

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start main loop.
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := m.Run(ctx); err != nil {
			logger.Error("monitor error", "error", err)
		}
	}()

	if dispatcher != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			dispatcher.Run(ctx)
		}()
	}

	// Bring the network up and serve reports; on failure the node stays display-only.
	if cfg.NetworkEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			serveNetwork(ctx, cfg, m, reports, bootID, logger, metrics)
		}()
	} else {
		logger.Info("network disabled, running display-only")
	}

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	<-buttonDone
	wg.Wait()

	if kafkaWriter != nil {
		if err := kafkaWriter.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if mqttPublisher != nil {
		mqttPublisher.Close()
	}

	logger.Info("shutdown complete")
}

func newADC(cfg *config.Config) settableADC {
	if cfg.SensorMode == "drift" {
		return sensor.NewDriftADC(cfg.SensorSeed, cfg.SensorRainRaw, cfg.SensorLevelRaw, 0)
	}
	return sensor.NewStaticADC(cfg.SensorRainRaw, cfg.SensorLevelRaw)
}

func serveNetwork(ctx context.Context, cfg *config.Config, m *monitor.Monitor, reports *store.Reports, bootID uuid.UUID, logger *slog.Logger, metrics *observability.Metrics) {
	link := connectivity.NewHostLink(cfg.NetworkInterface, logger)
	creds := connectivity.Credentials{SSID: cfg.WiFiSSID, Password: cfg.WiFiPassword}
	session, err := connectivity.BringUp(ctx, link, creds, connectivity.Options{
		Attempts:   cfg.ConnectAttempts,
		RetryDelay: cfg.ConnectRetryDelay,
		ListenAddr: cfg.ReportAddr,
	}, logger, metrics)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("network unavailable, running display-only", "error", err)
		}
		return
	}

	if cfg.MDNSEnabled {
		adv, err := connectivity.Advertise(cfg.MDNSInstance, session.Port(), bootID.String())
		if err != nil {
			logger.Warn("mdns advertisement failed", "error", err)
		} else {
			logger.Info("mdns advertisement started", "instance", cfg.MDNSInstance, "service", connectivity.ServiceType)
			defer adv.Shutdown()
		}
	}

	server := web.NewServer(session.Listener, m, reports, logger, metrics)
	if err := server.Serve(ctx); err != nil {
		logger.Error("report server error", "error", err)
	}
}
