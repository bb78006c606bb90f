// Package mqtt publishes reports to an MQTT broker.
package mqtt

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/river-monitor/internal/config"
	"github.com/couchcryptid/river-monitor/internal/sink"
	pahomqtt "github.com/eclipse/paho.mqtt.golang"
)

const connectTimeout = 10 * time.Second

// Publisher implements sink.Sink over a paho MQTT client. The latest report
// is published retained so a subscriber joining late still sees it.
type Publisher struct {
	client pahomqtt.Client
	topic  string
	logger *slog.Logger
}

// NewPublisher configures a client for the broker in cfg. It does not connect.
func NewPublisher(cfg *config.Config, logger *slog.Logger) *Publisher {
	opts := pahomqtt.NewClientOptions().
		AddBroker(cfg.MQTTBroker).
		SetClientID(cfg.MQTTClientID).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectionLostHandler(func(_ pahomqtt.Client, err error) {
			logger.Warn("mqtt connection lost", "broker", cfg.MQTTBroker, "error", err)
		}).
		SetOnConnectHandler(func(_ pahomqtt.Client) {
			logger.Info("mqtt connected", "broker", cfg.MQTTBroker)
		})

	return newPublisher(pahomqtt.NewClient(opts), cfg.MQTTTopic, logger)
}

func newPublisher(client pahomqtt.Client, topic string, logger *slog.Logger) *Publisher {
	return &Publisher{client: client, topic: topic, logger: logger}
}

// Connect starts the broker session. With connect-retry enabled the client
// keeps trying in the background after the timeout.
func (p *Publisher) Connect() error {
	token := p.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return errors.New("mqtt connect timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

func (p *Publisher) Name() string { return "mqtt" }

// Send publishes msg with QoS 1, retained.
func (p *Publisher) Send(ctx context.Context, msg sink.Message) error {
	if !p.client.IsConnected() {
		return errors.New("not connected to mqtt broker")
	}
	data, err := msg.Encode()
	if err != nil {
		return err
	}

	token := p.client.Publish(p.topic, 1, true, data)
	select {
	case <-token.Done():
		return token.Error()
	case <-ctx.Done():
		return fmt.Errorf("mqtt publish: %w", ctx.Err())
	}
}

// Close disconnects, allowing 250ms for in-flight work.
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
