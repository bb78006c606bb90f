// Package sink forwards published reports to external systems (Kafka, MQTT)
// off the main loop.
package sink

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/river-monitor/internal/domain"
	"github.com/couchcryptid/river-monitor/internal/observability"
	"github.com/google/uuid"
)

// Message is a report stamped with the boot it belongs to. Report ids restart
// at 1 on every boot, so consumers key on (BootID, Report.ID).
type Message struct {
	BootID uuid.UUID     `json:"boot_id"`
	Report domain.Report `json:"report"`
}

// Key identifies the message across reboots.
func (m Message) Key() []byte {
	return []byte(fmt.Sprintf("%s-%d", m.BootID, m.Report.ID))
}

// Encode marshals the message as JSON.
func (m Message) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode report message: %w", err)
	}
	return data, nil
}

// Sink delivers one message to an external system.
type Sink interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// Dispatcher queues reports and delivers them to every sink from a single
// worker. Dispatch never blocks; when the queue is full the report is dropped.
type Dispatcher struct {
	sinks   []Sink
	queue   chan domain.Report
	bootID  uuid.UUID
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewDispatcher creates a Dispatcher with room for buffer pending reports.
func NewDispatcher(sinks []Sink, buffer int, bootID uuid.UUID, logger *slog.Logger, metrics *observability.Metrics) *Dispatcher {
	return &Dispatcher{
		sinks:   sinks,
		queue:   make(chan domain.Report, buffer),
		bootID:  bootID,
		timeout: 5 * time.Second,
		logger:  logger,
		metrics: metrics,
	}
}

// Dispatch enqueues r for delivery.
func (d *Dispatcher) Dispatch(r domain.Report) {
	select {
	case d.queue <- r:
	default:
		d.metrics.SinkDrops.Inc()
		d.logger.Warn("sink queue full, dropping report", "id", r.ID)
	}
}

// Run delivers queued reports until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case r := <-d.queue:
			d.deliver(ctx, Message{BootID: d.bootID, Report: r})
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, msg Message) {
	for _, s := range d.sinks {
		sendCtx, cancel := context.WithTimeout(ctx, d.timeout)
		err := s.Send(sendCtx, msg)
		cancel()

		if err != nil {
			d.metrics.SinkDeliveries.WithLabelValues(s.Name(), "error").Inc()
			d.logger.Warn("report delivery failed", "sink", s.Name(), "id", msg.Report.ID, "error", err)
			continue
		}
		d.metrics.SinkDeliveries.WithLabelValues(s.Name(), "success").Inc()
	}
}
