package kafka

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/river-monitor/internal/config"
	"github.com/couchcryptid/river-monitor/internal/sink"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces report messages to a Kafka topic.
// It implements sink.Sink.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured report topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaReportTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Writer{writer: w, logger: logger}
}

func (w *Writer) Name() string { return "kafka" }

// Send publishes one report. Messages are keyed by boot and report id so a
// consumer can tell reports from different boots apart.
func (w *Writer) Send(ctx context.Context, msg sink.Message) error {
	m, err := toKafkaMessage(msg)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, m)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// toKafkaMessage marshals a report message with routing headers.
func toKafkaMessage(msg sink.Message) (kafkago.Message, error) {
	data, err := msg.Encode()
	if err != nil {
		return kafkago.Message{}, err
	}
	return kafkago.Message{
		Key:   msg.Key(),
		Value: data,
		Time:  msg.Report.GeneratedAt,
		Headers: []kafkago.Header{
			{Key: "status", Value: []byte(msg.Report.StatusLabel)},
			{Key: "boot_id", Value: []byte(msg.BootID.String())},
			{Key: "report_id", Value: []byte(strconv.FormatUint(msg.Report.ID, 10))},
			{Key: "generated_at", Value: []byte(msg.Report.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
