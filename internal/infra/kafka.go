package infra

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/sgkaarstdave/AbrechnungApp/internal/domain"
)

// KafkaProducer wraps a kafka-go writer for publishing messages.
type KafkaProducer struct {
	writer  *kafka.Writer
	logger  *slog.Logger
	enabled bool
}

// NewKafkaProducer creates a Kafka producer. If brokers is empty or disabled, writes are no-ops.
func NewKafkaProducer(brokers string, enabled bool, logger *slog.Logger) *KafkaProducer {
	if !enabled || brokers == "" {
		logger.Info("kafka producer disabled")
		return &KafkaProducer{enabled: false, logger: logger}
	}

	w := &kafka.Writer{
		Addr:                   kafka.TCP(strings.Split(brokers, ",")...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	logger.Info("kafka producer initialized", "brokers", brokers)
	return &KafkaProducer{writer: w, logger: logger, enabled: true}
}

// Publish sends a message to the given topic. No-op if disabled.
func (p *KafkaProducer) Publish(ctx context.Context, topic string, key, value []byte) error {
	if !p.enabled {
		return nil
	}

	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Key:   key,
		Value: value,
	})
}

// Close shuts down the Kafka writer.
func (p *KafkaProducer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// MessageWriter is satisfied by *KafkaProducer.
type MessageWriter interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// ReportEventPublisher emits report lifecycle events. Messages are keyed by
// trainer ID so one trainer's events stay ordered within a partition.
type ReportEventPublisher struct {
	writer MessageWriter
	topic  string
}

// NewReportEventPublisher creates a publisher writing to topic.
func NewReportEventPublisher(w MessageWriter, topic string) *ReportEventPublisher {
	return &ReportEventPublisher{writer: w, topic: topic}
}

// PublishReportGenerated serializes ev as JSON and writes it.
func (p *ReportEventPublisher) PublishReportGenerated(ctx context.Context, ev domain.ReportGeneratedEvent) error {
	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", ev.Type, err)
	}
	if err := p.writer.Publish(ctx, p.topic, []byte(ev.TrainerID.String()), value); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
