package alert

import (
	"context"
	"encoding/json"
	"log/slog"

	"enrolld/internal/platform/kafka/producer"
)

// KafkaProducer is the subset of the Kafka producer the sink needs.
type KafkaProducer interface {
	ProduceAsync(msg *producer.Message) error
}

// KafkaSink publishes events to a Kafka topic keyed by subject id so a
// subject's alert history stays in partition order.
type KafkaSink struct {
	producer KafkaProducer
	topic    string
	logger   *slog.Logger
}

// NewKafkaSink creates a sink publishing to the given topic.
func NewKafkaSink(p KafkaProducer, topic string, logger *slog.Logger) *KafkaSink {
	return &KafkaSink{producer: p, topic: topic, logger: logger}
}

// Notify publishes the event asynchronously. Failures are logged and
// swallowed; delivery is best-effort.
func (s *KafkaSink) Notify(_ context.Context, event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to encode alert event", "kind", event.Kind, "error", err)
		}
		return
	}

	msg := &producer.Message{
		Topic: s.topic,
		Key:   []byte(event.SubjectID),
		Value: payload,
		Headers: map[string]string{
			"kind":     string(event.Kind),
			"severity": string(event.Severity),
		},
	}
	if err := s.producer.ProduceAsync(msg); err != nil && s.logger != nil {
		s.logger.Error("failed to queue alert event", "kind", event.Kind, "error", err)
	}
}
