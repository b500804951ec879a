package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"

	"ecobin-backend/internal/metrics"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher mirrors realtime events onto a Kafka topic so other
// services can follow dashboard activity.
type KafkaPublisher struct {
	writer messageWriter
	topic  string
}

// NewKafkaPublisher builds an async writer. Delivery errors are logged and counted.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
		Async:        true,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				metrics.EventsMirrored.WithLabelValues("error").Add(float64(len(messages)))
				log.Error().Err(err).Int("messages", len(messages)).Msg("❌ [KAFKA] Failed to deliver events")
				return
			}
			metrics.EventsMirrored.WithLabelValues("ok").Add(float64(len(messages)))
		},
	}
	return &KafkaPublisher{writer: writer, topic: topic}
}

func (p *KafkaPublisher) Publish(event string, payload interface{}) {
	env, err := NewEnvelope(event, payload)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("❌ [KAFKA] Failed to encode event")
		return
	}
	value, err := json.Marshal(env)
	if err != nil {
		log.Error().Err(err).Str("event", event).Msg("❌ [KAFKA] Failed to encode event")
		return
	}

	msg := kafka.Message{
		Key:   []byte(event),
		Value: value,
		Time:  time.Now().UTC(),
	}
	if err := p.writer.WriteMessages(context.Background(), msg); err != nil {
		metrics.EventsMirrored.WithLabelValues("error").Inc()
		log.Error().Err(err).Str("event", event).Str("topic", p.topic).Msg("❌ [KAFKA] Failed to enqueue event")
	}
}

// Close flushes pending messages
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
