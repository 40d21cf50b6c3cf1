package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/hmoradi/svcready/internal/domain"
)

// Writer captures the subset of *kafka.Writer the publisher needs, so
// message shape can be tested without a broker.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher emits probe records to a Kafka topic so downstream pipelines can
// consume readiness signals without polling the API.
type Publisher struct {
	writer Writer
}

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *Publisher) Publish(ctx context.Context, rec *domain.ProbeRecord) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal probe record: %w", err)
	}
	key := fmt.Sprintf("%s/%s:%d", rec.Kind, rec.Host, rec.Port)
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: payload,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
