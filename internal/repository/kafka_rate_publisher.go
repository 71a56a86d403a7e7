package repository

import (
	"context"
	"time"

	"JewarRates/internal/domain/models"
	"JewarRates/internal/domain/repository"
)

const rateEventType = "rates.updated"

// RateEvent is the message body pushed for every published table.
type RateEvent struct {
	Type        string           `json:"type"`
	PublishedAt time.Time        `json:"publishedAt"`
	Rates       models.RateTable `json:"rates"`
}

// Producer is the part of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaRatePublisher implements RatePublisher for Kafka. All tables share
// one key so consumers see them in publish order.
type KafkaRatePublisher struct {
	producer Producer
	topic    string
	now      func() time.Time
}

var _ repository.RatePublisher = (*KafkaRatePublisher)(nil)

// NewKafkaRatePublisher creates Kafka publisher.
func NewKafkaRatePublisher(producer Producer, topic string) *KafkaRatePublisher {
	return &KafkaRatePublisher{producer: producer, topic: topic, now: time.Now}
}

func (p *KafkaRatePublisher) Publish(ctx context.Context, t models.RateTable) error {
	return p.producer.Publish(ctx, p.topic, []byte("live_rates"), RateEvent{
		Type:        rateEventType,
		PublishedAt: p.now(),
		Rates:       t,
	})
}

func (p *KafkaRatePublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
