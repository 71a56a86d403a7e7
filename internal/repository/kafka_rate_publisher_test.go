package repository

import (
	"context"
	"testing"
	"time"

	"JewarRates/internal/domain/models"

	"github.com/stretchr/testify/require"
)

type captureProducer struct {
	topic string
	key   []byte
	value interface{}
}

func (c *captureProducer) Publish(_ context.Context, topic string, key []byte, value interface{}) error {
	c.topic, c.key, c.value = topic, key, value
	return nil
}

func (c *captureProducer) Close() error { return nil }

func TestKafkaRatePublisher(t *testing.T) {
	t.Parallel()

	prod := &captureProducer{}
	pub := NewKafkaRatePublisher(prod, "jewar.rates")
	at := time.Date(2025, 1, 15, 5, 30, 0, 0, time.UTC)
	pub.now = func() time.Time { return at }

	table := models.RateTable{Source: models.SourceGoldAPI, Gold: models.KaratTable{models.K24: 53370}}
	require.NoError(t, pub.Publish(context.Background(), table))

	require.Equal(t, "jewar.rates", prod.topic)
	require.Equal(t, "live_rates", string(prod.key))
	ev, ok := prod.value.(RateEvent)
	require.True(t, ok)
	require.Equal(t, "rates.updated", ev.Type)
	require.Equal(t, at, ev.PublishedAt)
	require.Equal(t, int64(53370), ev.Rates.Gold.Base())
}
