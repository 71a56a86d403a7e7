package kafka

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

type recordingWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error { return nil }

func TestProducerEncodesValues(t *testing.T) {
	w := &recordingWriter{}
	p := newProducer(w, "gzip")

	require.NoError(t, p.Publish(context.Background(), "jewar.rates", []byte("rates"), map[string]int{"gold": 53370}))
	require.NoError(t, p.PublishMessage(context.Background(), "jewar.logs", "raw"))

	require.Len(t, w.msgs, 2)
	require.JSONEq(t, `{"gold":53370}`, string(w.msgs[0].Value))
	require.Equal(t, "rates", string(w.msgs[0].Key))
	require.Equal(t, "raw", string(w.msgs[1].Value))
	require.Nil(t, w.msgs[1].Key)
}

func TestProducerWrapsWriteErrors(t *testing.T) {
	p := newProducer(&recordingWriter{err: errors.New("leader not available")}, "gzip")

	before := testutil.ToFloat64(producerMsgsTotal.WithLabelValues("jewar.rates.err", "gzip", "error"))
	err := p.Publish(context.Background(), "jewar.rates.err", nil, "x")

	require.ErrorContains(t, err, "jewar.rates.err")
	require.Equal(t, before+1, testutil.ToFloat64(producerMsgsTotal.WithLabelValues("jewar.rates.err", "gzip", "error")))
}

func TestNewProducerNeedsBrokers(t *testing.T) {
	_, err := NewProducer(ProducerConfig{})
	require.ErrorIs(t, err, errNoBrokers)
}

func TestProducerConfigDefaults(t *testing.T) {
	cfg, err := ProducerConfig{Brokers: []string{"kafka:9092"}, RequiredAcks: 7}.normalize()
	require.NoError(t, err)
	require.Equal(t, "snappy", cfg.Compression)
	require.Equal(t, -1, cfg.RequiredAcks)
	require.Equal(t, 3, cfg.MaxAttempts)
	require.Equal(t, 50*time.Millisecond, cfg.BatchTimeout)
	require.Equal(t, "jewar-rates", cfg.ClientID)

	cfg, err = ProducerConfig{Brokers: []string{"kafka:9092"}, RequiredAcks: 1, Compression: "zstd"}.normalize()
	require.NoError(t, err)
	require.Equal(t, 1, cfg.RequiredAcks)
	require.Equal(t, "zstd", cfg.Compression)
}

func TestParseCompression(t *testing.T) {
	require.Equal(t, kafka.Compression(0), parseCompression("none"))
	require.Equal(t, kafka.Zstd, parseCompression("zstd"))
	require.Equal(t, kafka.Snappy, parseCompression(""))
}
