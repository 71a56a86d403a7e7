package logger

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu      sync.Mutex
	topic   string
	batches [][]AggregatedLogEntry
}

func (p *capturePublisher) PublishMessage(_ context.Context, topic string, payload interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.topic = topic
	p.batches = append(p.batches, payload.([]AggregatedLogEntry))
	return nil
}

func (p *capturePublisher) all() []AggregatedLogEntry {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []AggregatedLogEntry
	for _, b := range p.batches {
		out = append(out, b...)
	}
	return out
}

func TestCollectorFoldsDuplicates(t *testing.T) {
	pub := &capturePublisher{}
	c := NewLogCollector(&CollectionConfig{TimeInterval: time.Hour, Topic: "rates.logs", Publisher: pub})

	for i := 0; i < 3; i++ {
		c.AddLog("error", "source failed", map[string]interface{}{"source": "gold_api"}, "x.go:1")
	}
	c.AddLog("error", "source failed", map[string]interface{}{"source": "metals_api"}, "x.go:1")
	c.AddLog("info", "ignored", nil, "x.go:2")
	require.Equal(t, 2, c.Pending())

	c.Close()

	entries := pub.all()
	require.Len(t, entries, 2)
	require.Equal(t, "rates.logs", pub.topic)
	counts := map[interface{}]int{}
	for _, e := range entries {
		counts[e.Fields["source"]] = e.Count
	}
	require.Equal(t, 3, counts["gold_api"])
	require.Equal(t, 1, counts["metals_api"])
}

func TestLoggerFeedsCollector(t *testing.T) {
	pub := &capturePublisher{}
	var buf bytes.Buffer
	l := NewWithWriter(&buf)
	l.AddCollector(&CollectionConfig{TimeInterval: time.Hour, Publisher: pub, Levels: []string{"error", "warn"}})

	l.Error("boom", Error(errors.New("x")))
	l.Warn("careful", String("k", "v"))
	l.Info("fine")

	require.Equal(t, 2, l.collector.Pending())
	l.RemoveCollector()
	require.Len(t, pub.all(), 2)
	require.Contains(t, buf.String(), `"message":"boom"`)
}
