package kafka

import (
	"errors"
	"time"
)

// ProducerConfig holds producer settings. Zero fields take the defaults
// applied by normalize.
type ProducerConfig struct {
	Brokers      []string
	ClientID     string
	Compression  string
	RequiredAcks int
	MaxAttempts  int
	BatchTimeout time.Duration
	// WriteTimeout bounds a single write round trip; reads use the same value.
	WriteTimeout time.Duration
}

var errNoBrokers = errors.New("kafka: at least one broker is required")

func (c ProducerConfig) normalize() (ProducerConfig, error) {
	if len(c.Brokers) == 0 {
		return c, errNoBrokers
	}
	if c.ClientID == "" {
		c.ClientID = "jewar-rates"
	}
	if c.Compression == "" {
		c.Compression = "snappy"
	}
	// -1 waits for all replicas; 0 is left as fire-and-forget.
	if c.RequiredAcks < -1 || c.RequiredAcks > 1 {
		c.RequiredAcks = -1
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 3
	}
	if c.BatchTimeout <= 0 {
		c.BatchTimeout = 50 * time.Millisecond
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return c, nil
}
