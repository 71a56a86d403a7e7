package cache

import (
	"fmt"
	"time"
)

// RedisConfig describes the shared L2 store. Zero fields get defaults.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
	PoolSize int
	// PingTimeout bounds the reachability check done at construction.
	PingTimeout time.Duration
}

func (c RedisConfig) addr() string {
	host, port := c.Host, c.Port
	if host == "" {
		host = "localhost"
	}
	if port <= 0 {
		port = 6379
	}
	return fmt.Sprintf("%s:%d", host, port)
}

func (c RedisConfig) pingTimeout() time.Duration {
	if c.PingTimeout <= 0 {
		return 5 * time.Second
	}
	return c.PingTimeout
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*memoryConfig)

type memoryConfig struct {
	maxSize int
	sweep   time.Duration
	now     func() time.Time
}

// WithMemoryMaxSize caps the number of entries; the least recently read is
// evicted first.
func WithMemoryMaxSize(size int) MemoryOption {
	return func(c *memoryConfig) {
		if size > 0 {
			c.maxSize = size
		}
	}
}

// WithMemoryCleanup sets the sweeper interval; zero disables it.
func WithMemoryCleanup(interval time.Duration) MemoryOption {
	return func(c *memoryConfig) { c.sweep = interval }
}

func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(c *memoryConfig) { c.now = now }
}
