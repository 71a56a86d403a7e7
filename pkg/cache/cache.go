package cache

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"
)

var (
	ErrCacheMiss = errors.New("cache: key not found")
)

// Service defines cache operations interface.
type Service interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Exists(ctx context.Context, keys ...string) (bool, error)
}

// Stats is a point-in-time view of cache usage.
type Stats struct {
	Backend string `json:"backend"`
	Keys    int    `json:"keys"`
	Hits    uint64 `json:"hits"`
	Misses  uint64 `json:"misses"`
	MaxSize int    `json:"maxSize,omitempty"`
	Remote  bool   `json:"remote"`
}

// StatsReporter is implemented by caches that track usage.
type StatsReporter interface {
	Stats() Stats
}

// assign copies a stored value into dest, which must be a non-nil pointer
// to a type the value is assignable to.
func assign(dest interface{}, value interface{}) error {
	dv := reflect.ValueOf(dest)
	if dv.Kind() != reflect.Pointer || dv.IsNil() {
		return fmt.Errorf("cache: dest must be a non-nil pointer, got %T", dest)
	}
	target := dv.Elem()

	vv := reflect.ValueOf(value)
	if !vv.IsValid() {
		target.Set(reflect.Zero(target.Type()))
		return nil
	}
	// values stored by pointer are handed back by value
	if vv.Kind() == reflect.Pointer && !vv.IsNil() && vv.Elem().Type().AssignableTo(target.Type()) {
		vv = vv.Elem()
	}
	if !vv.Type().AssignableTo(target.Type()) {
		return fmt.Errorf("cache: cannot assign %T to %s", value, target.Type())
	}
	target.Set(vv)
	return nil
}
