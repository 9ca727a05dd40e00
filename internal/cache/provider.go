package cache

import (
	"context"
	"errors"
	"time"
)

// Provider is the cache surface the analysis service depends on. Stats
// responses are the only cached payload today, so the interface stays small.
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	Close() error
}

// ErrCacheMiss is returned by Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// NoopProvider stands in when caching is disabled in config. Every read
// misses, so callers always recompute.
type NoopProvider struct{}

// Get reports a miss for every key.
func (NoopProvider) Get(context.Context, string) ([]byte, error) {
	return nil, ErrCacheMiss
}

// Set drops the value.
func (NoopProvider) Set(context.Context, string, []byte, time.Duration) error {
	return nil
}

// SetNX reports success without storing anything.
func (NoopProvider) SetNX(context.Context, string, []byte, time.Duration) (bool, error) {
	return true, nil
}

// Del succeeds trivially.
func (NoopProvider) Del(context.Context, string) error { return nil }

// Close succeeds trivially.
func (NoopProvider) Close() error { return nil }
