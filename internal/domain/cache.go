package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache holds derived data: stats snapshots, API key validation results and
// parental gate counters. Callers treat every cache error as a miss.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value. A zero expiration keeps it until deleted.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error

	// Delete removes keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error

	// IncrWindow increments a counter and returns the new value. The first
	// increment opens a window of the given length; later increments do not
	// extend it.
	IncrWindow(ctx context.Context, key string, window time.Duration) (int64, error)

	// TTL returns the remaining lifetime of key, zero when it never expires,
	// or ErrCacheMiss.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Ping(ctx context.Context) error
}
