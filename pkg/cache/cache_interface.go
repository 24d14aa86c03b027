package cache

import (
	"context"
	"time"
)

// Cache is the contract of the read-through cache used by the repository.
// Implementations must treat a miss as (false, nil), never as an error.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found = false means dest was left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern (e.g. "author:*").
	DeletePattern(ctx context.Context, pattern string) error

	Ping(ctx context.Context) error
}
