// Package cache provides the keyed, revalidating read cache the list
// views and composers share. Entries hold serialized collection
// snapshots keyed by resource name plus page number where paginated.
package cache

import (
	"context"
	"time"
)

// Store is the backing storage for serialized cache entries. The
// in-memory store is the default; a Redis store lets separate
// invocations share warm entries.
type Store interface {
	// Get returns the stored bytes for key and whether the key exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key, evicted after retention.
	Set(ctx context.Context, key string, value []byte, retention time.Duration) error
	// Delete removes key. Missing keys are a no-op.
	Delete(ctx context.Context, key string) error
	// Keys lists stored keys beginning with prefix.
	Keys(ctx context.Context, prefix string) ([]string, error)
}
