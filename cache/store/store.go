// Package store defines the remote TTL key-value store abstraction backing
// the cache.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to SetEx for a key (no prepended
// metadata, no re-encoding, no mutation). Framing and validation belong to the
// cache layer, not the store.
package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotSupported is returned by stores that cannot implement an operation
// (e.g. key enumeration on backends without iteration). The cache treats it
// like any other operation failure.
var ErrNotSupported = errors.New("store: operation not supported")

// Health is a live snapshot of the backing store, read on demand.
type Health struct {
	Connected  bool  `json:"connected"`
	Keys       int64 `json:"keys"`
	UsedMemory int64 `json:"used_memory"`
	MaxMemory  int64 `json:"max_memory"` // 0 when the backend has no limit
}

// Store is a byte store with per-key TTLs. Must be safe for concurrent use.
type Store interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// SetEx stores value with the given TTL. TTL must be positive.
	SetEx(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Del removes the given keys (best-effort; absent keys are not an error).
	Del(ctx context.Context, keys ...string) error

	// Keys returns every key matching the redis-style glob pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)

	// FlushAll wipes the whole store DB. Administrative.
	FlushAll(ctx context.Context) error

	// Info reads a live health snapshot.
	Info(ctx context.Context) (Health, error)

	// Ping reports connectivity.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close(ctx context.Context) error
}
