// Package kvstore abstracts the key-value store that owns all shared
// homepage state (visit counters, theme color, check-in day lists).
// The production implementation is Redis; an in-memory implementation
// backs tests and single-process setups.
package kvstore

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist or has expired.
var ErrNotFound = errors.New("kvstore: key not found")

// ErrNotConfigured is returned by services running without a bound
// store; the HTTP layer maps it to 501 so clients fall back to local
// storage.
var ErrNotConfigured = errors.New("kvstore: store not configured")

// Store is the minimal contract the homepage services need. A ttl of 0
// means the key never expires.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ConditionalStore extends Store with a conditional create and an atomic
// increment. Stores that support it (Redis via SETNX/INCR, the memory
// store trivially) let the visit counter use the marker creation as the
// sole arbiter of "new visit" instead of a racy check-then-write.
type ConditionalStore interface {
	Store

	// PutIfAbsent creates the key only if it does not exist yet and
	// reports whether it was created.
	PutIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Incr atomically increments the decimal string at key, treating a
	// missing key as 0, and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
}
