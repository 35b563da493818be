// Package store provides durable key→string storage for project payloads.
//
// The contract is deliberately small: callers hand over an opaque string
// under a key and get it back later. A missing key is a soft miss reported
// through the ok return, not an error. Implementations cover in-memory use
// (testing, single process), local files (CLI), Redis, and MongoDB (the
// hosted backend).
package store

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on a store that has been closed.
var ErrClosed = errors.New("store closed")

// Store is a durable key→string store.
type Store interface {
	// Get retrieves the value at key. The second return is false on a
	// miss; a miss is not an error.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// Delete removes the value at key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}
