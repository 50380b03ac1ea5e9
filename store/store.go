// Package store defines the key-value persistence used to cache the
// disposable domain list between fetches.
package store

import (
	"context"

	"github.com/optimode/disposable/types"
)

// Store persists cache entries under a key. The entry carries its own
// expiration; stores never decide validity themselves.
// Implementations must be safe for concurrent use. Concurrent writers to the
// same key overwrite each other and the last one wins.
//
//go:generate mockgen -package mockstore -source=store.go -destination=mockstore/mockstore.go
type Store interface {
	// Get returns the entry stored under key. found is false when there is none.
	// A non-nil error means the entry exists but could not be read or decoded.
	Get(ctx context.Context, key string) (entry types.Entry, found bool, err error)
	// Put replaces the entry stored under key.
	Put(ctx context.Context, key string, entry types.Entry) error
	// Delete removes the entry. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
