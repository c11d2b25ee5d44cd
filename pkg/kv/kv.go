// Package kv is the gateway's short-lived key-value storage: single-use OAuth
// state ids and the session revocation list. Backed by Valkey/Redis in
// deployments and by an in-process map otherwise.
package kv

import (
	"context"
	"time"
)

// Store defines a minimal key-value interface. Keys are strings, values are
// byte slices. A zero TTL means the key does not expire.
type Store interface {
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns ErrNotFound if the key doesn't exist or has expired.
	Get(ctx context.Context, key string) ([]byte, error)

	// GetDel atomically reads and removes a key. Returns ErrNotFound if the
	// key doesn't exist, so only one caller ever observes the value.
	GetDel(ctx context.Context, key string) ([]byte, error)

	Close() error
}
