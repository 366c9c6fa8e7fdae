// Package storage holds the client's durable key-value state: the credential
// pair, the cached user profile and the chat session id. The cart is never
// stored here; it is always sourced from the server.
package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("key not found")

// KV mirrors a browser-profile key-value store. Get returns ErrNotFound for a
// missing key; Delete of a missing key is not an error.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) error
}
