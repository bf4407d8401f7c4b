package repository

import (
	"context"
)

// Store is the device-local durable key-value storage this core persists
// tokens, keyboxes and rotation attempt records into. Get returns
// types.ErrNotFound for absent keys.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}
