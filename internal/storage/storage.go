package storage

import (
	"context"
	"errors"
)

// ErrNotFound indicates the slot has no value.
var ErrNotFound = errors.New("storage: not found")

// Store is a namespaced snapshot slot store. Values are opaque JSON blobs;
// callers own the key scheme (session:<sid>, cart:<namespace>, ...).
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
