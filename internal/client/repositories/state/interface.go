// Package state persists small named slots of client state, e.g. the
// serialized session token. Each slot is one row in the local state table.
package state

import "context"

type Repository interface {
	// Get returns the slot value, or common.ErrNotFound when the slot is empty.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
