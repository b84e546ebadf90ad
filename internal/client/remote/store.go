// Package remote implements the record store adapter: uniform keyed access
// to the shared remote store that is the system of record while reachable.
//
// Two collections exist: "users" (keyed by username) and "visitors" (keyed
// by an opaque server-generated entry id; the visitor's business id lives
// inside the document and is located by a secondary scan). Documents are
// JSON. Infrastructure failures are reported as common.ErrRemoteUnavailable
// so callers can fall back to the local cache instead of aborting.
package remote

import "context"

// Store is the uniform contract over the remote keyed store.
type Store interface {
	// Put stores doc (JSON-marshalled) under key, replacing any previous value.
	Put(ctx context.Context, collection, key string, doc any) error

	// Update merges fields into the document stored under key.
	// Returns common.ErrNotFound when there is no such document.
	Update(ctx context.Context, collection, key string, fields map[string]any) error

	// Get returns the raw JSON document stored under key, or
	// common.ErrNotFound when absent.
	Get(ctx context.Context, collection, key string) ([]byte, error)

	// QueryAll enumerates a whole collection as entry key -> raw JSON
	// document. Iteration order is unspecified; callers sort.
	QueryAll(ctx context.Context, collection string) (map[string][]byte, error)

	// Ping checks reachability of the remote store.
	Ping(ctx context.Context) error

	// Close releases underlying connections.
	Close() error
}
