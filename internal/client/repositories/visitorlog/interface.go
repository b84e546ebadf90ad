// Package visitorlog is the local fallback cache of visitor records: the
// last-known copy of the ledger on this client. It is the sole source of
// truth whenever the remote store is unreachable and is always updated
// after a successful visitor write, independent of remote outcome.
package visitorlog

import (
	"context"

	"github.com/dmitrijs2005/visitordesk/internal/client/models"
)

type Repository interface {
	// LoadAll returns all cached records in insertion (id) order.
	// An empty cache yields an empty slice, not an error.
	LoadAll(ctx context.Context) ([]models.VisitorRecord, error)

	// SaveAll replaces the whole cache with records, atomically.
	SaveAll(ctx context.Context, records []models.VisitorRecord) error
}
