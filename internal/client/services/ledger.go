package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/visitordesk/internal/client/models"
	"github.com/dmitrijs2005/visitordesk/internal/client/remote"
	"github.com/dmitrijs2005/visitordesk/internal/client/repositories/visitorlog"
	"github.com/dmitrijs2005/visitordesk/internal/common"
	"github.com/dmitrijs2005/visitordesk/internal/logging"
)

// entryTimeLayout is the display form of entry/exit timestamps.
const entryTimeLayout = "1/2/2006, 3:04:05 PM"

// newEntryKey is a test seam for the opaque remote entry key.
var newEntryKey = uuid.NewString

// Ledger manages visitor check-in/check-out records. Every write goes to
// the remote visitors collection on a best-effort basis and to the local
// fallback cache unconditionally; reads prefer the remote copy and fall
// back to the cache. The two views are never merged: whichever side served
// the read is authoritative for that call.
type Ledger struct {
	store remote.Store
	cache visitorlog.Repository
	log   logging.Logger

	// mu serializes cache read-modify-write; the surrounding design is
	// single-caller but concurrent REPL-triggered calls must not race.
	mu     sync.Mutex
	lastID int64
}

func NewLedger(store remote.Store, cache visitorlog.Repository, log logging.Logger) *Ledger {
	return &Ledger{store: store, cache: cache, log: log.With("component", "ledger")}
}

// nextID derives a record id from the current time, bumped when needed so
// ids stay strictly increasing within this process. Monotonicity across
// clients is not guaranteed.
func (l *Ledger) nextID(now time.Time) int64 {
	id := now.UnixMilli()
	if id <= l.lastID {
		id = l.lastID + 1
	}
	l.lastID = id
	return id
}

// LogVisitor creates an In record for the given visitor details.
// Precondition (validated by the caller): Name, Phone, and Host are
// non-empty. The record is written to the remote store best-effort and
// appended to the local cache regardless of the remote outcome; only a
// local write failure is an error.
func (l *Ledger) LogVisitor(ctx context.Context, details models.VisitorDetails, loggedBy string) (models.VisitorRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := timeNow()
	rec := models.VisitorRecord{
		ID:             l.nextID(now),
		VisitorDetails: details,
		EntryTime:      now.Format(entryTimeLayout),
		ExitTime:       "",
		Status:         models.VisitorIn,
		LoggedBy:       loggedBy,
		CreatedAt:      now.UTC().Format(time.RFC3339),
	}

	if err := l.store.Put(ctx, common.CollectionVisitors, newEntryKey(), rec); err != nil {
		l.log.Warn(ctx, "failed to save visitor to remote store, keeping local copy",
			"id", rec.ID, "error", err.Error())
	} else {
		l.log.Info(ctx, "visitor saved to remote store", "id", rec.ID)
	}

	records, err := l.cache.LoadAll(ctx)
	if err != nil {
		return models.VisitorRecord{}, fmt.Errorf("load local visitor log: %w", err)
	}
	records = append(records, rec)
	if err := l.cache.SaveAll(ctx, records); err != nil {
		return models.VisitorRecord{}, fmt.Errorf("save local visitor log: %w", err)
	}

	return rec, nil
}

// CheckoutVisitor marks the record with the given id as Out and stamps its
// exit time, in both stores independently. The return value reflects only
// the local mutation; a remote failure is logged and ignored. Checking out
// an already-Out record refreshes its exit time rather than failing.
func (l *Ledger) CheckoutVisitor(ctx context.Context, id int64) (bool, error) {
	exitTime := timeNow().Format(entryTimeLayout)

	l.checkoutRemote(ctx, id, exitTime)

	l.mu.Lock()
	defer l.mu.Unlock()

	records, err := l.cache.LoadAll(ctx)
	if err != nil {
		return false, fmt.Errorf("load local visitor log: %w", err)
	}

	found := false
	for i := range records {
		if records[i].ID != id {
			continue
		}
		records[i].Status = models.VisitorOut
		records[i].ExitTime = exitTime
		found = true
	}
	if !found {
		return false, nil
	}

	if err := l.cache.SaveAll(ctx, records); err != nil {
		return false, fmt.Errorf("save local visitor log: %w", err)
	}
	return true, nil
}

// checkoutRemote finds the entry (or entries) carrying the business id via
// a full-collection scan, the business id not being the primary key, and
// patches each one. All failures are logged only.
func (l *Ledger) checkoutRemote(ctx context.Context, id int64, exitTime string) {
	docs, err := l.store.QueryAll(ctx, common.CollectionVisitors)
	if err != nil {
		l.log.Warn(ctx, "failed to query remote store for checkout", "id", id, "error", err.Error())
		return
	}

	for key, data := range docs {
		var probe struct {
			ID int64 `json:"id"`
		}
		if err := json.Unmarshal(data, &probe); err != nil || probe.ID != id {
			continue
		}

		err := l.store.Update(ctx, common.CollectionVisitors, key, map[string]any{
			"status":   string(models.VisitorOut),
			"exitTime": exitTime,
		})
		if err != nil {
			l.log.Warn(ctx, "failed to check out visitor in remote store",
				"id", id, "key", key, "error", err.Error())
			continue
		}
		l.log.Info(ctx, "visitor checked out in remote store", "id", id)
	}
}

// LoadAll returns the current view of the ledger: the remote collection
// when it is reachable and non-empty, the local cache otherwise. The two
// are deliberately not merged, which can hide local-only records while the
// remote is reachable; see the package documentation of visitorlog.
func (l *Ledger) LoadAll(ctx context.Context) ([]models.VisitorRecord, error) {
	docs, err := l.store.QueryAll(ctx, common.CollectionVisitors)
	if err != nil {
		l.log.Warn(ctx, "failed to load visitors from remote store, using local cache", "error", err.Error())
	} else if len(docs) > 0 {
		records := make([]models.VisitorRecord, 0, len(docs))
		for key, data := range docs {
			var rec models.VisitorRecord
			if err := json.Unmarshal(data, &rec); err != nil {
				l.log.Warn(ctx, "skipping undecodable visitor record", "key", key, "error", err.Error())
				continue
			}
			records = append(records, rec)
		}
		l.log.Debug(ctx, "loaded visitors from remote store", "count", len(records))
		return records, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cache.LoadAll(ctx)
}

// Records returns the ledger view for display: newest first, optionally
// filtered by a search term (see models.VisitorRecord.Matches). An empty
// result is an empty slice; the caller decides how to present it.
func (l *Ledger) Records(ctx context.Context, searchTerm string) ([]models.VisitorRecord, error) {
	records, err := l.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	sort.Slice(records, func(i, j int) bool { return records[i].ID > records[j].ID })

	if searchTerm == "" {
		return records, nil
	}

	filtered := make([]models.VisitorRecord, 0, len(records))
	for i := range records {
		if records[i].Matches(searchTerm) {
			filtered = append(filtered, records[i])
		}
	}
	return filtered, nil
}
