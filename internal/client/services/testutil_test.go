package services

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/visitordesk/internal/client/remote"
	"github.com/dmitrijs2005/visitordesk/internal/client/repositories/state"
	"github.com/dmitrijs2005/visitordesk/internal/client/repositories/visitorlog"
	"github.com/dmitrijs2005/visitordesk/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE state (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);
`)
	require.NoError(t, err)

	_, err = db.Exec(`
CREATE TABLE visitor_log (
  id         INTEGER PRIMARY KEY,
  name       TEXT NOT NULL,
  phone      TEXT NOT NULL,
  email      TEXT NOT NULL DEFAULT '',
  purpose    TEXT NOT NULL DEFAULT '',
  host       TEXT NOT NULL,
  notes      TEXT NOT NULL DEFAULT '',
  entry_time TEXT NOT NULL,
  exit_time  TEXT NOT NULL DEFAULT '',
  status     TEXT NOT NULL,
  logged_by  TEXT NOT NULL,
  created_at TEXT NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

type fixture struct {
	store     *remote.MemoryStore
	db        *sql.DB
	directory *Directory
	sessions  *SessionManager
	ledger    *Ledger
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	store := remote.NewMemoryStore()
	db := setupDB(t)
	log := testLogger()

	directory := NewDirectory(store, log)
	sessions := NewSessionManager(directory, state.NewSQLiteRepository(db), "test-signing-key", log)
	ledger := NewLedger(store, visitorlog.NewSQLiteRepository(db), log)

	return &fixture{
		store:     store,
		db:        db,
		directory: directory,
		sessions:  sessions,
		ledger:    ledger,
	}
}
