package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/dmitrijs2005/visitordesk/internal/client/config"
	"github.com/dmitrijs2005/visitordesk/internal/client/local"
	"github.com/dmitrijs2005/visitordesk/internal/client/models"
	"github.com/dmitrijs2005/visitordesk/internal/client/remote"
	"github.com/dmitrijs2005/visitordesk/internal/client/repositories/state"
	"github.com/dmitrijs2005/visitordesk/internal/client/repositories/visitorlog"
	"github.com/dmitrijs2005/visitordesk/internal/client/services"
	"github.com/dmitrijs2005/visitordesk/internal/common"
	"github.com/dmitrijs2005/visitordesk/internal/filex"
	"github.com/dmitrijs2005/visitordesk/internal/logging"
)

// The command handlers depend on these narrow views of the application
// services so tests can substitute fakes.

type directoryService interface {
	BootstrapDefaultAdmin(ctx context.Context) error
	Register(ctx context.Context, username, secret, fullName, email string) (models.Account, error)
	ListAll(ctx context.Context) ([]models.Account, error)
	UpdateAccount(ctx context.Context, username string, fields map[string]any, requestedBy string, requesterIsAdmin bool) error
}

type sessionService interface {
	Login(ctx context.Context, username, secret string) (models.Session, error)
	Logout(ctx context.Context)
	Restore(ctx context.Context)
	UpdateProfile(ctx context.Context, fields map[string]any) error
	Current() (models.Session, bool)
	IsAdmin() bool
}

type ledgerService interface {
	LogVisitor(ctx context.Context, details models.VisitorDetails, loggedBy string) (models.VisitorRecord, error)
	CheckoutVisitor(ctx context.Context, id int64) (bool, error)
	Records(ctx context.Context, searchTerm string) ([]models.VisitorRecord, error)
}

type exportService interface {
	ExportCSV(ctx context.Context) (string, error)
}

// App is the interactive VisitorDesk client.
type App struct {
	config    *config.Config
	store     remote.Store
	directory directoryService
	sessions  sessionService
	ledger    ledgerService
	exporter  exportService
	log       logging.Logger
	reader    *bufio.Reader
}

func newRemoteStore(ctx context.Context, c *config.Config) (remote.Store, error) {
	switch c.RemoteBackend {
	case config.BackendRedis:
		return remote.NewRedisStore(ctx, c.RedisURL)
	case config.BackendPostgres:
		return remote.NewPostgresStore(ctx, c.PostgresDSN)
	default:
		return nil, fmt.Errorf("unknown remote backend %q", c.RemoteBackend)
	}
}

// NewApp wires the client: local database, remote store, services. An
// unreachable remote store is not fatal; the client starts in fallback mode
// and retries per operation.
func NewApp(c *config.Config) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), c.RemoteTimeout)
	defer cancel()

	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	dataDir, err := filex.EnsureSubDir("data")
	if err != nil {
		return nil, fmt.Errorf("data directory: %w", err)
	}

	db, err := local.InitDatabase(ctx, filepath.Join(dataDir, c.DatabasePath))
	if err != nil {
		return nil, fmt.Errorf("local database: %w", err)
	}

	store, err := newRemoteStore(ctx, c)
	if err != nil {
		if store == nil || !errors.Is(err, common.ErrRemoteUnavailable) {
			return nil, err
		}
		log.Warn(ctx, "remote store unreachable, starting in fallback mode", "error", err.Error())
	}

	directory := services.NewDirectory(store, log)
	sessions := services.NewSessionManager(directory, state.NewSQLiteRepository(db), c.SessionKey, log)
	ledger := services.NewLedger(store, visitorlog.NewSQLiteRepository(db), log)
	exporter := services.NewExporter(ledger, c, log)

	app := &App{
		config:    c,
		store:     store,
		directory: directory,
		sessions:  sessions,
		ledger:    ledger,
		exporter:  exporter,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
	}

	sessions.Restore(ctx)
	if err := directory.BootstrapDefaultAdmin(ctx); err != nil {
		// not fatal: the directory may simply be unreachable right now
		log.Warn(ctx, "could not bootstrap default admin", "error", err.Error())
	}

	return app, nil
}

// Run starts the REPL and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer func() {
		if err := a.store.Close(); err != nil {
			a.log.Error(ctx, "error closing remote store", "error", err.Error())
		}
	}()

	printlnFn("VisitorDesk (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}

// opCtx bounds one command's remote work with the configured timeout.
func (a *App) opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RemoteTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RemoteTimeout)
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}

func (a *App) isAdmin() bool {
	return a.sessions.IsAdmin()
}

func (a *App) currentUsername() string {
	sess, ok := a.sessions.Current()
	if !ok {
		return ""
	}
	return sess.Username
}

func (a *App) getStatus() string {
	sess, ok := a.sessions.Current()
	if !ok {
		return ""
	}
	s := sess.Username
	if sess.IsAdmin() {
		s += " admin"
	}
	return fmt.Sprintf("(%s)", s)
}
