package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/visitordesk/internal/client/models"
	"github.com/dmitrijs2005/visitordesk/internal/client/repositories/state"
	"github.com/dmitrijs2005/visitordesk/internal/common"
	"github.com/dmitrijs2005/visitordesk/internal/logging"
)

// sessionClaims wraps the session inside a signed token so a tampered
// state slot is detected on restore.
type sessionClaims struct {
	jwt.RegisteredClaims
	Session models.Session `json:"session"`
}

// SessionManager holds the single authenticated identity of the running
// client. Two states: unauthenticated (Current returns false) and
// authenticated. The session survives restarts via a signed token in the
// local state slot; Restore trusts the verified token without re-checking
// credentials against the directory.
//
// At most one session exists per client; concurrent multi-user sessions
// are out of scope.
type SessionManager struct {
	directory  *Directory
	state      state.Repository
	signingKey []byte
	log        logging.Logger
	current    *models.Session
}

func NewSessionManager(directory *Directory, stateRepo state.Repository, signingKey string, log logging.Logger) *SessionManager {
	return &SessionManager{
		directory:  directory,
		state:      stateRepo,
		signingKey: []byte(signingKey),
		log:        log.With("component", "session"),
	}
}

// Login authenticates against the directory and, on success, becomes the
// current session and persists it. On failure the previous state is kept
// and the error propagates.
func (m *SessionManager) Login(ctx context.Context, username, secret string) (models.Session, error) {
	acc, err := m.directory.Authenticate(ctx, username, secret)
	if err != nil {
		return models.Session{}, err
	}

	sess := models.NewSession(acc)
	m.current = &sess

	if err := m.persist(ctx, sess); err != nil {
		// The login itself succeeded; a broken state slot only costs the
		// restore-on-restart convenience.
		m.log.Error(ctx, "failed to persist session", "error", err.Error())
	}

	m.log.Info(ctx, "login successful", "username", sess.Username)
	return sess, nil
}

// Logout clears the current session and the persisted copy.
func (m *SessionManager) Logout(ctx context.Context) {
	m.current = nil
	if err := m.state.Delete(ctx, common.StateSlotSession); err != nil {
		m.log.Error(ctx, "failed to clear persisted session", "error", err.Error())
	}
}

// Restore loads the persisted session, if any. Run once at startup. An
// unreadable or invalid token is logged, discarded, and treated as no
// session.
func (m *SessionManager) Restore(ctx context.Context) {
	data, err := m.state.Get(ctx, common.StateSlotSession)
	if errors.Is(err, common.ErrNotFound) {
		return
	}
	if err != nil {
		m.log.Error(ctx, "failed to read persisted session", "error", err.Error())
		return
	}

	sess, err := m.parseToken(string(data))
	if err != nil {
		m.log.Warn(ctx, "discarding invalid persisted session", "error", err.Error())
		if err := m.state.Delete(ctx, common.StateSlotSession); err != nil {
			m.log.Error(ctx, "failed to discard persisted session", "error", err.Error())
		}
		return
	}

	m.current = &sess
	m.log.Info(ctx, "session restored", "username", sess.Username)
}

// UpdateProfile applies partial fields to the logged-in user's own account,
// mutates the in-memory session accordingly (the secret is never retained),
// and re-persists it.
func (m *SessionManager) UpdateProfile(ctx context.Context, fields map[string]any) error {
	if m.current == nil {
		return common.ErrNotAuthenticated
	}

	err := m.directory.UpdateAccount(ctx, m.current.Username, fields, m.current.Username, m.IsAdmin())
	if err != nil {
		return err
	}

	if v, ok := fields["fullName"].(string); ok {
		m.current.FullName = v
	}
	if v, ok := fields["email"].(string); ok {
		m.current.Email = v
	}

	if err := m.persist(ctx, *m.current); err != nil {
		m.log.Error(ctx, "failed to re-persist session", "error", err.Error())
	}
	return nil
}

// Current returns the active session, if any.
func (m *SessionManager) Current() (models.Session, bool) {
	if m.current == nil {
		return models.Session{}, false
	}
	return *m.current, true
}

// IsAdmin reports whether the current session belongs to an administrator.
func (m *SessionManager) IsAdmin() bool {
	return m.current != nil && m.current.IsAdmin()
}

func (m *SessionManager) persist(ctx context.Context, sess models.Session) error {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:  sess.Username,
			IssuedAt: jwt.NewNumericDate(timeNow()),
		},
		Session: sess,
	})

	signed, err := token.SignedString(m.signingKey)
	if err != nil {
		return fmt.Errorf("sign session token: %w", err)
	}

	return m.state.Set(ctx, common.StateSlotSession, []byte(signed))
}

func (m *SessionManager) parseToken(tokenString string) (models.Session, error) {
	claims := &sessionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.signingKey, nil
	})
	if err != nil {
		return models.Session{}, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}
	if !token.Valid || claims.Session.Username == "" {
		return models.Session{}, common.ErrInvalidToken
	}

	return claims.Session, nil
}
