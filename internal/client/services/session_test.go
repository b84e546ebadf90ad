package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/visitordesk/internal/client/repositories/state"
	"github.com/dmitrijs2005/visitordesk/internal/common"
)

func registerKate(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.directory.Register(context.Background(), "kate", "secret1", "Kate Smith", "kate@example.com")
	require.NoError(t, err)
}

func TestSessionManager_LoginSuccess(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	registerKate(t, f)

	sess, err := f.sessions.Login(ctx, "kate", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "kate", sess.Username)
	assert.Equal(t, "Kate Smith", sess.FullName)
	assert.False(t, f.sessions.IsAdmin())

	current, ok := f.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, sess, current)
}

func TestSessionManager_LoginFailure_StaysUnauthenticated(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	registerKate(t, f)

	_, err := f.sessions.Login(ctx, "kate", "wrong-secret")
	require.ErrorIs(t, err, common.ErrInvalidCredentials)

	_, ok := f.sessions.Current()
	assert.False(t, ok)
}

func TestSessionManager_RestoreAcrossRestart(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	registerKate(t, f)

	_, err := f.sessions.Login(ctx, "kate", "secret1")
	require.NoError(t, err)

	// a second manager over the same state DB plays the restarted client
	restarted := NewSessionManager(f.directory, state.NewSQLiteRepository(f.db), "test-signing-key", testLogger())
	restarted.Restore(ctx)

	sess, ok := restarted.Current()
	require.True(t, ok, "persisted session must be restored")
	assert.Equal(t, "kate", sess.Username)
	assert.Equal(t, "Kate Smith", sess.FullName)
}

func TestSessionManager_Restore_TrustsTokenWithoutDirectory(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	registerKate(t, f)

	_, err := f.sessions.Login(ctx, "kate", "secret1")
	require.NoError(t, err)

	// remote outage must not prevent restoring the persisted session
	f.store.SetAvailable(false)

	restarted := NewSessionManager(f.directory, state.NewSQLiteRepository(f.db), "test-signing-key", testLogger())
	restarted.Restore(ctx)

	_, ok := restarted.Current()
	assert.True(t, ok)
}

func TestSessionManager_Restore_DiscardsTamperedToken(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	stateRepo := state.NewSQLiteRepository(f.db)
	require.NoError(t, stateRepo.Set(ctx, common.StateSlotSession, []byte("not-a-token")))

	f.sessions.Restore(ctx)

	_, ok := f.sessions.Current()
	assert.False(t, ok)

	// the junk slot is cleaned up
	_, err := stateRepo.Get(ctx, common.StateSlotSession)
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestSessionManager_Restore_RejectsTokenSignedWithOtherKey(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	registerKate(t, f)

	_, err := f.sessions.Login(ctx, "kate", "secret1")
	require.NoError(t, err)

	other := NewSessionManager(f.directory, state.NewSQLiteRepository(f.db), "different-key", testLogger())
	other.Restore(ctx)

	_, ok := other.Current()
	assert.False(t, ok)
}

func TestSessionManager_Logout(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	registerKate(t, f)

	_, err := f.sessions.Login(ctx, "kate", "secret1")
	require.NoError(t, err)

	f.sessions.Logout(ctx)

	_, ok := f.sessions.Current()
	assert.False(t, ok)
	assert.False(t, f.sessions.IsAdmin())

	// nothing left to restore
	restarted := NewSessionManager(f.directory, state.NewSQLiteRepository(f.db), "test-signing-key", testLogger())
	restarted.Restore(ctx)
	_, ok = restarted.Current()
	assert.False(t, ok)
}

func TestSessionManager_UpdateProfile(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	registerKate(t, f)

	_, err := f.sessions.Login(ctx, "kate", "secret1")
	require.NoError(t, err)

	err = f.sessions.UpdateProfile(ctx, map[string]any{"fullName": "Kate Updated", "email": "new@example.com"})
	require.NoError(t, err)

	sess, ok := f.sessions.Current()
	require.True(t, ok)
	assert.Equal(t, "Kate Updated", sess.FullName)
	assert.Equal(t, "new@example.com", sess.Email)

	// the directory record was updated too
	accounts, err := f.directory.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Kate Updated", accounts[0].FullName)

	// the updated session survives a restart
	restarted := NewSessionManager(f.directory, state.NewSQLiteRepository(f.db), "test-signing-key", testLogger())
	restarted.Restore(ctx)
	sess, ok = restarted.Current()
	require.True(t, ok)
	assert.Equal(t, "Kate Updated", sess.FullName)
}

func TestSessionManager_UpdateProfile_RequiresLogin(t *testing.T) {
	f := setupFixture(t)

	err := f.sessions.UpdateProfile(context.Background(), map[string]any{"fullName": "X"})
	require.ErrorIs(t, err, common.ErrNotAuthenticated)
}

func TestSessionManager_IsAdmin(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	require.NoError(t, f.directory.BootstrapDefaultAdmin(ctx))

	_, err := f.sessions.Login(ctx, common.DefaultAdminUsername, common.DefaultAdminSecret)
	require.NoError(t, err)
	assert.True(t, f.sessions.IsAdmin())
}
