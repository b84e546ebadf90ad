// Package services contains the application services of the VisitorDesk
// client: the account directory, the session manager, the visitor ledger,
// and the ledger exporter. The presentation layer calls these and renders
// whatever they return.
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/visitordesk/internal/client/models"
	"github.com/dmitrijs2005/visitordesk/internal/client/remote"
	"github.com/dmitrijs2005/visitordesk/internal/common"
	"github.com/dmitrijs2005/visitordesk/internal/logging"
)

// timeNow is a test seam.
var timeNow = time.Now

// Directory manages user accounts in the remote users collection.
// Account operations have no local fallback: when the remote store is
// unreachable the error propagates to the caller.
type Directory struct {
	store remote.Store
	log   logging.Logger
}

func NewDirectory(store remote.Store, log logging.Logger) *Directory {
	return &Directory{store: store, log: log.With("component", "directory")}
}

// BootstrapDefaultAdmin creates the well-known administrator account when
// the users collection is empty. Idempotent: a non-empty collection leaves
// the directory untouched.
func (d *Directory) BootstrapDefaultAdmin(ctx context.Context) error {
	docs, err := d.store.QueryAll(ctx, common.CollectionUsers)
	if err != nil {
		return fmt.Errorf("query users: %w", err)
	}
	if len(docs) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(common.DefaultAdminSecret), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash default admin secret: %w", err)
	}

	admin := models.Account{
		Username:   common.DefaultAdminUsername,
		SecretHash: string(hash),
		FullName:   common.DefaultAdminFullName,
		Email:      common.DefaultAdminEmail,
		Role:       models.RoleAdmin,
		Status:     models.StatusActive,
		CreatedAt:  timeNow().UTC().Format(time.RFC3339),
	}

	if err := d.store.Put(ctx, common.CollectionUsers, admin.Username, admin); err != nil {
		return fmt.Errorf("create default admin: %w", err)
	}

	d.log.Info(ctx, "default admin user created", "username", admin.Username)
	return nil
}

// Register creates a new active account with role user. The username is
// checked with a point lookup; concurrent registrations of the same name
// from different clients are not guaranteed atomic. The returned account
// has the credential hash stripped.
func (d *Directory) Register(ctx context.Context, username, secret, fullName, email string) (models.Account, error) {
	if username == "" || secret == "" || fullName == "" {
		return models.Account{}, fmt.Errorf("%w: username, password and full name are required", common.ErrValidation)
	}
	if len(secret) < common.MinSecretLength {
		return models.Account{}, fmt.Errorf("%w: password must be at least %d characters long",
			common.ErrValidation, common.MinSecretLength)
	}

	_, err := d.store.Get(ctx, common.CollectionUsers, username)
	if err == nil {
		return models.Account{}, common.ErrDuplicateUsername
	}
	if !errors.Is(err, common.ErrNotFound) {
		return models.Account{}, fmt.Errorf("check username: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return models.Account{}, fmt.Errorf("hash secret: %w", err)
	}

	acc := models.Account{
		Username:   username,
		SecretHash: string(hash),
		FullName:   fullName,
		Email:      email,
		Role:       models.RoleUser,
		Status:     models.StatusActive,
		CreatedAt:  timeNow().UTC().Format(time.RFC3339),
	}

	if err := d.store.Put(ctx, common.CollectionUsers, username, acc); err != nil {
		return models.Account{}, fmt.Errorf("save account: %w", err)
	}

	d.log.Info(ctx, "user registered", "username", username)
	return acc.Sanitized(), nil
}

// Authenticate verifies the credential against the stored bcrypt hash.
// Unknown usernames and wrong secrets both yield ErrInvalidCredentials so
// the response does not leak whether the account exists; a deactivated
// account is reported distinctly.
func (d *Directory) Authenticate(ctx context.Context, username, secret string) (models.Account, error) {
	data, err := d.store.Get(ctx, common.CollectionUsers, username)
	if errors.Is(err, common.ErrNotFound) {
		return models.Account{}, common.ErrInvalidCredentials
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("load account: %w", err)
	}

	var acc models.Account
	if err := json.Unmarshal(data, &acc); err != nil {
		return models.Account{}, fmt.Errorf("decode account %s: %w", username, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.SecretHash), []byte(secret)) != nil {
		return models.Account{}, common.ErrInvalidCredentials
	}

	if acc.Status != models.StatusActive {
		return models.Account{}, common.ErrAccountDeactivated
	}

	return acc.Sanitized(), nil
}

// ListAll returns every account, credential hashes stripped, sorted by
// username. An empty directory yields an empty slice.
func (d *Directory) ListAll(ctx context.Context) ([]models.Account, error) {
	docs, err := d.store.QueryAll(ctx, common.CollectionUsers)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}

	accounts := make([]models.Account, 0, len(docs))
	for key, data := range docs {
		var acc models.Account
		if err := json.Unmarshal(data, &acc); err != nil {
			d.log.Warn(ctx, "skipping undecodable account record", "key", key, "error", err.Error())
			continue
		}
		accounts = append(accounts, acc.Sanitized())
	}

	sort.Slice(accounts, func(i, j int) bool { return accounts[i].Username < accounts[j].Username })
	return accounts, nil
}

// updatableAccountFields lists the document fields an update may touch.
// The username is the immutable primary key; a plaintext "secret" is
// accepted and stored as its bcrypt hash.
var updatableAccountFields = map[string]struct{}{
	"fullName": {},
	"email":    {},
	"secret":   {},
	"role":     {},
	"status":   {},
}

// UpdateAccount applies partial fields to an account. Self-updates are
// always permitted; updating someone else requires requesterIsAdmin.
func (d *Directory) UpdateAccount(ctx context.Context, username string, fields map[string]any, requestedBy string, requesterIsAdmin bool) error {
	if username != requestedBy && !requesterIsAdmin {
		return fmt.Errorf("%w: only administrators can update other users", common.ErrUnauthorized)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: nothing to update", common.ErrValidation)
	}

	patch := make(map[string]any, len(fields))
	for k, v := range fields {
		if _, ok := updatableAccountFields[k]; !ok {
			return fmt.Errorf("%w: field %q cannot be updated", common.ErrValidation, k)
		}
		if k != "secret" {
			patch[k] = v
			continue
		}

		secret, ok := v.(string)
		if !ok || len(secret) < common.MinSecretLength {
			return fmt.Errorf("%w: password must be at least %d characters long",
				common.ErrValidation, common.MinSecretLength)
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("hash secret: %w", err)
		}
		patch["secretHash"] = string(hash)
	}

	if err := d.store.Update(ctx, common.CollectionUsers, username, patch); err != nil {
		return fmt.Errorf("update account %s: %w", username, err)
	}

	d.log.Info(ctx, "account updated", "username", username, "by", requestedBy)
	return nil
}
