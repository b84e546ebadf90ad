package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/visitordesk/internal/common"
)

// Users lists every account in the directory. Administrators only.
func (a *App) Users(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	if !a.isAdmin() {
		return fmt.Errorf("%w: administrator access required", common.ErrUnauthorized)
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	accounts, err := a.directory.ListAll(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(outWriter, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "USERNAME\tFULL NAME\tEMAIL\tROLE\tSTATUS\tCREATED")
	for _, acc := range accounts {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			acc.Username, acc.FullName, acc.Email, acc.Role, acc.Status, acc.CreatedAt)
	}
	return w.Flush()
}

// UserUpdate applies field=value pairs to the named account.
// Administrators only; args is <username> followed by at least one pair.
// Supported fields: fullName, email, secret, role, status.
func (a *App) UserUpdate(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	if !a.isAdmin() {
		return fmt.Errorf("%w: administrator access required", common.ErrUnauthorized)
	}

	username := args[0]
	fields := make(map[string]any, len(args)-1)
	for _, pair := range args[1:] {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return fmt.Errorf("%w: expected field=value, got %q", common.ErrValidation, pair)
		}
		fields[k] = v
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.directory.UpdateAccount(ctx, username, fields, a.currentUsername(), true); err != nil {
		return err
	}

	printlnFn("Account updated:", username)
	return nil
}

// Profile shows the logged-in user's account and optionally updates it.
// Empty input keeps the current value; the password is only changed when a
// non-empty one is entered.
func (a *App) Profile(ctx context.Context) error {
	sess, ok := a.sessions.Current()
	if !ok {
		return common.ErrNotAuthenticated
	}

	printlnFn(fmt.Sprintf("Username: %s\nFull name: %s\nEmail: %s\nRole: %s",
		sess.Username, sess.FullName, sess.Email, sess.Role))

	fullName, err := getSimpleText(a.reader, "New full name (leave empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "New email (leave empty to keep)", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}

	fields := map[string]any{}
	if fullName != "" {
		fields["fullName"] = fullName
	}
	if email != "" {
		fields["email"] = email
	}
	if len(password) > 0 {
		fields["secret"] = string(password)
	}
	if len(fields) == 0 {
		printlnFn("Nothing to update.")
		return nil
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.sessions.UpdateProfile(ctx, fields); err != nil {
		return err
	}

	printlnFn("Profile updated.")
	return nil
}
