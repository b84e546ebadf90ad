package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/visitordesk/internal/common"
)

// Export uploads the ledger as a CSV object. Administrators only.
func (a *App) Export(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	if !a.isAdmin() {
		return fmt.Errorf("%w: administrator access required", common.ErrUnauthorized)
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	key, err := a.exporter.ExportCSV(ctx)
	if err != nil {
		return err
	}

	printlnFn("Ledger exported to", key)
	return nil
}
