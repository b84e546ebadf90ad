package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dmitrijs2005/visitordesk/internal/client/models"
	"github.com/dmitrijs2005/visitordesk/internal/common"
)

// outWriter is a test seam for tabular output.
var outWriter io.Writer = os.Stdout

// CheckIn prompts for the visitor's details and logs an In record.
// Name, phone, and host are required; the rest is optional.
func (a *App) CheckIn(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	name, err := getSimpleText(a.reader, "Visitor name", os.Stdout)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone", os.Stdout)
	if err != nil {
		return err
	}
	host, err := getSimpleText(a.reader, "Host (person being visited)", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" || phone == "" || host == "" {
		return fmt.Errorf("%w: name, phone and host are required", common.ErrValidation)
	}

	email, err := getSimpleText(a.reader, "Email (optional)", os.Stdout)
	if err != nil {
		return err
	}
	purpose, err := getSimpleText(a.reader, "Purpose of visit (optional)", os.Stdout)
	if err != nil {
		return err
	}
	notes, err := getSimpleText(a.reader, "Notes (optional)", os.Stdout)
	if err != nil {
		return err
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	rec, err := a.ledger.LogVisitor(ctx, models.VisitorDetails{
		Name:    name,
		Phone:   phone,
		Email:   email,
		Purpose: purpose,
		Host:    host,
		Notes:   notes,
	}, a.currentUsername())
	if err != nil {
		return err
	}

	printlnFn(fmt.Sprintf("Visitor checked in with id %d", rec.ID))
	return nil
}

// CheckOut marks the visitor with the given id as left.
func (a *App) CheckOut(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id must be a number", common.ErrValidation)
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	found, err := a.ledger.CheckoutVisitor(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		printlnFn(fmt.Sprintf("No visitor with id %d", id))
		return nil
	}

	printlnFn(fmt.Sprintf("Visitor %d checked out", id))
	return nil
}

// List renders the whole ledger, newest first.
func (a *App) List(ctx context.Context) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	return a.renderLedger(ctx, "")
}

// Search renders the ledger entries matching the given term.
func (a *App) Search(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return common.ErrNotAuthenticated
	}
	return a.renderLedger(ctx, strings.Join(args, " "))
}

func (a *App) renderLedger(ctx context.Context, term string) error {
	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	records, err := a.ledger.Records(ctx, term)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		printlnFn("No visitors found")
		return nil
	}

	w := tabwriter.NewWriter(outWriter, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPHONE\tHOST\tPURPOSE\tENTRY\tEXIT\tSTATUS\tLOGGED BY")
	for _, r := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Name, r.Phone, r.Host, r.Purpose, r.EntryTime, r.ExitTime, r.Status, r.LoggedBy)
	}
	return w.Flush()
}
