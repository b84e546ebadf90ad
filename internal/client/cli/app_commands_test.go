package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/dmitrijs2005/visitordesk/internal/client/models"
	"github.com/dmitrijs2005/visitordesk/internal/common"
)

// stubInputs replaces the interactive input seams: every getSimpleText call
// pops the next answer, getPassword returns pw.
func stubInputs(t *testing.T, answers []string, pw []byte) {
	t.Helper()
	origST, origGP := getSimpleText, getPassword
	t.Cleanup(func() {
		getSimpleText = origST
		getPassword = origGP
	})

	i := 0
	getSimpleText = func(_ *bufio.Reader, _ string, _ io.Writer) (string, error) {
		if i >= len(answers) {
			return "", nil
		}
		answer := answers[i]
		i++
		return answer, nil
	}
	getPassword = func(_ io.Writer) ([]byte, error) { return pw, nil }
}

// muteOutput captures printlnFn lines for assertions.
func muteOutput(t *testing.T) *[]string {
	t.Helper()
	orig := printlnFn
	t.Cleanup(func() { printlnFn = orig })

	var lines []string
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSpace(fmt.Sprintln(a...)))
		return 0, nil
	}
	return &lines
}

type fakeDirectory struct {
	regUsername, regSecret, regFullName, regEmail string
	regErr                                        error

	accounts []models.Account
	listErr  error

	updUsername    string
	updFields      map[string]any
	updRequestedBy string
	updAsAdmin     bool
	updErr         error
}

func (f *fakeDirectory) BootstrapDefaultAdmin(context.Context) error { return nil }
func (f *fakeDirectory) Register(_ context.Context, username, secret, fullName, email string) (models.Account, error) {
	f.regUsername, f.regSecret, f.regFullName, f.regEmail = username, secret, fullName, email
	return models.Account{Username: username}, f.regErr
}
func (f *fakeDirectory) ListAll(context.Context) ([]models.Account, error) {
	return f.accounts, f.listErr
}
func (f *fakeDirectory) UpdateAccount(_ context.Context, username string, fields map[string]any, requestedBy string, asAdmin bool) error {
	f.updUsername, f.updFields, f.updRequestedBy, f.updAsAdmin = username, fields, requestedBy, asAdmin
	return f.updErr
}

type fakeSessions struct {
	current *models.Session

	loginUsername, loginSecret string
	loginErr                   error

	loggedOut bool

	profFields map[string]any
	profErr    error
}

func (f *fakeSessions) Login(_ context.Context, username, secret string) (models.Session, error) {
	f.loginUsername, f.loginSecret = username, secret
	if f.loginErr != nil {
		return models.Session{}, f.loginErr
	}
	sess := models.Session{Username: username, FullName: "Test User"}
	f.current = &sess
	return sess, nil
}
func (f *fakeSessions) Logout(context.Context) {
	f.current = nil
	f.loggedOut = true
}
func (f *fakeSessions) Restore(context.Context) {}
func (f *fakeSessions) UpdateProfile(_ context.Context, fields map[string]any) error {
	f.profFields = fields
	return f.profErr
}
func (f *fakeSessions) Current() (models.Session, bool) {
	if f.current == nil {
		return models.Session{}, false
	}
	return *f.current, true
}
func (f *fakeSessions) IsAdmin() bool {
	return f.current != nil && f.current.IsAdmin()
}

type fakeLedger struct {
	logged   models.VisitorDetails
	loggedBy string
	logRec   models.VisitorRecord
	logErr   error

	checkoutID    int64
	checkoutFound bool
	checkoutErr   error

	records    []models.VisitorRecord
	recordsErr error
	searchTerm string
}

func (f *fakeLedger) LogVisitor(_ context.Context, details models.VisitorDetails, loggedBy string) (models.VisitorRecord, error) {
	f.logged, f.loggedBy = details, loggedBy
	return f.logRec, f.logErr
}
func (f *fakeLedger) CheckoutVisitor(_ context.Context, id int64) (bool, error) {
	f.checkoutID = id
	return f.checkoutFound, f.checkoutErr
}
func (f *fakeLedger) Records(_ context.Context, term string) ([]models.VisitorRecord, error) {
	f.searchTerm = term
	return f.records, f.recordsErr
}

type fakeExporter struct {
	key string
	err error
}

func (f *fakeExporter) ExportCSV(context.Context) (string, error) { return f.key, f.err }

func loggedInApp(role models.Role) (*App, *fakeDirectory, *fakeSessions, *fakeLedger, *fakeExporter) {
	dir := &fakeDirectory{}
	sess := &fakeSessions{current: &models.Session{Username: "kate", FullName: "Kate Smith", Role: role}}
	ledger := &fakeLedger{}
	exporter := &fakeExporter{key: "exports/x.csv"}
	app := &App{
		directory: dir,
		sessions:  sess,
		ledger:    ledger,
		exporter:  exporter,
		reader:    bufio.NewReader(strings.NewReader("")),
	}
	return app, dir, sess, ledger, exporter
}

func TestRegister_Success(t *testing.T) {
	muteOutput(t)
	app, dir, _, _, _ := loggedInApp(models.RoleUser)

	stubInputs(t, []string{"kate", "Kate Smith", "kate@example.com"}, []byte("secret1"))

	if err := app.Register(context.Background()); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	if dir.regUsername != "kate" || dir.regFullName != "Kate Smith" || dir.regEmail != "kate@example.com" {
		t.Fatalf("Register args mismatch: %+v", dir)
	}
	if dir.regSecret != "secret1" {
		t.Fatalf("Register secret mismatch: %q", dir.regSecret)
	}
}

func TestLogin_Success(t *testing.T) {
	muteOutput(t)
	app, _, sess, _, _ := loggedInApp(models.RoleUser)
	sess.current = nil

	stubInputs(t, []string{"kate"}, []byte("secret1"))

	if err := app.Login(context.Background()); err != nil {
		t.Fatalf("Login err: %v", err)
	}
	if sess.loginUsername != "kate" || sess.loginSecret != "secret1" {
		t.Fatalf("Login args mismatch: %q %q", sess.loginUsername, sess.loginSecret)
	}
	if !app.isLoggedIn() {
		t.Fatal("not logged in after Login")
	}
}

func TestLogin_ErrorPropagates(t *testing.T) {
	muteOutput(t)
	app, _, sess, _, _ := loggedInApp(models.RoleUser)
	sess.current = nil
	sess.loginErr = common.ErrInvalidCredentials

	stubInputs(t, []string{"kate"}, []byte("wrong"))

	if err := app.Login(context.Background()); !errors.Is(err, common.ErrInvalidCredentials) {
		t.Fatalf("want ErrInvalidCredentials, got %v", err)
	}
}

func TestLogout(t *testing.T) {
	muteOutput(t)
	app, _, sess, _, _ := loggedInApp(models.RoleUser)

	if err := app.Logout(context.Background()); err != nil {
		t.Fatalf("Logout err: %v", err)
	}
	if !sess.loggedOut || app.isLoggedIn() {
		t.Fatal("session not cleared")
	}
}

func TestCheckIn_Success(t *testing.T) {
	muteOutput(t)
	app, _, _, ledger, _ := loggedInApp(models.RoleUser)
	ledger.logRec = models.VisitorRecord{ID: 7}

	stubInputs(t, []string{"Carol", "555-0101", "Bob Jones", "carol@example.com", "Interview", ""}, nil)

	if err := app.CheckIn(context.Background()); err != nil {
		t.Fatalf("CheckIn err: %v", err)
	}
	if ledger.logged.Name != "Carol" || ledger.logged.Phone != "555-0101" || ledger.logged.Host != "Bob Jones" {
		t.Fatalf("details mismatch: %+v", ledger.logged)
	}
	if ledger.loggedBy != "kate" {
		t.Fatalf("loggedBy mismatch: %q", ledger.loggedBy)
	}
}

func TestCheckIn_RequiredFields(t *testing.T) {
	muteOutput(t)
	app, _, _, _, _ := loggedInApp(models.RoleUser)

	stubInputs(t, []string{"Carol", "", "Bob Jones"}, nil)

	if err := app.CheckIn(context.Background()); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestCheckIn_RequiresLogin(t *testing.T) {
	muteOutput(t)
	app, _, sess, _, _ := loggedInApp(models.RoleUser)
	sess.current = nil

	if err := app.CheckIn(context.Background()); !errors.Is(err, common.ErrNotAuthenticated) {
		t.Fatalf("want ErrNotAuthenticated, got %v", err)
	}
}

func TestCheckOut(t *testing.T) {
	muteOutput(t)
	app, _, _, ledger, _ := loggedInApp(models.RoleUser)
	ledger.checkoutFound = true

	if err := app.CheckOut(context.Background(), []string{"42"}); err != nil {
		t.Fatalf("CheckOut err: %v", err)
	}
	if ledger.checkoutID != 42 {
		t.Fatalf("id mismatch: %d", ledger.checkoutID)
	}
}

func TestCheckOut_BadID(t *testing.T) {
	muteOutput(t)
	app, _, _, _, _ := loggedInApp(models.RoleUser)

	if err := app.CheckOut(context.Background(), []string{"abc"}); !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestList_Empty(t *testing.T) {
	lines := muteOutput(t)
	app, _, _, _, _ := loggedInApp(models.RoleUser)

	if err := app.List(context.Background()); err != nil {
		t.Fatalf("List err: %v", err)
	}
	found := false
	for _, l := range *lines {
		if strings.Contains(l, "No visitors found") {
			found = true
		}
	}
	if !found {
		t.Fatalf("missing empty message, got %v", *lines)
	}
}

func TestList_RendersTable(t *testing.T) {
	muteOutput(t)
	app, _, _, ledger, _ := loggedInApp(models.RoleUser)
	ledger.records = []models.VisitorRecord{
		{ID: 1, VisitorDetails: models.VisitorDetails{Name: "Carol", Phone: "555-0101", Host: "Bob"}, Status: models.VisitorIn, LoggedBy: "kate"},
	}

	origOut := outWriter
	var buf bytes.Buffer
	outWriter = &buf
	t.Cleanup(func() { outWriter = origOut })

	if err := app.List(context.Background()); err != nil {
		t.Fatalf("List err: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Carol") || !strings.Contains(out, "In") {
		t.Fatalf("table missing data: %q", out)
	}
}

func TestSearch_PassesTerm(t *testing.T) {
	muteOutput(t)
	app, _, _, ledger, _ := loggedInApp(models.RoleUser)

	if err := app.Search(context.Background(), []string{"alice", "host"}); err != nil {
		t.Fatalf("Search err: %v", err)
	}
	if ledger.searchTerm != "alice host" {
		t.Fatalf("term mismatch: %q", ledger.searchTerm)
	}
}

func TestUsers_AdminOnly(t *testing.T) {
	muteOutput(t)
	app, _, _, _, _ := loggedInApp(models.RoleUser)

	if err := app.Users(context.Background()); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestUsers_RendersAccounts(t *testing.T) {
	muteOutput(t)
	app, dir, _, _, _ := loggedInApp(models.RoleAdmin)
	dir.accounts = []models.Account{
		{Username: "admin", FullName: "System Administrator", Role: models.RoleAdmin, Status: models.StatusActive},
		{Username: "kate", FullName: "Kate Smith", Role: models.RoleUser, Status: models.StatusActive},
	}

	origOut := outWriter
	var buf bytes.Buffer
	outWriter = &buf
	t.Cleanup(func() { outWriter = origOut })

	if err := app.Users(context.Background()); err != nil {
		t.Fatalf("Users err: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "admin") || !strings.Contains(out, "kate") {
		t.Fatalf("accounts missing: %q", out)
	}
}

func TestUserUpdate(t *testing.T) {
	muteOutput(t)
	app, dir, _, _, _ := loggedInApp(models.RoleAdmin)

	err := app.UserUpdate(context.Background(), []string{"bob", "fullName=Bob Jones", "status=deactivated"})
	if err != nil {
		t.Fatalf("UserUpdate err: %v", err)
	}
	if dir.updUsername != "bob" || !dir.updAsAdmin || dir.updRequestedBy != "kate" {
		t.Fatalf("update args mismatch: %+v", dir)
	}
	if dir.updFields["fullName"] != "Bob Jones" || dir.updFields["status"] != "deactivated" {
		t.Fatalf("fields mismatch: %v", dir.updFields)
	}
}

func TestUserUpdate_BadPair(t *testing.T) {
	muteOutput(t)
	app, _, _, _, _ := loggedInApp(models.RoleAdmin)

	err := app.UserUpdate(context.Background(), []string{"bob", "no-equals-sign"})
	if !errors.Is(err, common.ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
}

func TestProfile_Update(t *testing.T) {
	muteOutput(t)
	app, _, sess, _, _ := loggedInApp(models.RoleUser)

	stubInputs(t, []string{"Kate Updated", ""}, []byte(""))

	if err := app.Profile(context.Background()); err != nil {
		t.Fatalf("Profile err: %v", err)
	}
	if sess.profFields["fullName"] != "Kate Updated" {
		t.Fatalf("fields mismatch: %v", sess.profFields)
	}
	if _, ok := sess.profFields["email"]; ok {
		t.Fatal("empty email must be omitted")
	}
	if _, ok := sess.profFields["secret"]; ok {
		t.Fatal("empty password must be omitted")
	}
}

func TestProfile_NothingToUpdate(t *testing.T) {
	muteOutput(t)
	app, _, sess, _, _ := loggedInApp(models.RoleUser)

	stubInputs(t, []string{"", ""}, []byte(""))

	if err := app.Profile(context.Background()); err != nil {
		t.Fatalf("Profile err: %v", err)
	}
	if sess.profFields != nil {
		t.Fatalf("unexpected update: %v", sess.profFields)
	}
}

func TestExport_AdminOnly(t *testing.T) {
	muteOutput(t)
	app, _, _, _, _ := loggedInApp(models.RoleUser)

	if err := app.Export(context.Background()); !errors.Is(err, common.ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestExport(t *testing.T) {
	muteOutput(t)
	app, _, _, _, exporter := loggedInApp(models.RoleAdmin)
	exporter.key = "exports/2026/08/28/x.csv"

	if err := app.Export(context.Background()); err != nil {
		t.Fatalf("Export err: %v", err)
	}
}
