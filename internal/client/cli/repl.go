package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	CheckIn(ctx context.Context) error
	CheckOut(ctx context.Context, args []string) error
	List(ctx context.Context) error
	Search(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	UserUpdate(ctx context.Context, args []string) error
	Profile(ctx context.Context) error
	Export(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the VisitorDesk CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help               — show available commands
//	  - register           — create an account
//	  - login              — authenticate
//	  - exit | quit        — leave the program
//
//	Logged in:
//	  - help               — show available commands
//	  - checkin            — log a visitor in
//	  - checkout <id>      — mark a visitor as left
//	  - list               — show the visitor ledger
//	  - search <term>      — filter the ledger
//	  - profile            — view or update own account
//	  - users              — list accounts (admin)
//	  - userupdate         — update an account (admin)
//	  - export             — export the ledger to CSV (admin)
//	  - logout             — log out
//	  - exit | quit        — leave the program
//
// Errors returned by command handlers are printed and the loop continues;
// no command failure terminates the REPL.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	report := func(err error) {
		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}

	for {
		printlnFn(fmt.Sprintf("vd %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: checkin, checkout <id>, list, search <term>, profile, users, userupdate, export, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			report(a.Register(ctx))

		case "login":
			report(a.Login(ctx))

		case "logout":
			report(a.Logout(ctx))

		case "checkin":
			report(a.CheckIn(ctx))

		case "checkout":
			if len(args) == 0 {
				printlnFn("Usage: checkout <id>")
				continue
			}
			report(a.CheckOut(ctx, args))

		case "l", "list":
			report(a.List(ctx))

		case "search":
			if len(args) == 0 {
				printlnFn("Usage: search <term>")
				continue
			}
			report(a.Search(ctx, args))

		case "users":
			report(a.Users(ctx))

		case "userupdate":
			if len(args) < 2 {
				printlnFn("Usage: userupdate <username> <field>=<value> ...")
				continue
			}
			report(a.UserUpdate(ctx, args))

		case "profile":
			report(a.Profile(ctx))

		case "export":
			report(a.Export(ctx))

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
