// Package cli provides the interactive VisitorDesk front-desk client.
//
// It wires configuration, the remote record store, the local fallback
// database, and the application services into an interactive REPL. Typical
// flow: restore the persisted session, bootstrap the default administrator
// if the directory is empty, and execute operator commands.
//
// Key features:
//   - Login / Logout with a session that survives restarts
//   - Check visitors in and out, list and search the ledger
//   - Account administration (list users, update accounts)
//   - CSV export of the ledger to an S3-compatible bucket
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
