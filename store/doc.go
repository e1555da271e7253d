// Package store provides the single supported persistence backend for
// queuectl: an embedded SQLite database accessed through
// github.com/uptrace/bun.
//
// # Overview
//
// store implements queuectl.Enqueuer, queuectl.Repository,
// queuectl.Observer and queuectl.ConfigStore against a "jobs" table
// and a "config" table.
//
// # Concurrency model
//
// Claim is implemented as the two-step select-then-conditional-update
// protocol described by the package's atomic claim contract: a plain
// SELECT finds the best eligible candidate, then an UPDATE ... WHERE
// id = ? AND status = <pending> performs the compare-and-set. Zero rows
// affected means another worker won the race; the caller retries a
// bounded number of times before giving up and reporting no eligible
// work.
//
// # Schema
//
// Open creates the jobs table and config table, and the composite
// index (status, next_run_at, priority) used by both Claim and List,
// if they do not already exist. Schema creation runs inside a single
// transaction and is idempotent.
//
// # Database lifecycle
//
// Open configures the *sql.DB itself: WAL journal mode and a bounded
// busy_timeout so read-only queries (List, Status) are never blocked
// behind a writer holding the claim transaction. SetMaxOpenConns(1) is
// used because SQLite serializes writers regardless of connection
// count, and a single connection avoids SQLITE_BUSY surfacing as a Go
// error under our own write load.
package store
