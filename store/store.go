package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"modernc.org/sqlite"
)

var (
	// ErrStoreBusy is returned once the internal bounded retry on a
	// transient write conflict is exhausted (spec.md §7).
	ErrStoreBusy = errors.New("queuectl/store: store busy")

	// ErrStoreFatal wraps an unrecoverable storage error met while
	// opening the store (connection, schema creation, default seeding).
	// Only Open returns it; errors from later store operations are
	// returned unwrapped.
	ErrStoreFatal = errors.New("queuectl/store: fatal storage error")
)

// busyRetry is the number of times a transient-conflict write is
// retried before surfacing ErrStoreBusy, per spec.md §4.1.
const busyRetry = 3

// Store is the embedded SQLite backend. It implements
// queuectl.Enqueuer, queuectl.Repository, queuectl.Observer and
// queuectl.ConfigStore.
type Store struct {
	db     *bun.DB
	logDir string
}

// Open opens (creating if necessary) a SQLite database at path,
// configures WAL journaling and a busy timeout so readers are never
// blocked behind the claim transaction, creates the schema if absent,
// and seeds any default config keys not already set.
//
// path may be ":memory:" for an ephemeral database, primarily useful
// in tests. logDir is the directory stdout/stderr log file pairs are
// created under (spec.md §6.2).
func Open(ctx context.Context, path, logDir string, defaults map[string]int64) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreFatal, err)
	}
	// SQLite serializes writers regardless of connection count; a
	// single connection avoids SQLITE_BUSY surfacing from our own
	// concurrent write attempts.
	sqlDB.SetMaxOpenConns(1)

	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := initSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("%w: schema init: %v", ErrStoreFatal, err)
	}
	if err := seedDefaults(ctx, db, defaults); err != nil {
		return nil, fmt.Errorf("%w: seed defaults: %v", ErrStoreFatal, err)
	}
	return &Store{db: db, logDir: logDir}, nil
}

// Close releases the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// isTransient reports whether err looks like a transient SQLite write
// conflict (SQLITE_BUSY/SQLITE_LOCKED) worth retrying internally,
// rather than a fatal error that should surface.
func isTransient(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == 5 /* SQLITE_BUSY */ || code == 6 /* SQLITE_LOCKED */
	}
	return false
}

// withBusyRetry runs fn, retrying a bounded number of times with a
// short jittered sleep when it reports a transient write conflict
// (spec.md §4.1, §7 StoreBusy).
func withBusyRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < busyRetry; attempt++ {
		err = fn()
		if err == nil || !isTransient(err) {
			return err
		}
		backoff := time.Duration(5+rand.IntN(10)) * time.Millisecond
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return fmt.Errorf("%w: %v", ErrStoreBusy, err)
}
