package queuectl

import (
	"context"
	"errors"
	"time"

	"github.com/shellq/queuectl/job"
)

var (
	// ErrNotFound indicates that the operation references an unknown
	// job id.
	ErrNotFound = errors.New("queuectl: job not found")

	// ErrInvalidState indicates that the requested transition is not
	// legal for the job's current state (for example, retrying a job
	// from the DLQ that is not Dead).
	ErrInvalidState = errors.New("queuectl: invalid state transition")

	// ErrClaimLost indicates that a FinishSuccess/FinishFailure call
	// found the job no longer owned by the caller (it was concurrently
	// reclaimed, most often by the stale-lock recovery sweep). The
	// worker should simply stop processing the job; whoever holds the
	// claim now is responsible for it.
	ErrClaimLost = errors.New("queuectl: claim lost")
)

// Repository is the atomic claim-and-transition contract a Worker drives.
//
// Implementations must ensure that for any job row, at most one caller's
// Claim succeeds at a time (spec.md §4.4), and that every transition
// (FinishSuccess, FinishFailure, RecoverStaleLocks) is a single committed
// transaction so the invariants in spec.md §3 hold after every commit.
type Repository interface {

	// Claim atomically selects the single highest-priority eligible
	// pending job (priority ASC, next_run_at ASC, id ASC) and transitions
	// it to Processing, owned by workerID.
	//
	// Claim returns (nil, nil) if no job is currently eligible.
	Claim(ctx context.Context, workerID string, now time.Time) (*job.Job, error)

	// FinishSuccess transitions a Processing job to Completed and clears
	// the lock and last_error. exitCode is the attempt's exit code and
	// is always 0 by the time this is called (spec.md §3: state=completed
	// implies the last attempt exited 0); it is accepted for parity with
	// spec.md §4.3's FinishSuccess(id, exit_code) signature.
	//
	// Returns ErrClaimLost if the job is no longer owned by the caller.
	FinishSuccess(ctx context.Context, j *job.Job, now time.Time, exitCode int) error

	// FinishFailure applies the retry/terminal transition of spec.md
	// §4.5 for a failed attempt: if the post-increment attempt count is
	// still within the job's MaxRetries, the job is returned to Pending
	// with NextRunAt = now + delaySeconds; otherwise it is moved to Dead.
	// lastErr is recorded in last_error either way.
	//
	// Returns ErrClaimLost if the job is no longer owned by the caller.
	FinishFailure(ctx context.Context, j *job.Job, now time.Time, delaySeconds int64, lastErr string) error

	// RetryFromDLQ resets a Dead job back to Pending with Attempts=0,
	// NextRunAt=now and LastError cleared.
	//
	// Returns ErrNotFound if the id is unknown, ErrInvalidState if the
	// job is not currently Dead.
	RetryFromDLQ(ctx context.Context, id string, now time.Time) error

	// RecoverStaleLocks transitions every Processing job whose LockedAt
	// is older than threshold back to Pending, clearing the lock. It
	// returns the number of rows affected.
	RecoverStaleLocks(ctx context.Context, threshold time.Time) (int64, error)
}
