package queuectl

import (
	"context"

	"github.com/shellq/queuectl/job"
)

// StateCounts is a snapshot of how many jobs are in each state, as
// returned by Status (spec.md §6.1).
type StateCounts struct {
	Pending    int64
	Processing int64
	Completed  int64
	Dead       int64
}

// Observer provides read-only access to jobs stored in the queue.
//
// Observer does not modify job state and does not participate in the
// claim/retry lifecycle. It backs the status query and DLQ inspection
// surface.
type Observer interface {

	// Get returns the job identified by id, or (nil, nil) if no such
	// job exists.
	Get(ctx context.Context, id string) (*job.Job, error)

	// List returns up to limit jobs matching status, ordered by
	// priority ASC, next_run_at ASC, id ASC for determinism.
	//
	// status == job.Unknown means no status filter. limit <= 0 means no
	// limit.
	List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error)

	// CountByState returns the current number of jobs in each state.
	CountByState(ctx context.Context) (StateCounts, error)
}
