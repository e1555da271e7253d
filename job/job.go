package job

import (
	"time"

	"github.com/shellq/queuectl/jobspec"
)

// Job represents a job row as managed by the queue storage.
//
// It embeds jobspec.Spec (the caller-supplied description) and augments
// it with delivery state and scheduling metadata maintained by the
// repository and the worker.
//
// MaxRetries is the resolved, effective retry cap: if the caller omitted
// it at enqueue time, it is filled in from the queue's configured
// default at insert time, so it never needs to be re-resolved later.
//
// Attempts counts finished attempts (success or failure); FinishSuccess
// and FinishFailure each increment it once. An attempt whose claim is
// returned to Pending by stale-lock recovery is not counted.
// LockedBy/LockedAt are both set while
// Status is Processing and both nil otherwise. NextRunAt is the earliest
// time the job becomes eligible for claiming.
type Job struct {
	jobspec.Spec

	MaxRetries uint32

	Status   Status
	Attempts uint32

	LockedBy *string
	LockedAt *time.Time

	NextRunAt time.Time
	LastError *string

	StdoutPath string
	StderrPath string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsLocked reports whether the job currently carries an owned claim.
func (j *Job) IsLocked() bool {
	return j.LockedBy != nil && j.LockedAt != nil
}

// LockedByOrEmpty returns the owning worker id, or "" if the job is
// not currently locked. Used by repository implementations to guard
// a finishing transition against a claim that was concurrently
// reclaimed.
func (j *Job) LockedByOrEmpty() string {
	if j.LockedBy == nil {
		return ""
	}
	return *j.LockedBy
}
