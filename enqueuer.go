package queuectl

import (
	"context"
	"errors"

	"github.com/shellq/queuectl/jobspec"
)

// ErrInvalidArg is returned when a required field is missing or a
// supplied value is malformed. Re-exported from jobspec so callers need
// not import that package just to check errors.Is.
var ErrInvalidArg = jobspec.ErrInvalidArg

// ErrDuplicateId is returned by Enqueue when a job with the given id
// already exists.
var ErrDuplicateId = errors.New("queuectl: duplicate job id")

// Enqueuer defines the write-side entry point of the queue.
type Enqueuer interface {

	// Enqueue inserts a new job in the Pending state.
	//
	// The job's NextRunAt is set to spec.RunAt if supplied, or to now.
	// If spec.MaxRetries is nil, the queue's configured default
	// max_retries is used instead.
	//
	// Enqueue returns ErrInvalidArg if Id or Command is empty, and
	// ErrDuplicateId if a job with the given Id already exists.
	Enqueue(ctx context.Context, spec *jobspec.Spec) error
}
