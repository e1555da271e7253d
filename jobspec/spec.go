package jobspec

import (
	"errors"
	"time"
)

// ErrInvalidArg indicates that a required field is missing or a supplied
// value is malformed.
//
// Surfaced directly to the caller; never retried.
var ErrInvalidArg = errors.New("invalid argument")

// Spec describes a job as supplied by a caller at enqueue time.
//
// Id and Command are required and must be non-empty. MaxRetries,
// Priority, TimeoutSeconds and RunAt are optional overrides. A nil
// MaxRetries means "use the queue's configured default"; a nil
// TimeoutSeconds means "no timeout", and a TimeoutSeconds pointing at
// zero is rejected by Validate.
type Spec struct {
	Id             string
	Command        string
	MaxRetries     *uint32
	Priority       int32
	TimeoutSeconds *uint32
	RunAt          *time.Time
}

// Validate checks the required fields of a Spec.
//
// It returns ErrInvalidArg if Id or Command is empty, or if
// TimeoutSeconds is present but zero.
func (s *Spec) Validate() error {
	if s.Id == "" {
		return ErrInvalidArg
	}
	if s.Command == "" {
		return ErrInvalidArg
	}
	if s.TimeoutSeconds != nil && *s.TimeoutSeconds == 0 {
		return ErrInvalidArg
	}
	return nil
}
