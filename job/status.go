package job

import "fmt"

// Status represents the current lifecycle state of a Job.
//
// The state machine is:
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Pending    (retry with backoff)
//	Processing -> Dead
//
// Unknown is reserved as the zero value and is used to indicate "no
// filter" in List queries; it is never a job's actual state.
type Status uint8

const (
	// Unknown represents an unspecified status. It is the zero value
	// and is treated as "no filter" by Observer.List; no job is ever
	// persisted with this status.
	Unknown Status = iota

	// Pending indicates the job is eligible for claiming once its
	// NextRunAt has elapsed.
	Pending

	// Processing indicates a worker holds the claim (LockedBy,
	// LockedAt are both set). The claim is considered abandoned once
	// LockedAt is older than the configured stale_lock_seconds.
	Processing

	// Completed indicates the job's last attempt exited zero. Terminal;
	// never retried automatically.
	Completed

	// Dead indicates the job exhausted its retries, or was moved here
	// by explicit operator action (DLQ). Terminal; retried only via
	// RetryFromDLQ.
	Dead
)

func statusToString(status Status) string {
	switch status {
	case Pending:
		return "pending"
	case Processing:
		return "processing"
	case Completed:
		return "completed"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

func statusFromString(s string) (Status, error) {
	switch s {
	case "pending":
		return Pending, nil
	case "processing":
		return Processing, nil
	case "completed":
		return Completed, nil
	case "dead":
		return Dead, nil
	case "unknown":
		return Unknown, nil
	default:
		return 0, fmt.Errorf("unknown status: %s", s)
	}
}

// ParseStatus converts a string representation of a status into a Status
// value. Recognized values are "pending", "processing", "completed",
// "dead" and "unknown".
func ParseStatus(s string) (Status, error) {
	return statusFromString(s)
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(statusToString(s)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	status, err := statusFromString(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// String returns the canonical lower-case name of the status.
func (s Status) String() string {
	return statusToString(s)
}
