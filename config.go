package queuectl

import "context"

// Recognized configuration keys (spec.md §9). All are integers.
const (
	// ConfigMaxRetries is the default max_retries applied to a job
	// whose spec did not specify one. Default: 3.
	ConfigMaxRetries = "max_retries"

	// ConfigBackoffBase is the base of the exponential backoff delay
	// (delay = backoff_base^attempts seconds). Default: 2. Values less
	// than 1 are rejected by ConfigStore.Set: a base below 1 would make
	// the delay shrink or stay flat across attempts, defeating the
	// point of backoff.
	ConfigBackoffBase = "backoff_base"

	// ConfigPollInterval is the number of seconds an idle Worker waits
	// between Claim attempts when no job is eligible. Default: 1.
	ConfigPollInterval = "poll_interval"

	// ConfigStaleLockSeconds is the age, in seconds, past which a
	// Processing job's lock is considered abandoned and eligible for
	// recovery by the sweep. Default: 300.
	ConfigStaleLockSeconds = "stale_lock_seconds"
)

// DefaultConfig holds the built-in defaults seeded into a fresh store
// (spec.md §9).
var DefaultConfig = map[string]int64{
	ConfigMaxRetries:       3,
	ConfigBackoffBase:      2,
	ConfigPollInterval:     1,
	ConfigStaleLockSeconds: 300,
}

// ConfigStore reads and writes the small set of integer-valued runtime
// settings that govern retry, backoff and recovery behavior.
type ConfigStore interface {

	// GetInt returns the current value of key. If key has never been
	// set, it returns DefaultConfig[key].
	GetInt(ctx context.Context, key string) (int64, error)

	// Set stores value for key.
	//
	// Returns ErrInvalidArg if key is not one of the recognized
	// constants above, or if key == ConfigBackoffBase and value < 1.
	Set(ctx context.Context, key string, value int64) error
}
