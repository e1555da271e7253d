package queuectl

import (
	"fmt"
	"os"

	"github.com/google/uuid"
)

// newWorkerID generates a worker identity of the form
// host-pid-index-random, per spec.md §4.8. The random component comes
// from the first 8 hex characters (32 bits) of a generated UUID, which is
// more than enough entropy
// to disambiguate workers started within the same second on the same
// host.
func newWorkerID(index int) string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d-%d-%s", host, os.Getpid(), index, uuid.New().String()[:8])
}
