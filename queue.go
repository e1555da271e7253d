package queuectl

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/shellq/queuectl/executor"
	"github.com/shellq/queuectl/job"
	"github.com/shellq/queuectl/jobspec"
)

// Backend bundles the four storage-facing roles a single embedded
// store implementation satisfies at once.
type Backend interface {
	Enqueuer
	Repository
	Observer
	ConfigStore
}

// Queue is the full operational API described by spec.md §6.1. It is
// a thin orchestration shell over Backend, Executor and Supervisor;
// all durability and concurrency guarantees live in those components.
type Queue struct {
	backend Backend
	exec    executor.Executor
	clock   clock.Clock
	log     *slog.Logger

	supervisor *Supervisor
}

// NewQueue wires a Queue around an already-opened Backend.
func NewQueue(backend Backend, exec executor.Executor, c clock.Clock, log *slog.Logger) *Queue {
	return &Queue{backend: backend, exec: exec, clock: c, log: log}
}

// InitStore is a no-op: store.Open already created the schema and
// seeded default config at construction time. It is kept so callers
// get the exact operation named by spec.md §6.1, and so a future
// backend that defers schema creation has somewhere to hook it.
func (q *Queue) InitStore(ctx context.Context) error {
	return nil
}

// Enqueue submits a new job.
func (q *Queue) Enqueue(ctx context.Context, spec *jobspec.Spec) error {
	return q.backend.Enqueue(ctx, spec)
}

// List returns jobs matching status (job.Unknown for no filter), up
// to limit.
func (q *Queue) List(ctx context.Context, status job.Status, limit int) ([]*job.Job, error) {
	return q.backend.List(ctx, status, limit)
}

// Status is the snapshot returned by the Status() operational API
// call. WorkersActive is the number of workers launched by the most
// recent WorkerPoolStart (0 before the first one); it is not reset when
// that pool shuts down.
type Status struct {
	StateCounts
	WorkersActive int
}

// Status reports current job counts plus the active worker count.
func (q *Queue) Status(ctx context.Context) (Status, error) {
	counts, err := q.backend.CountByState(ctx)
	if err != nil {
		return Status{}, err
	}
	active := 0
	if q.supervisor != nil {
		active = q.supervisor.ActiveWorkers()
	}
	return Status{StateCounts: counts, WorkersActive: active}, nil
}

// DLQList returns up to limit jobs currently in the Dead state
// (limit <= 0 means all of them).
func (q *Queue) DLQList(ctx context.Context, limit int) ([]*job.Job, error) {
	return q.backend.List(ctx, job.Dead, limit)
}

// DLQRetry resets a single Dead job back to Pending.
func (q *Queue) DLQRetry(ctx context.Context, id string) error {
	return q.backend.RetryFromDLQ(ctx, id, q.clock.Now())
}

// DLQRetryAll retries every job currently in the Dead state, returning
// the number successfully retried.
func (q *Queue) DLQRetryAll(ctx context.Context) (int, error) {
	dead, err := q.backend.List(ctx, job.Dead, 0)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, jb := range dead {
		if err := q.backend.RetryFromDLQ(ctx, jb.Id, q.clock.Now()); err != nil {
			q.log.Warn("dlq retry-all: could not retry job", "id", jb.Id, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

// ConfigGet reads a single configuration key.
func (q *Queue) ConfigGet(ctx context.Context, key string) (int64, error) {
	return q.backend.GetInt(ctx, key)
}

// ConfigSet writes a single configuration key.
func (q *Queue) ConfigSet(ctx context.Context, key string, value int64) error {
	return q.backend.Set(ctx, key, value)
}

// WorkerPoolStart launches count workers and runs until an interrupt
// signal arrives, or, if drain is true, until the queue is observed
// empty. It blocks until the pool has fully shut down.
func (q *Queue) WorkerPoolStart(ctx context.Context, count int, drain bool) error {
	staleSeconds, err := q.backend.GetInt(ctx, ConfigStaleLockSeconds)
	if err != nil || staleSeconds < 1 {
		staleSeconds = DefaultConfig[ConfigStaleLockSeconds]
	}
	staleAfter := time.Duration(staleSeconds) * time.Second
	q.supervisor = NewSupervisor(q.backend, q.backend, q.backend, q.exec, q.clock, SupervisorConfig{
		WorkerCount:     count,
		Drain:           drain,
		ShutdownTimeout: 30 * time.Second,
		RecoverInterval: staleAfter / 2,
		StaleAfter:      staleAfter,
	}, q.log)
	return q.supervisor.Run(ctx)
}
