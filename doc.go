// Package queuectl provides a durable, embedded background job queue
// for shell-command jobs, backed by a single SQLite database.
//
// # Overview
//
// queuectl models a durable command queue with explicit state
// transitions. It separates the caller-facing enqueue payload
// (jobspec.Spec) from delivery state (job.Job) and defines a set of
// interfaces for enqueueing, claiming, observing and recovering jobs.
//
// The only supported storage backend is the store package, an
// embedded SQLite store built on uptrace/bun. There is no pluggable
// backend surface; the single-backend assumption lets each finishing
// and retry transition run as a single conditional UPDATE, and Claim as
// a SELECT followed by one conditional UPDATE.
//
// # Delivery Semantics
//
// queuectl guarantees at-most-one execution per attempt: a claimed job
// is owned by exactly one worker until it finishes or its lock is
// reclaimed as stale. A crash mid-execution does not cause the same
// attempt to run twice concurrently, but the job may be re-claimed and
// re-executed as a new attempt once its lock is judged stale.
//
// Lock Recovery (no lease renewal)
//
// When a job is claimed, it transitions from Pending to Processing and
// records LockedBy/LockedAt. Unlike a renewable lease, the lock is not
// extended while the worker runs the command; recovery is instead
// performed out of band by a periodic sweep that returns any
// Processing job whose LockedAt is older than the configured
// stale-lock threshold back to Pending.
//
// # State Machine
//
//	Pending    -> Processing
//	Processing -> Completed
//	Processing -> Pending   (retry, or stale-lock recovery)
//	Processing -> Dead
//	Dead       -> Pending   (explicit DLQ retry only)
//
// Completed and Dead are terminal unless a Dead job is explicitly
// retried out of the DLQ.
//
// # Retry Policy
//
// Retry behavior is controlled by the configured max_retries and
// backoff_base (see config.go). When an attempt exits nonzero, times
// out, or fails to spawn:
//
//   - if the post-increment attempt count is still within max_retries,
//     the job is rescheduled with a computed backoff delay
//   - otherwise the job transitions to Dead
//
// # Components
//
// Worker claims one job at a time, runs it through an Executor, and
// applies the success/failure transition. Supervisor owns a pool of
// Workers plus the periodic stale-lock recovery sweep, and drives
// graceful shutdown.
//
// # Interfaces
//
// queuectl defines the following primary interfaces:
//
//	Enqueuer   — submit new jobs
//	Repository — claim and transition job state
//	Observer   — inspect job state
//	ConfigStore — read/write runtime configuration
//
// # Concurrency Model
//
// Each Worker runs a single loop: claim, execute, finish, repeat. A
// Supervisor launches a fixed number of Workers and joins them with
// golang.org/x/sync/errgroup. Each Worker recovers and logs a panic in
// its own loop, so one worker's panic does not take down the others.
package queuectl
