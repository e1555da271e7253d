// Package jobspec defines the caller-facing description of a job to be
// enqueued, as distinct from job.Job's persisted, stateful row.
//
// Spec carries only what a caller supplies at enqueue time: an id, a
// shell command, and a handful of optional scheduling overrides. It
// contains no delivery state (status, attempts, locks) — those concerns
// belong to job.Job and the queue storage layer.
package jobspec
