// Package logs manages the per-job, append-only stdout/stderr files
// that record every attempt of a job's command (spec.md §6.2, §4.6).
//
// The same job id always maps to the same file pair across attempts,
// so an operator can tail a job's output for its whole lifetime.
package logs
