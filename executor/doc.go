// Package executor runs a single job's command in a child process and
// reports the outcome without mutating any persisted job state.
//
// The queuectl Worker owns the transition that follows; executor only
// spawns, waits, enforces the timeout, and captures output.
package executor
