// Package job defines the stateful representation of a shell-command job
// within the queuectl lifecycle.
//
// A Job embeds jobspec.Spec with the delivery and scheduling metadata
// maintained by the queue storage and worker logic: Status, Attempts,
// lock ownership, and the next dispatch time.
//
// Job values are snapshots returned by the repository's Claim, List and
// Get operations. Mutating a Job value does not change the underlying
// queue state; transitions are performed exclusively through the
// repository's Claim/FinishSuccess/FinishFailure/RetryFromDLQ operations.
package job
