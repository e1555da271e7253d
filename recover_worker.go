package queuectl

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shellq/queuectl/internal"
)

// RecoverConfig controls the periodic stale-lock recovery sweep.
//
// Interval is how often the sweep runs. StaleAfter is the lock age past
// which a Processing job is considered abandoned and returned to
// Pending.
type RecoverConfig struct {
	Interval   time.Duration
	StaleAfter time.Duration
}

// recoverWorker periodically reclaims jobs whose lock has gone stale,
// most commonly because the worker that claimed them crashed or was
// killed mid-execution (spec.md §4.6).
//
// recoverWorker does not participate in job execution and holds no
// opinion about retry/backoff; it only returns abandoned jobs to
// Pending so the normal Worker claim loop can pick them up again.
//
// recoverWorker has the same strict lifecycle as Worker: Start may
// only be called once, and Stop waits for the in-flight sweep to
// finish or until the timeout expires.
type recoverWorker struct {
	lcBase
	repo   Repository
	task   internal.TimerTask
	log    *slog.Logger
	clock  clock.Clock
	stale  time.Duration
	interval time.Duration
}

func newRecoverWorker(repo Repository, config RecoverConfig, c clock.Clock, log *slog.Logger) *recoverWorker {
	return &recoverWorker{
		repo:     repo,
		log:      log,
		clock:    c,
		stale:    config.StaleAfter,
		interval: config.Interval,
	}
}

func (rw *recoverWorker) sweep(ctx context.Context) {
	threshold := rw.clock.Now().Add(-rw.stale)
	n, err := rw.repo.RecoverStaleLocks(ctx, threshold)
	if err != nil {
		rw.log.Error("stale lock recovery failed", "error", err)
		return
	}
	if n > 0 {
		rw.log.Info("recovered stale locks", "count", n)
	}
}

// Start begins periodic execution of the recovery sweep.
//
// Start returns ErrDoubleStarted if already running.
func (rw *recoverWorker) Start(ctx context.Context) error {
	if err := rw.tryStart(); err != nil {
		return err
	}
	rw.task.Start(ctx, rw.sweep, rw.interval)
	return nil
}

// Stop terminates the background recovery sweep, waiting up to timeout
// for the current pass to finish.
func (rw *recoverWorker) Stop(timeout time.Duration) error {
	return rw.tryStop(timeout, rw.task.Stop)
}
