package queuectl

import (
	"context"
	"log/slog"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/shellq/queuectl/executor"
	"github.com/shellq/queuectl/internal"
	"github.com/shellq/queuectl/job"
)

// WorkerConfig defines runtime behavior of a Worker.
//
// Drain, when true, makes the worker exit once it observes the queue
// empty (spec.md §4.7's stop-when-empty mode) instead of idling
// forever.
type WorkerConfig struct {
	Drain bool
}

// Worker runs the claim/execute/finish loop of spec.md §4.7: claim one
// job, run it through an Executor, apply the resulting state
// transition, repeat.
//
// Worker has a strict lifecycle: Start may only be called once, and
// Stop waits for the in-flight attempt to finish or until the timeout
// expires.
type Worker struct {
	lcBase

	id    string
	repo  Repository
	obs   Observer
	exec  executor.Executor
	cfg   ConfigStore
	clock clock.Clock
	log   *slog.Logger

	drain bool

	stopping internal.DoneChan
	done     internal.DoneChan
}

// NewWorker creates a Worker identified by id.
func NewWorker(id string, repo Repository, obs Observer, exec executor.Executor, cfg ConfigStore, c clock.Clock, config WorkerConfig, log *slog.Logger) *Worker {
	return &Worker{
		id:    id,
		repo:  repo,
		obs:   obs,
		exec:  exec,
		cfg:   cfg,
		clock: c,
		log:   log,
		drain: config.Drain,
	}
}

// Start begins the worker's claim/execute/finish loop in a background
// goroutine.
//
// Start returns ErrDoubleStarted if the worker has already been
// started.
func (w *Worker) Start(ctx context.Context) error {
	if err := w.tryStart(); err != nil {
		return err
	}
	w.stopping = make(internal.DoneChan)
	w.done = make(internal.DoneChan)
	go w.loop(ctx)
	return nil
}

// Stop signals the worker to exit after its current iteration and
// waits up to timeout for it to do so.
//
// Stop returns ErrDoubleStopped if the worker is not running.
func (w *Worker) Stop(timeout time.Duration) error {
	return w.tryStop(timeout, func() internal.DoneChan {
		close(w.stopping)
		return w.done
	})
}

func (w *Worker) isStopping() bool {
	select {
	case <-w.stopping:
		return true
	default:
		return false
	}
}

func (w *Worker) loop(ctx context.Context) {
	defer close(w.done)
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("worker panicked", "id", w.id, "panic", r)
		}
	}()
	for {
		if w.isStopping() || ctx.Err() != nil {
			return
		}

		pollInterval, err := w.cfg.GetInt(ctx, ConfigPollInterval)
		if err != nil {
			w.log.Error("failed to read poll_interval", "error", err)
			pollInterval = DefaultConfig[ConfigPollInterval]
		}

		jb, err := w.repo.Claim(ctx, w.id, w.clock.Now())
		if err != nil {
			w.log.Error("claim failed", "error", err)
			if !w.sleep(ctx, time.Duration(pollInterval)*time.Second) {
				return
			}
			continue
		}
		if jb == nil {
			if w.drain {
				counts, err := w.obs.CountByState(ctx)
				if err == nil && counts.Pending == 0 && counts.Processing == 0 {
					return
				}
			}
			if !w.sleep(ctx, time.Duration(pollInterval)*time.Second) {
				return
			}
			continue
		}

		w.runAttempt(ctx, jb)
	}
}

// sleep waits for d, interruptible by Stop or ctx cancellation. It
// returns false if the wait was interrupted by shutdown rather than
// completing normally.
func (w *Worker) sleep(ctx context.Context, d time.Duration) bool {
	timer := w.clock.Timer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-w.stopping:
		return false
	case <-ctx.Done():
		return false
	}
}

func (w *Worker) runAttempt(ctx context.Context, jb *job.Job) {
	var timeout time.Duration
	if jb.TimeoutSeconds != nil {
		timeout = time.Duration(*jb.TimeoutSeconds) * time.Second
	}

	res := w.exec.Run(executor.Request{
		Command:    jb.Command,
		Timeout:    timeout,
		Attempt:    int(jb.Attempts) + 1,
		StdoutPath: jb.StdoutPath,
		StderrPath: jb.StderrPath,
	})

	now := w.clock.Now()
	if res.Success() {
		if err := w.repo.FinishSuccess(ctx, jb, now, res.ExitCode); err != nil {
			w.log.Error("finish success failed", "id", jb.Id, "error", err)
		}
		return
	}

	backoffBase, err := w.cfg.GetInt(ctx, ConfigBackoffBase)
	if err != nil {
		backoffBase = DefaultConfig[ConfigBackoffBase]
	}
	policy := backoffPolicy{maxRetries: jb.MaxRetries, backoffBase: int(backoffBase)}
	delay, _ := policy.next(jb.Attempts + 1)

	if err := w.repo.FinishFailure(ctx, jb, now, delay, res.Message); err != nil {
		w.log.Error("finish failure failed", "id", jb.Id, "error", err)
	}
}
