package queuectl

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/sync/errgroup"

	"github.com/shellq/queuectl/executor"
)

// SupervisorConfig controls the worker pool a Supervisor launches.
type SupervisorConfig struct {
	// WorkerCount is the number of concurrent Workers to launch.
	WorkerCount int

	// Drain, if true, makes every worker exit once the queue is
	// observed empty instead of running until a signal arrives
	// (spec.md §6.1 WorkerPoolStart's drain=true mode).
	Drain bool

	// ShutdownTimeout bounds how long Stop waits for in-flight
	// attempts to finalise.
	ShutdownTimeout time.Duration

	// RecoverInterval is how often the in-process stale-lock sweep
	// runs while the pool is up. Per spec.md §4.8, stale_lock_seconds/2
	// is recommended.
	RecoverInterval time.Duration

	// StaleAfter is the lock age past which a Processing job is
	// reclaimed by the sweep.
	StaleAfter time.Duration
}

// Supervisor launches and joins a pool of Workers, performs startup
// stale-lock recovery, runs a periodic in-process recovery sweep, and
// drives graceful shutdown on SIGINT/SIGTERM (spec.md §4.8).
type Supervisor struct {
	repo  Repository
	obs   Observer
	cfg   ConfigStore
	exec  executor.Executor
	clock clock.Clock
	log   *slog.Logger

	config SupervisorConfig

	sweep *recoverWorker
	workers []*Worker
}

// NewSupervisor creates a Supervisor. It does not start anything; call
// Run to launch the pool and block until shutdown.
func NewSupervisor(repo Repository, obs Observer, cfg ConfigStore, exec executor.Executor, c clock.Clock, config SupervisorConfig, log *slog.Logger) *Supervisor {
	return &Supervisor{
		repo:   repo,
		obs:    obs,
		cfg:    cfg,
		exec:   exec,
		clock:  c,
		log:    log,
		config: config,
	}
}

// Run performs startup recovery, launches the worker pool, and blocks
// until either every worker exits (drain mode) or SIGINT/SIGTERM is
// received, at which point it drains gracefully and returns.
//
// A panic inside any single worker's loop is recovered and logged; it
// does not bring down the rest of the pool or the supervisor itself.
func (sv *Supervisor) Run(ctx context.Context) error {
	now := sv.clock.Now()
	staleSeconds, err := sv.cfg.GetInt(ctx, ConfigStaleLockSeconds)
	if err != nil {
		staleSeconds = DefaultConfig[ConfigStaleLockSeconds]
	}
	threshold := now.Add(-time.Duration(staleSeconds) * time.Second)
	reclaimed, err := sv.repo.RecoverStaleLocks(ctx, threshold)
	if err != nil {
		sv.log.Error("startup stale lock recovery failed", "error", err)
	} else if reclaimed > 0 {
		sv.log.Info("reclaimed stale locks at startup", "count", reclaimed)
	}

	signalCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	sv.sweep = newRecoverWorker(sv.repo, RecoverConfig{
		Interval:   sv.config.RecoverInterval,
		StaleAfter: sv.config.StaleAfter,
	}, sv.clock, sv.log)
	if err := sv.sweep.Start(signalCtx); err != nil {
		return err
	}

	group, _ := errgroup.WithContext(signalCtx)
	sv.workers = make([]*Worker, sv.config.WorkerCount)
	for i := 0; i < sv.config.WorkerCount; i++ {
		w := NewWorker(newWorkerID(i), sv.repo, sv.obs, sv.exec, sv.cfg, sv.clock, WorkerConfig{Drain: sv.config.Drain}, sv.log)
		sv.workers[i] = w
		if err := w.Start(signalCtx); err != nil {
			return err
		}
		group.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					sv.log.Error("worker panicked", "panic", r)
					err = nil
				}
			}()
			<-w.done
			return nil
		})
	}

	allDone := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(allDone)
	}()

	select {
	case <-signalCtx.Done():
		sv.log.Info("shutting down, draining in-flight attempts")
	case <-allDone:
		sv.log.Info("worker pool drained")
	}
	return sv.Stop()
}

// Stop gracefully stops every worker and the recovery sweep, waiting
// up to ShutdownTimeout for each.
func (sv *Supervisor) Stop() error {
	var firstErr error
	for _, w := range sv.workers {
		if err := w.Stop(sv.config.ShutdownTimeout); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if sv.sweep != nil {
		if err := sv.sweep.Stop(sv.config.ShutdownTimeout); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// ActiveWorkers reports how many workers the most recent Run launched,
// used by Status's workers_active field (spec.md §6.1). The count is
// kept after the pool has shut down.
func (sv *Supervisor) ActiveWorkers() int {
	return len(sv.workers)
}
