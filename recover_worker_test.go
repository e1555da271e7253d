package queuectl

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
)

type countingRecoverRepo struct {
	fakeBackend
	calls int32
}

func (c *countingRecoverRepo) RecoverStaleLocks(ctx context.Context, threshold time.Time) (int64, error) {
	atomic.AddInt32(&c.calls, 1)
	return 0, nil
}

func TestRecoverWorkerSweepsPeriodically(t *testing.T) {
	repo := &countingRecoverRepo{}
	// internal.TimerTask drives its ticker off real time, not the
	// injected clock; the clock here only stamps the stale-lock
	// threshold passed to RecoverStaleLocks.
	rw := newRecoverWorker(repo, RecoverConfig{Interval: 50 * time.Millisecond, StaleAfter: 5 * time.Minute}, clock.New(), discardLogger())

	if err := rw.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer rw.Stop(time.Second)

	// first sweep runs immediately on Start; at least one more should
	// follow from the ticker well within the deadline.
	waitForCalls(t, repo, 2)
}

func waitForCalls(t *testing.T, repo *countingRecoverRepo, want int32) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if atomic.LoadInt32(&repo.calls) >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected at least %d sweep calls, got %d", want, atomic.LoadInt32(&repo.calls))
}

func TestRecoverWorkerStopIsIdempotentSafe(t *testing.T) {
	repo := &countingRecoverRepo{}
	rw := newRecoverWorker(repo, RecoverConfig{Interval: time.Hour, StaleAfter: time.Hour}, clock.New(), discardLogger())

	if err := rw.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	if err := rw.Stop(time.Second); err != nil {
		t.Fatal(err)
	}
	if err := rw.Stop(time.Second); err == nil {
		t.Fatal("expected second Stop to report ErrDoubleStopped")
	}
}

var _ Repository = (*countingRecoverRepo)(nil)
var _ Observer = (*countingRecoverRepo)(nil)
