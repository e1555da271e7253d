package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shellq/queuectl"
	"github.com/shellq/queuectl/job"
	"github.com/shellq/queuectl/jobspec"
)

func TestClaimTransitionsToProcessing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "a", Command: "echo hi"}); err != nil {
		t.Fatal(err)
	}
	now := time.Now()

	jb, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if jb == nil {
		t.Fatal("expected a claimed job")
	}
	if jb.Status != job.Processing {
		t.Fatalf("expected Processing, got %v", jb.Status)
	}
	if jb.LockedByOrEmpty() != "worker-1" {
		t.Fatalf("expected locked_by worker-1, got %q", jb.LockedByOrEmpty())
	}

	// A second claim attempt finds nothing eligible.
	second, err := s.Claim(ctx, "worker-2", now)
	if err != nil {
		t.Fatal(err)
	}
	if second != nil {
		t.Fatalf("expected no eligible job, got %v", second)
	}
}

func TestClaimOrdersByPriorityThenNextRunAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "low", Command: "true", Priority: 10}); err != nil {
		t.Fatal(err)
	}
	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "high", Command: "true", Priority: 1}); err != nil {
		t.Fatal(err)
	}
	now := time.Now()

	jb, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if jb.Id != "high" {
		t.Fatalf("expected high-priority job claimed first, got %s", jb.Id)
	}
}

func TestFinishSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "a", Command: "echo hi"}); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	jb, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.FinishSuccess(ctx, jb, now, 0); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Completed {
		t.Fatalf("expected Completed, got %v", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", got.Attempts)
	}
	if got.LockedBy != nil {
		t.Fatal("expected lock cleared")
	}
}

func TestFinishFailureRetries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	maxRetries := uint32(3)
	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "a", Command: "false", MaxRetries: &maxRetries}); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	jb, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.FinishFailure(ctx, jb, now, 2, "exit 1"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Pending {
		t.Fatalf("expected Pending (retry), got %v", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", got.Attempts)
	}
	if got.LastError == nil || *got.LastError != "exit 1" {
		t.Fatalf("expected last_error recorded, got %v", got.LastError)
	}
}

func TestFinishFailureExhaustsToDead(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	maxRetries := uint32(0)
	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "a", Command: "false", MaxRetries: &maxRetries}); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	jb, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}

	if err := s.FinishFailure(ctx, jb, now, 0, "exit 1"); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Dead {
		t.Fatalf("expected Dead, got %v", got.Status)
	}
	if got.Attempts != 1 {
		t.Fatalf("expected attempts=1, got %d", got.Attempts)
	}
}

func TestRetryFromDLQ(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	maxRetries := uint32(0)
	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "a", Command: "false", MaxRetries: &maxRetries}); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	jb, err := s.Claim(ctx, "worker-1", now)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.FinishFailure(ctx, jb, now, 0, "exit 1"); err != nil {
		t.Fatal(err)
	}

	if err := s.RetryFromDLQ(ctx, "a", now); err != nil {
		t.Fatal(err)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Pending {
		t.Fatalf("expected Pending after DLQ retry, got %v", got.Status)
	}
	if got.Attempts != 0 {
		t.Fatalf("expected attempts reset to 0, got %d", got.Attempts)
	}
	if got.LastError != nil {
		t.Fatal("expected last_error cleared")
	}
}

func TestRetryFromDLQNotDeadFails(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "a", Command: "true"}); err != nil {
		t.Fatal(err)
	}

	err := s.RetryFromDLQ(ctx, "a", time.Now())
	if !errors.Is(err, queuectl.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestRetryFromDLQUnknownId(t *testing.T) {
	s := newTestStore(t)
	err := s.RetryFromDLQ(context.Background(), "nope", time.Now())
	if !errors.Is(err, queuectl.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecoverStaleLocks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.Enqueue(ctx, &jobspec.Spec{Id: "a", Command: "sleep 30"}); err != nil {
		t.Fatal(err)
	}
	now := time.Now()
	if _, err := s.Claim(ctx, "worker-1", now); err != nil {
		t.Fatal(err)
	}

	threshold := now.Add(time.Second)
	count, err := s.RecoverStaleLocks(ctx, threshold)
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Fatalf("expected 1 reclaimed, got %d", count)
	}

	got, err := s.Get(ctx, "a")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != job.Pending {
		t.Fatalf("expected Pending after recovery, got %v", got.Status)
	}

	// A second sweep at the same threshold affects nothing further.
	count, err = s.RecoverStaleLocks(ctx, threshold)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("expected 0 reclaimed on second sweep, got %d", count)
	}
}
