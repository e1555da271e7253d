package executor_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/shellq/queuectl/executor"
)

func newRequest(t *testing.T, command string, timeout time.Duration) executor.Request {
	t.Helper()
	dir := t.TempDir()
	return executor.Request{
		Command:    command,
		Timeout:    timeout,
		Attempt:    1,
		StdoutPath: filepath.Join(dir, "out.txt"),
		StderrPath: filepath.Join(dir, "err.txt"),
	}
}

func TestRunSuccess(t *testing.T) {
	exec := executor.New(clock.New())
	req := newRequest(t, "echo hello", 0)

	res := exec.Run(req)
	if !res.Success() {
		t.Fatalf("expected success, got %+v", res)
	}

	data, err := os.ReadFile(req.StdoutPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "" {
		t.Fatal("expected non-empty stdout")
	}
}

func TestRunNonzeroExit(t *testing.T) {
	exec := executor.New(clock.New())
	req := newRequest(t, "exit 7", 0)

	res := exec.Run(req)
	if res.Outcome != executor.Nonzero {
		t.Fatalf("expected Nonzero, got %v", res.Outcome)
	}
	if res.ExitCode != 7 {
		t.Fatalf("expected exit code 7, got %d", res.ExitCode)
	}
}

func TestRunTimeout(t *testing.T) {
	exec := executor.New(clock.New())
	req := newRequest(t, "sleep 5", 200*time.Millisecond)

	start := time.Now()
	res := exec.Run(req)
	elapsed := time.Since(start)

	if res.Outcome != executor.Timeout {
		t.Fatalf("expected Timeout, got %v", res.Outcome)
	}
	if elapsed > 4*time.Second {
		t.Fatalf("expected the process to be killed well before its sleep finished, took %s", elapsed)
	}
}

func TestRunSpawnError(t *testing.T) {
	exec := executor.New(clock.New())
	req := newRequest(t, "", 0)
	req.Command = ""
	dir := t.TempDir()
	req.StdoutPath = filepath.Join(dir, "nonexistent-subdir", "out.txt")

	res := exec.Run(req)
	if res.Outcome != executor.SpawnError {
		t.Fatalf("expected SpawnError, got %v", res.Outcome)
	}
}
