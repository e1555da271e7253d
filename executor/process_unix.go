//go:build unix

package executor

import (
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/shellq/queuectl/logs"
)

// killGrace is how long the executor waits after sending a terminate
// signal to a timed-out process group before escalating to a kill
// signal (spec.md §4.6 step 3).
const killGrace = 2 * time.Second

// shellExecutor runs commands via "sh -c" in their own process group,
// so a timeout can signal the whole subtree rather than just the
// immediate child.
type shellExecutor struct {
	clock clock.Clock
}

// New returns the host-shell Executor.
func New(c clock.Clock) Executor {
	return &shellExecutor{clock: c}
}

func (e *shellExecutor) Run(req Request) Result {
	stdout, stderr, err := logs.OpenPair(req.StdoutPath, req.StderrPath)
	if err != nil {
		return Result{Outcome: SpawnError, Message: fmt.Sprintf("open log files: %v", err)}
	}
	defer stdout.Close()
	defer stderr.Close()

	if err := logs.WriteHeader(stdout, req.Attempt, e.clock.Now()); err != nil {
		return Result{Outcome: SpawnError, Message: fmt.Sprintf("write stdout header: %v", err)}
	}
	if err := logs.WriteHeader(stderr, req.Attempt, e.clock.Now()); err != nil {
		return Result{Outcome: SpawnError, Message: fmt.Sprintf("write stderr header: %v", err)}
	}

	cmd := exec.Command("sh", "-c", req.Command)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}

	if err := cmd.Start(); err != nil {
		return Result{Outcome: SpawnError, Message: err.Error()}
	}

	waitCh := make(chan error, 1)
	go func() { waitCh <- cmd.Wait() }()

	var timeoutCh <-chan time.Time
	var timer *clock.Timer
	if req.Timeout > 0 {
		timer = e.clock.Timer(req.Timeout)
		defer timer.Stop()
		timeoutCh = timer.C
	}

	select {
	case err := <-waitCh:
		return exitResult(err)
	case <-timeoutCh:
		signalGroup(cmd.Process.Pid, syscall.SIGTERM)
		select {
		case <-waitCh:
			return Result{Outcome: Timeout, Message: fmt.Sprintf("killed after %s timeout", req.Timeout)}
		case <-e.clock.After(killGrace):
			signalGroup(cmd.Process.Pid, syscall.SIGKILL)
			<-waitCh
			return Result{Outcome: Timeout, Message: fmt.Sprintf("killed (forced) after %s timeout", req.Timeout)}
		}
	}
}

// signalGroup signals the entire process group led by pid. The
// negative pid addresses the group rather than the single process, so
// children spawned by the command are reached too.
func signalGroup(pid int, sig syscall.Signal) {
	_ = syscall.Kill(-pid, sig)
}

func exitResult(err error) Result {
	if err == nil {
		return Result{ExitCode: 0, Outcome: OK}
	}
	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		code := exitErr.ExitCode()
		return Result{ExitCode: code, Outcome: Nonzero, Message: exitErr.Error()}
	}
	return Result{Outcome: SpawnError, Message: err.Error()}
}

func asExitError(err error, target **exec.ExitError) bool {
	if ee, ok := err.(*exec.ExitError); ok {
		*target = ee
		return true
	}
	return false
}
