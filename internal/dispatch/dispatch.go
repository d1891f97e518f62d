// Package dispatch drives the downstream build hook: every ledger row
// still in state NEW is handed to the hook exactly once and the outcome
// recorded as the row's terminal state. Whether a hook is present at
// all is the caller's decision; see gitrepo.Repo.HookExecutable.
package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/exec"

	"github.com/reltrack/reltrack/internal/ledger"
)

// Runner invokes an external program and reports its exit status.
// Abstracting the subprocess call keeps test doubles trivial.
type Runner interface {
	Run(path string, args ...string) (exitCode int, err error)
}

// ExecRunner runs the program synchronously via os/exec, inheriting
// stdout and stderr. There is no timeout: a hung hook hangs the run.
type ExecRunner struct{}

func (ExecRunner) Run(path string, args ...string) (int, error) {
	cmd := exec.Command(path, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	// The hook existed at scan time but could not be started.
	return -1, err
}

// Queue is the ledger surface the dispatcher needs. *ledger.Ledger
// implements it.
type Queue interface {
	Pending(ctx context.Context) ([]ledger.PendingBuild, error)
	RecordOutcome(ctx context.Context, version, branch, state string) error
}

// Dispatcher invokes the build hook for each pending release, one at a
// time, recording SUCCESS for a zero exit status and FAILED (<code>)
// otherwise. A failing hook is not a dispatcher error; processing
// continues with the next pending row.
type Dispatcher struct {
	queue  Queue
	runner Runner
	hook   string
}

// New creates a dispatcher for the given hook path.
func New(queue Queue, runner Runner, hookPath string) *Dispatcher {
	return &Dispatcher{queue: queue, runner: runner, hook: hookPath}
}

// Run processes every pending row.
func (d *Dispatcher) Run(ctx context.Context) error {
	pending, err := d.queue.Pending(ctx)
	if err != nil {
		return err
	}
	for _, p := range pending {
		slog.Info("will build",
			"commit", p.Commit, "branch", p.Branch, "release", p.Release)
		code, err := d.runner.Run(d.hook, p.Commit, p.Branch, p.Release)
		if err != nil {
			slog.Warn("release hook could not be started", "error", err)
		}
		state := ledger.StateSuccess
		if code != 0 {
			state = ledger.FailureState(code)
		}
		if err := d.queue.RecordOutcome(ctx, p.Release, p.Branch, state); err != nil {
			return err
		}
		slog.Info("build status recorded",
			"release", p.Release, "branch", p.Branch, "state", state)
	}
	return nil
}
