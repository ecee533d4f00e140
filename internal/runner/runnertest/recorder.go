// Package runnertest provides a scripted runner.Runner for tests.
package runnertest

import (
	"context"
	"sync"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/runner"
)

// Recorder records every command and answers with scripted results.
// Unscripted commands succeed with empty output.
type Recorder struct {
	mu        sync.Mutex
	calls     []runner.Command
	responses map[string]runner.Result
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{responses: make(map[string]runner.Result)}
}

// On scripts the result for the command line cmdline, as rendered by
// runner.Command.String.
func (r *Recorder) On(cmdline string, res runner.Result) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()
	res.Command = cmdline
	r.responses[cmdline] = res
	return r
}

// Stdout scripts a successful command printing out.
func (r *Recorder) Stdout(cmdline, out string) *Recorder {
	return r.On(cmdline, runner.Result{Stdout: out})
}

// Fail scripts a failing command.
func (r *Recorder) Fail(cmdline string, exitCode int, stderr string) *Recorder {
	return r.On(cmdline, runner.Result{
		ExitCode: exitCode,
		Stderr:   stderr,
		Err:      errors.Newf("%s: exit status %d", cmdline, exitCode),
	})
}

// Run implements runner.Runner.
func (r *Recorder) Run(_ context.Context, c runner.Command) runner.Result {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, c)
	line := c.String()
	if res, ok := r.responses[line]; ok {
		return res
	}
	return runner.Result{Command: line}
}

// Calls returns the recorded commands in order.
func (r *Recorder) Calls() []runner.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]runner.Command(nil), r.calls...)
}

// Lines returns the recorded command lines in order.
func (r *Recorder) Lines() []string {
	calls := r.Calls()
	lines := make([]string, len(calls))
	for i, c := range calls {
		lines[i] = c.String()
	}
	return lines
}
