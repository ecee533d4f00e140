package runner

import (
	"context"
	"strings"

	"github.com/hashicorp/go-multierror"
	"mvdan.cc/sh/v3/syntax"
)

// Command describes one process invocation.
type Command struct {
	Name string
	Args []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env holds extra KEY=VALUE pairs appended to the process environment.
	Env []string
	// Stream copies output to the console while it is captured.
	Stream bool
	// ReadOnly marks commands that only query state. They run in dry-run.
	ReadOnly bool
}

// Cmd returns a Command for name and args.
func Cmd(name string, args ...string) Command {
	return Command{Name: name, Args: args}
}

// In returns a copy of c that runs in dir.
func (c Command) In(dir string) Command {
	c.Dir = dir
	return c
}

// Streaming returns a copy of c that streams its output.
func (c Command) Streaming() Command {
	c.Stream = true
	return c
}

// Query returns a copy of c marked read-only.
func (c Command) Query() Command {
	c.ReadOnly = true
	return c
}

// String renders c as a shell-quoted command line.
func (c Command) String() string {
	parts := make([]string, 0, len(c.Args)+1)
	for _, p := range append([]string{c.Name}, c.Args...) {
		parts = append(parts, quote(p))
	}
	return strings.Join(parts, " ")
}

func quote(s string) string {
	q, err := syntax.Quote(s, syntax.LangBash)
	if err != nil {
		return s
	}
	return q
}

// Result is the outcome of one command.
type Result struct {
	Command  string
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
	// Skipped is set when dry-run suppressed execution.
	Skipped bool
}

// OK reports whether the command succeeded or was skipped.
func (r Result) OK() bool { return r.Err == nil }

// Output returns stdout with surrounding whitespace trimmed.
func (r Result) Output() string { return strings.TrimSpace(r.Stdout) }

// Runner runs commands. Implementations never panic on command failure;
// the failure is reported in the Result.
type Runner interface {
	Run(ctx context.Context, cmd Command) Result
}

// Step names a Result inside a multi-command report.
type Step struct {
	Name   string
	Result Result
}

// Failed reports whether the step's command failed.
func (s Step) Failed() bool { return s.Result.Err != nil }

// Report collects the steps of a multi-command operation.
type Report struct {
	Steps []Step
}

// Add appends a step.
func (r *Report) Add(name string, res Result) {
	r.Steps = append(r.Steps, Step{Name: name, Result: res})
}

// Failed returns the steps whose command failed.
func (r Report) Failed() []Step {
	var failed []Step
	for _, st := range r.Steps {
		if st.Failed() {
			failed = append(failed, st)
		}
	}
	return failed
}

// Err combines the errors of all failed steps, or returns nil.
func (r Report) Err() error {
	var result *multierror.Error
	for _, st := range r.Failed() {
		result = multierror.Append(result, st.Result.Err)
	}
	return result.ErrorOrNil()
}
