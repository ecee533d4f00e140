package runner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"

	"github.com/thoreinstein/repokit/internal/console"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/logging"
)

// Exec runs commands as child processes.
type Exec struct {
	dryRun  bool
	logger  *slog.Logger
	console *console.Printer
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures an Exec or Shell.
type Option func(*options)

type options struct {
	dryRun  bool
	logger  *slog.Logger
	console *console.Printer
	stdout  io.Writer
	stderr  io.Writer
}

// WithDryRun announces commands instead of running them.
func WithDryRun(v bool) Option {
	return func(o *options) { o.dryRun = v }
}

// WithLogger sets the logger for command tracing and failures.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConsole sets where dry-run announcements are printed.
func WithConsole(p *console.Printer) Option {
	return func(o *options) { o.console = p }
}

// WithOutput sets the destinations for streamed output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(o *options) {
		o.stdout = stdout
		o.stderr = stderr
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: logging.NewDiscard(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// New returns an Exec runner.
func New(opts ...Option) *Exec {
	o := buildOptions(opts)
	return &Exec{
		dryRun:  o.dryRun,
		logger:  o.logger,
		console: o.console,
		stdout:  o.stdout,
		stderr:  o.stderr,
	}
}

// DryRun reports whether e only announces commands.
func (e *Exec) DryRun() bool { return e.dryRun }

// Run implements Runner.
func (e *Exec) Run(ctx context.Context, c Command) Result {
	line := c.String()
	res := Result{Command: line}

	if e.dryRun && !c.ReadOnly {
		e.console.Printf("[dry-run] %s", line)
		e.logger.Debug("dry-run skipped command", "cmd", line)
		res.Skipped = true
		return res
	}

	e.logger.Log(ctx, logging.LevelTrace, "running", "cmd", line, "dir", c.Dir)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout, cmd.Stderr = &stdout, &stderr
	if c.Stream {
		cmd.Stdin = os.Stdin
		cmd.Stdout = io.MultiWriter(&stdout, e.stdout)
		cmd.Stderr = io.MultiWriter(&stderr, e.stderr)
	}

	err := cmd.Run()
	res.Stdout, res.Stderr = stdout.String(), stderr.String()
	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}
		res.Err = errors.Wrapf(err, "%s", line)
		e.logger.Warn("command failed", "cmd", line, "exit", res.ExitCode, "stderr", trimmed(res.Stderr))
		return res
	}

	e.logger.Log(ctx, logging.LevelTrace, "command finished", "cmd", line, "stdout", trimmed(res.Stdout))
	return res
}

func trimmed(s string) string { return string(bytes.TrimSpace([]byte(s))) }
