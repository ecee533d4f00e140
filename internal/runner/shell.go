package runner

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/thoreinstein/repokit/internal/console"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/logging"
)

// Shell runs command strings with the built-in POSIX shell interpreter.
type Shell struct {
	dryRun  bool
	logger  *slog.Logger
	console *console.Printer
	stdout  io.Writer
	stderr  io.Writer
}

// NewShell returns a Shell. It accepts the same options as New.
func NewShell(opts ...Option) *Shell {
	o := buildOptions(opts)
	return &Shell{
		dryRun:  o.dryRun,
		logger:  o.logger,
		console: o.console,
		stdout:  o.stdout,
		stderr:  o.stderr,
	}
}

// Run parses script and executes it in dir, streaming output to the
// configured writers while capturing it.
func (s *Shell) Run(ctx context.Context, script, dir string) Result {
	res := Result{Command: script}

	if s.dryRun {
		s.console.Printf("[dry-run] %s", script)
		res.Skipped = true
		return res
	}

	file, err := syntax.NewParser().Parse(strings.NewReader(script), "")
	if err != nil {
		res.ExitCode = -1
		res.Err = errors.Wrapf(err, "parsing %q", script)
		s.logger.Warn("invalid shell command", "cmd", script, "error", err)
		return res
	}

	var stdout, stderr bytes.Buffer
	r, err := interp.New(
		interp.StdIO(nil, io.MultiWriter(&stdout, s.stdout), io.MultiWriter(&stderr, s.stderr)),
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
	)
	if err != nil {
		res.ExitCode = -1
		res.Err = errors.Wrap(err, "creating shell interpreter")
		return res
	}

	s.logger.Log(ctx, logging.LevelTrace, "running shell", "cmd", script, "dir", dir)
	err = r.Run(ctx, file)
	res.Stdout, res.Stderr = stdout.String(), stderr.String()
	if err != nil {
		res.ExitCode = -1
		var status interp.ExitStatus
		if errors.As(err, &status) {
			res.ExitCode = int(status)
		}
		res.Err = errors.Wrapf(err, "%s", script)
		s.logger.Warn("shell command failed", "cmd", script, "exit", res.ExitCode)
	}
	return res
}
