// Package hooks runs the user-configured pre_update and post_update
// commands around a refresh.
package hooks

import (
	"context"
	"log/slog"

	"github.com/thoreinstein/repokit/internal/config"
	"github.com/thoreinstein/repokit/internal/console"
	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/runner"
)

// Shell executes one hook command string in a directory.
type Shell interface {
	Run(ctx context.Context, script, dir string) runner.Result
}

// Runner runs the hooks of a phase sequentially.
type Runner struct {
	shell   Shell
	dir     string
	cfg     config.Config
	console *console.Printer
	logger  *slog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithConsole sets where dry-run announcements go.
func WithConsole(p *console.Printer) Option {
	return func(r *Runner) { r.console = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) { r.logger = l }
}

// New returns a Runner for the hooks in cfg, executed in dir.
func New(shell Shell, dir string, cfg config.Config, opts ...Option) *Runner {
	r := &Runner{shell: shell, dir: dir, cfg: cfg, logger: logging.NewDiscard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Commands returns the hooks configured for phase.
func (r *Runner) Commands(phase config.Phase) []string {
	return r.cfg.Hooks(phase)
}

// Run executes the hooks for phase in order. A failing hook is logged and
// recorded; the remaining hooks still run. In dry-run nothing executes and
// each hook is announced as "[dry-run hook] <cmd>".
func (r *Runner) Run(ctx context.Context, phase config.Phase) runner.Report {
	var report runner.Report
	for _, cmd := range r.cfg.Hooks(phase) {
		if ctx.Err() != nil {
			break
		}
		if r.cfg.DryRun() {
			r.console.Printf("[dry-run hook] %s", cmd)
			report.Add(cmd, runner.Result{Command: cmd, Skipped: true})
			continue
		}
		res := r.shell.Run(ctx, cmd, r.dir)
		if !res.OK() {
			r.logger.Warn("hook failed", "phase", string(phase), "cmd", cmd, "exit", res.ExitCode)
		}
		report.Add(cmd, res)
	}
	return report
}
