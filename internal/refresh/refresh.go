// Package refresh brings a working copy up to date: it protects secret
// files, takes a backup, syncs the chosen branch, reinstalls dependencies
// and runs the configured hooks around the sync.
package refresh

import (
	"context"
	"log/slog"
	"strings"

	"github.com/thoreinstein/repokit/internal/backup"
	"github.com/thoreinstein/repokit/internal/cli/prompt"
	"github.com/thoreinstein/repokit/internal/config"
	"github.com/thoreinstein/repokit/internal/console"
	"github.com/thoreinstein/repokit/internal/deps"
	"github.com/thoreinstein/repokit/internal/doctor"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/git"
	"github.com/thoreinstein/repokit/internal/hooks"
	"github.com/thoreinstein/repokit/internal/ignore"
	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/runner"
)

// Backuper creates a backup of the project.
type Backuper interface {
	Create(ctx context.Context) (*backup.Artifact, error)
}

// Options selects which steps run.
type Options struct {
	NoBackup bool
	NoHooks  bool
	NoDeps   bool

	// Branch skips branch selection when set.
	Branch string
	// Yes uses the default branch without prompting.
	Yes bool
}

// Report is the outcome of a refresh.
type Report struct {
	// Protected lists the names added to .gitignore, or that would be
	// added in dry-run.
	Protected []string
	Backup    *backup.Artifact
	Branch    string
	PreHooks  runner.Report
	Sync      git.SyncReport
	Deps      runner.Report
	PostHooks runner.Report
	Status    git.Status
}

// Failed returns every failed step of the run, prefixed by its stage.
func (r *Report) Failed() []runner.Step {
	var out []runner.Step
	for _, stage := range []struct {
		name   string
		report runner.Report
	}{
		{"pre-hook", r.PreHooks},
		{"sync", r.Sync.Report},
		{"deps", r.Deps},
		{"post-hook", r.PostHooks},
	} {
		for _, s := range stage.report.Failed() {
			s.Name = stage.name + ": " + s.Name
			out = append(out, s)
		}
	}
	return out
}

// Refresher runs the refresh flow for one project directory.
type Refresher struct {
	dir     string
	cfg     config.Config
	run     runner.Runner
	shell   hooks.Shell
	backup  Backuper
	chooser prompt.Chooser
	checks  []doctor.Check
	console *console.Printer
	logger  *slog.Logger
}

// Option configures a Refresher.
type Option func(*Refresher)

// WithBackuper replaces the backup manager built from the config.
func WithBackuper(b Backuper) Option {
	return func(r *Refresher) { r.backup = b }
}

// WithChooser sets the branch prompt. Without one the default branch is
// used.
func WithChooser(c prompt.Chooser) Option {
	return func(r *Refresher) { r.chooser = c }
}

// WithChecks replaces the sanity checks run before anything else.
func WithChecks(checks ...doctor.Check) Option {
	return func(r *Refresher) { r.checks = checks }
}

// WithConsole sets the printer for progress output.
func WithConsole(p *console.Printer) Option {
	return func(r *Refresher) { r.console = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Refresher) { r.logger = l }
}

// New returns a Refresher for dir. Commands go through run and hooks
// through shell; both are expected to honor cfg's dry-run setting.
func New(dir string, cfg config.Config, run runner.Runner, shell hooks.Shell, opts ...Option) *Refresher {
	r := &Refresher{
		dir:     dir,
		cfg:     cfg,
		run:     run,
		shell:   shell,
		console: console.Discard(),
		logger:  logging.NewDiscard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.checks == nil {
		r.checks = []doctor.Check{doctor.NewGitRepositoryCheck(dir), doctor.NewGitBinaryCheck()}
	}
	if r.backup == nil {
		r.backup = r.defaultBackup()
	}
	return r
}

func (r *Refresher) defaultBackup() *backup.Manager {
	opts := []backup.Option{
		backup.WithExcludes(r.cfg.ExcludeFromBackup()),
		backup.WithDryRun(r.cfg.DryRun()),
		backup.WithLogger(r.logger),
	}
	if pw, ok := r.cfg.BackupPassword(); ok {
		opts = append(opts, backup.WithPassword(pw))
	}
	return backup.NewManager(r.dir, opts...)
}

// Run executes the flow: sanity checks, optional backup, branch selection,
// pre-hooks, sync, dependency install, post-hooks and the status report.
// Failed sanity checks and backup errors abort the run before the working
// copy is touched. Failed commands after that are recorded in the Report.
func (r *Refresher) Run(ctx context.Context, opts Options) (*Report, error) {
	ctx = logging.NewContext(ctx, r.logger)
	report := &Report{}
	repo := git.New(r.dir, r.run, git.WithLogger(r.logger))

	r.console.Panel("Git Repo Refresher started")

	if err := r.sanity(report); err != nil {
		return report, err
	}

	if opts.NoBackup {
		r.console.Info("Skipping backup (flag --no-backup)")
	} else if err := r.createBackup(ctx, report); err != nil {
		return report, err
	}

	report.Branch = r.selectBranch(ctx, repo, opts)

	hookRunner := hooks.New(r.shell, r.dir, r.cfg, hooks.WithConsole(r.console), hooks.WithLogger(r.logger))
	if !opts.NoHooks {
		report.PreHooks = r.runHooks(ctx, hookRunner, config.PreUpdate)
	}

	r.console.Panel("Updating repository on branch '%s'", report.Branch)
	report.Sync = repo.Sync(ctx, report.Branch)
	if err := ctx.Err(); err != nil {
		return report, err
	}

	if opts.NoDeps {
		r.console.Info("Skipping dependency install (flag --no-deps)")
	} else {
		r.console.Panel("Installing dependencies")
		installed, err := deps.Install(ctx, r.run, r.dir, r.logger)
		if err != nil {
			r.logger.Warn("dependency detection failed", "error", err)
			r.console.Warn("Dependency detection failed: %v", err)
		}
		report.Deps = installed
	}

	if !opts.NoHooks {
		report.PostHooks = r.runHooks(ctx, hookRunner, config.PostUpdate)
	}
	if err := ctx.Err(); err != nil {
		return report, err
	}

	report.Status = repo.Status(ctx)
	r.console.Table(
		[]string{"Branch", "Last Commit", "Author"},
		[][]string{{report.Status.Branch, report.Status.Subject, report.Status.Author}},
	)

	if failed := report.Failed(); len(failed) > 0 {
		for _, s := range failed {
			r.console.Warn("%s failed: %v", s.Name, s.Result.Err)
		}
		return report, nil
	}
	r.console.Success("Repository is up-to-date, dependencies installed, backup step handled.")
	return report, nil
}

// sanity runs the doctor checks, then protects secret files. A check with
// SeverityError is fatal and leaves .gitignore untouched.
func (r *Refresher) sanity(report *Report) error {
	failed := doctor.NewRunner(r.checks...).Run().Failed()
	for _, res := range failed {
		r.console.Error("%s", res.Message)
	}
	if len(failed) > 0 {
		first := failed[0]
		err := errors.Newf("sanity check %s failed: %s", first.Name, first.Message)
		if first.Name == doctor.GitRepositoryCheckName {
			err = errors.Wrap(errors.ErrNotGitRepository, first.Message)
		}
		return errors.NewUserError(err, first.FixHint)
	}

	protected := r.cfg.ProtectedFiles()
	added, err := ignore.Ensure(r.dir, protected, r.cfg.DryRun())
	if err != nil {
		r.logger.Warn("could not update .gitignore", "error", err)
	}
	report.Protected = added
	for _, name := range added {
		if r.cfg.DryRun() {
			r.console.Printf("[dry-run] add '%s' to .gitignore", name)
		} else {
			r.console.Info("'%s' added to .gitignore.", name)
		}
	}

	if missing, err := ignore.Missing(r.dir, protected); err == nil {
		for _, name := range missing {
			r.console.Warn("Sensitive file %s not in .gitignore!", name)
		}
	}
	return nil
}

func (r *Refresher) createBackup(ctx context.Context, report *Report) error {
	r.console.Panel("Creating backup")
	art, err := r.backup.Create(ctx)
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating backup"),
			"Fix the backup error or rerun with --no-backup")
	}
	report.Backup = art
	if art.Planned {
		r.console.Printf("[dry-run] backup %s with %d files skipped", art.ArchivePath, len(art.Members))
		return nil
	}
	r.console.Success("Backup completed: %s, hash stored in %s", art.ArchivePath, art.HashPath)
	return nil
}

// selectBranch resolves the branch to sync. An explicit branch wins; with
// Yes, no chooser, no remote branches or a cancelled prompt the default
// branch is used.
func (r *Refresher) selectBranch(ctx context.Context, repo *git.Repo, opts Options) string {
	if b := strings.TrimSpace(opts.Branch); b != "" {
		return b
	}
	def := repo.DefaultBranch(ctx)
	if opts.Yes || r.chooser == nil {
		return def
	}

	branches, err := repo.RemoteBranches(ctx)
	if err != nil || len(branches) == 0 {
		r.logger.Debug("no remote branches to choose from", "error", err)
		return def
	}

	choice, err := r.chooser.Choose("Which branch do you want to update?", branches, def)
	if err != nil {
		if !errors.Is(err, prompt.ErrSelectionCancelled) {
			r.logger.Warn("branch selection failed", "error", err)
		}
		r.console.Info("Using default branch '%s'", def)
		return def
	}
	return choice
}

func (r *Refresher) runHooks(ctx context.Context, h *hooks.Runner, phase config.Phase) runner.Report {
	if len(h.Commands(phase)) == 0 {
		return runner.Report{}
	}
	r.console.Panel("Running %s hooks", phase)
	return h.Run(ctx, phase)
}
