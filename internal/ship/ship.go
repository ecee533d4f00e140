// Package ship stages, commits and publishes local changes with generated
// texts, then opens a labeled pull request.
package ship

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/thoreinstein/repokit/internal/ai"
	"github.com/thoreinstein/repokit/internal/console"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/forge"
	"github.com/thoreinstein/repokit/internal/logging"
)

// DefaultBase is the branch pull requests target by default.
const DefaultBase = "main"

// ErrNothingStaged is returned when there is no diff to ship.
var ErrNothingStaged = errors.New("no staged changes to ship")

// Git is the subset of repository operations ship needs.
type Git interface {
	AddAll(ctx context.Context) error
	StagedDiff(ctx context.Context) (string, error)
	WorkingDiff(ctx context.Context) (string, error)
	CreateBranch(ctx context.Context, name string) error
	Commit(ctx context.Context, message string) error
	Push(ctx context.Context, branch string) error
	ResetLocalBranch(ctx context.Context, branch string) error
}

// Forge opens pull requests.
type Forge interface {
	CreatePullRequest(ctx context.Context, pr forge.PullRequest) (int, error)
	AddLabels(ctx context.Context, number int, labels []string) error
}

// Options selects which steps run.
type Options struct {
	Base      string
	NoPush    bool
	NoPR      bool
	NoLabels  bool
	ResetBase bool
	DryRun    bool
}

func (o Options) opensPR() bool { return !o.NoPR && !o.NoPush }

// Result reports what a run did.
type Result struct {
	Texts    ai.Texts
	Branch   string
	Pushed   bool
	PRNumber int
	Labeled  bool
	Reset    bool

	// PRErr and LabelErr are reported but do not fail the run.
	PRErr    error
	LabelErr error
}

// Shipper runs the ship flow.
type Shipper struct {
	git     Git
	gen     ai.Generator
	forge   Forge
	opts    Options
	console *console.Printer
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Shipper.
type Option func(*Shipper)

// WithConsole sets the printer for progress output.
func WithConsole(p *console.Printer) Option {
	return func(s *Shipper) { s.console = p }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Shipper) { s.logger = l }
}

// WithClock sets the time source for branch names.
func WithClock(now func() time.Time) Option {
	return func(s *Shipper) { s.now = now }
}

// New returns a Shipper. fg may be nil when opts never open a pull request.
func New(g Git, gen ai.Generator, fg Forge, opts Options, options ...Option) *Shipper {
	if opts.Base == "" {
		opts.Base = DefaultBase
	}
	s := &Shipper{
		git:     g,
		gen:     gen,
		forge:   fg,
		opts:    opts,
		console: console.Discard(),
		logger:  logging.NewDiscard(),
		now:     time.Now,
	}
	for _, o := range options {
		o(s)
	}
	return s
}

// BranchName returns the branch a change labeled label is shipped on.
func BranchName(label string, at time.Time) string {
	return fmt.Sprintf("%s/auto-update-%d", label, at.Unix())
}

// Run executes the flow. Git failures abort it; pull request and label
// failures are recorded in the Result.
func (s *Shipper) Run(ctx context.Context) (Result, error) {
	var res Result
	ctx = logging.NewContext(ctx, s.logger)

	s.console.Panel("Staging all changes")
	if err := s.git.AddAll(ctx); err != nil {
		return res, errors.Wrap(err, "staging changes")
	}

	diff, err := s.diff(ctx)
	if err != nil {
		return res, err
	}
	s.console.Info("Diff length: %d characters", len(diff))

	s.console.Info("Generating texts via Gemini...")
	texts, err := ai.Describe(ctx, s.gen, diff)
	if err != nil {
		return res, err
	}
	res.Texts = texts
	s.console.Success("Detected labels: %s", strings.Join(texts.Labels, ", "))
	s.console.Panel("Commit Message")
	s.console.Printf("%s", texts.CommitMessage)
	s.console.Panel("PR Title")
	s.console.Printf("%s", texts.Title)

	res.Branch = BranchName(texts.Labels[0], s.now())
	s.console.Panel("Creating branch: %s", res.Branch)
	if err := s.git.CreateBranch(ctx, res.Branch); err != nil {
		return res, errors.Wrap(err, "creating branch")
	}
	if err := s.git.Commit(ctx, texts.CommitMessage); err != nil {
		return res, errors.Wrap(err, "committing")
	}

	if !s.opts.NoPush {
		s.console.Panel("Pushing branch to remote")
		if err := s.git.Push(ctx, res.Branch); err != nil {
			return res, errors.Wrap(err, "pushing branch")
		}
		res.Pushed = !s.opts.DryRun
	}

	if s.opts.opensPR() {
		s.pullRequest(ctx, &res)
	}

	if s.opts.ResetBase {
		s.console.Panel("Resetting local %s to origin/%s", s.opts.Base, s.opts.Base)
		if err := s.git.ResetLocalBranch(ctx, s.opts.Base); err != nil {
			s.logger.Warn("failed to reset local branch", "branch", s.opts.Base, "error", err)
			s.console.Warn("Failed to reset local %s: %v", s.opts.Base, err)
		} else {
			res.Reset = true
		}
	}

	return res, nil
}

// diff returns the change to describe. In dry-run nothing was staged, so
// the working tree diff against HEAD is used when the index is empty.
func (s *Shipper) diff(ctx context.Context) (string, error) {
	diff, err := s.git.StagedDiff(ctx)
	if err != nil {
		return "", errors.Wrap(err, "reading staged diff")
	}
	if strings.TrimSpace(diff) == "" && s.opts.DryRun {
		if diff, err = s.git.WorkingDiff(ctx); err != nil {
			return "", errors.Wrap(err, "reading working tree diff")
		}
	}
	if strings.TrimSpace(diff) == "" {
		return "", ErrNothingStaged
	}
	return diff, nil
}

func (s *Shipper) pullRequest(ctx context.Context, res *Result) {
	pr := forge.PullRequest{
		Title: res.Texts.Title,
		Head:  res.Branch,
		Base:  s.opts.Base,
		Body:  forge.PRBody(res.Texts.CommitMessage),
	}

	if s.opts.DryRun {
		s.console.Printf("[dry-run] create pull request %q (%s -> %s)", pr.Title, pr.Head, pr.Base)
		if !s.opts.NoLabels {
			s.console.Printf("[dry-run] add labels %s", strings.Join(res.Texts.Labels, ", "))
		}
		return
	}
	if s.forge == nil {
		res.PRErr = errors.New("no forge client configured")
		return
	}

	n, err := s.forge.CreatePullRequest(ctx, pr)
	if err != nil {
		res.PRErr = err
		s.logger.Warn("failed to create pull request", "error", err)
		s.console.Error("Failed to create PR: %v", err)
		return
	}
	res.PRNumber = n
	s.console.Success("Pull Request created: #%d", n)

	if s.opts.NoLabels {
		return
	}
	if err := s.forge.AddLabels(ctx, n, res.Texts.Labels); err != nil {
		res.LabelErr = err
		s.logger.Warn("failed to add labels", "pr", n, "error", err)
		s.console.Error("Failed to add labels: %v", err)
		return
	}
	res.Labeled = true
	s.console.Success("Labels added to PR #%d: %s", n, strings.Join(res.Texts.Labels, ", "))
}
