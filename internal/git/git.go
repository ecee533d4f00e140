// Package git drives the git CLI for repository refresh and ship flows.
//
// Mutating operations go through a runner.Runner so they honor dry-run and
// can be scripted in tests. Read-only queries are marked as such and still
// run in dry-run. Status is read in-process with go-git where possible.
package git

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/runner"
)

// FallbackBranch is used when neither the remote nor HEAD names a branch.
const FallbackBranch = "main"

// Remote is the remote every operation targets.
const Remote = "origin"

// Repo is a working copy at a fixed directory.
type Repo struct {
	dir    string
	run    runner.Runner
	logger *slog.Logger
}

// Option configures a Repo.
type Option func(*Repo)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Repo) { r.logger = l }
}

// New returns a Repo rooted at dir that runs git through run.
func New(dir string, run runner.Runner, opts ...Option) *Repo {
	r := &Repo{dir: dir, run: run, logger: logging.NewDiscard()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Dir returns the working copy directory.
func (r *Repo) Dir() string { return r.dir }

func (r *Repo) git(ctx context.Context, args ...string) runner.Result {
	return r.run.Run(ctx, runner.Cmd("git", args...).In(r.dir))
}

func (r *Repo) query(ctx context.Context, args ...string) runner.Result {
	return r.run.Run(ctx, runner.Cmd("git", args...).In(r.dir).Query())
}

// DefaultBranch returns origin's HEAD branch as reported by
// `git remote show origin`. It falls back to the current branch, then to
// FallbackBranch.
func (r *Repo) DefaultBranch(ctx context.Context) string {
	if res := r.query(ctx, "remote", "show", Remote); res.OK() {
		for _, line := range strings.Split(res.Stdout, "\n") {
			if _, after, ok := strings.Cut(line, "HEAD branch:"); ok {
				if b := strings.TrimSpace(after); b != "" && b != "(unknown)" {
					return b
				}
			}
		}
	}
	if b, err := r.CurrentBranch(ctx); err == nil {
		return b
	}
	return FallbackBranch
}

// CurrentBranch returns the checked-out branch name, or "HEAD" when detached.
func (r *Repo) CurrentBranch(ctx context.Context) (string, error) {
	res := r.query(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if !res.OK() {
		return "", res.Err
	}
	b := res.Output()
	if b == "" {
		return "", errors.New("git rev-parse returned no branch")
	}
	return b, nil
}

// RemoteBranches lists origin's branches without the "origin/" prefix.
// Symbolic entries such as "origin/HEAD -> origin/main" are dropped.
func (r *Repo) RemoteBranches(ctx context.Context) ([]string, error) {
	res := r.query(ctx, "branch", "-r")
	if !res.OK() {
		return nil, res.Err
	}
	var branches []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Contains(line, "->") {
			continue
		}
		branches = append(branches, strings.TrimPrefix(line, Remote+"/"))
	}
	return branches, nil
}

// ValidateRepository checks that dir contains a .git directory.
func ValidateRepository(dir string) error {
	gitDir := filepath.Join(dir, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrNotGitRepository, "%s", dir)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Wrapf(errors.ErrNotGitRepository, ".git is not a directory: %s", gitDir)
	}
	return nil
}
