package git

import (
	"context"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/runner"
)

func resultErr(res runner.Result) error {
	if res.OK() {
		return nil
	}
	return res.Err
}

// AddAll stages every change in the working copy.
func (r *Repo) AddAll(ctx context.Context) error {
	return resultErr(r.git(ctx, "add", "."))
}

// StagedDiff returns the staged diff. It is a query, so it runs in dry-run.
func (r *Repo) StagedDiff(ctx context.Context) (string, error) {
	res := r.query(ctx, "diff", "--staged")
	if !res.OK() {
		return "", res.Err
	}
	return res.Stdout, nil
}

// WorkingDiff returns the diff of all tracked changes against HEAD, staged
// or not. It is a query, so it runs in dry-run.
func (r *Repo) WorkingDiff(ctx context.Context) (string, error) {
	res := r.query(ctx, "diff", "HEAD")
	if !res.OK() {
		return "", res.Err
	}
	return res.Stdout, nil
}

// CreateBranch creates and checks out name.
func (r *Repo) CreateBranch(ctx context.Context, name string) error {
	return resultErr(r.git(ctx, "checkout", "-b", name))
}

// Commit records the staged changes with message.
func (r *Repo) Commit(ctx context.Context, message string) error {
	if message == "" {
		return errors.New("empty commit message")
	}
	return resultErr(r.git(ctx, "commit", "-m", message))
}

// Push publishes branch to origin.
func (r *Repo) Push(ctx context.Context, branch string) error {
	return resultErr(r.run.Run(ctx, runner.Cmd("git", "push", Remote, branch).In(r.dir).Streaming()))
}

// ResetLocalBranch points the local branch at origin/<branch>: fetch with
// prune, force-checkout, then pull. All three run; the errors are combined.
func (r *Repo) ResetLocalBranch(ctx context.Context, branch string) error {
	var report runner.Report
	for _, args := range [][]string{
		{"fetch", Remote, "--prune"},
		{"checkout", "-B", branch, Remote + "/" + branch},
		{"pull"},
	} {
		report.Add(args[0], r.git(ctx, args...))
	}
	return report.Err()
}
