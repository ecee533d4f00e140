package git

import (
	"context"

	"github.com/thoreinstein/repokit/internal/runner"
)

// SyncReport holds the outcome of each sync step in order.
type SyncReport struct {
	Branch string
	runner.Report
}

// Sync makes the working copy match origin/<branch>: fetch all remotes,
// hard-reset, pull and gc. Every step runs even if an earlier one failed.
func (r *Repo) Sync(ctx context.Context, branch string) SyncReport {
	steps := []struct {
		name string
		args []string
	}{
		{"fetch", []string{"fetch", "--all"}},
		{"reset", []string{"reset", "--hard", Remote + "/" + branch}},
		{"pull", []string{"pull", Remote, branch}},
		{"gc", []string{"gc"}},
	}

	report := SyncReport{Branch: branch}
	for _, s := range steps {
		if ctx.Err() != nil {
			break
		}
		res := r.git(ctx, s.args...)
		if !res.OK() {
			r.logger.Warn("sync step failed", "step", s.name, "branch", branch, "error", res.Err)
		}
		report.Add(s.name, res)
	}
	return report
}
