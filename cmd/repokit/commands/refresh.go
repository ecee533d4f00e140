package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/cli/prompt"
	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/refresh"
	"github.com/thoreinstein/repokit/internal/runner"
)

var (
	refreshNoBackup bool
	refreshNoHooks  bool
	refreshNoDeps   bool
	refreshDryRun   bool
	refreshBranch   string
	refreshYes      bool
)

func init() {
	refreshCmd.Flags().BoolVar(&refreshNoBackup, "no-backup", false, "skip creating a backup")
	refreshCmd.Flags().BoolVar(&refreshNoHooks, "no-hooks", false, "skip pre_update and post_update hooks")
	refreshCmd.Flags().BoolVar(&refreshNoDeps, "no-deps", false, "skip dependency installation")
	refreshCmd.Flags().BoolVar(&refreshDryRun, "dry-run", false, "show what would happen without changing anything")
	refreshCmd.Flags().StringVar(&refreshBranch, "branch", "", "branch to sync (skips the branch prompt)")
	refreshCmd.Flags().BoolVarP(&refreshYes, "yes", "y", false, "use the default branch without prompting")
	rootCmd.AddCommand(refreshCmd)
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Back up, sync and reinstall the current repository",
	Long: `Bring the current git working copy up to date.

The steps run in order:
  1. protected files are added to .gitignore
  2. sanity checks (git repository, git on PATH)
  3. a backup archive with a SHA-256 sidecar in .backup/
  4. branch selection (default: origin's HEAD branch)
  5. pre_update hooks
  6. fetch, hard reset to origin/<branch>, pull and gc
  7. dependency install (npm, poetry, pipenv, pip)
  8. post_update hooks
  9. a status table

WARNING: the sync step discards local changes on the chosen branch.
Failed commands are reported but do not stop the remaining steps.`,
	Example: `  # Refresh interactively
  repokit refresh

  # Refresh main without prompting or backing up
  repokit refresh --yes --no-backup

  # Preview everything
  repokit refresh --dry-run

  See Also: repokit backup, repokit doctor`,
	Args: cobra.NoArgs,
	RunE: runRefresh,
}

func runRefresh(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	dir, err := workDir()
	if err != nil {
		return err
	}

	cfg, _ := loadConfig(ctx)
	if refreshDryRun {
		cfg = cfg.WithDryRun(true)
	}

	out := newConsole(cmd)
	ropts := runnerOptions(cmd, out, cfg.DryRun())
	opts := []refresh.Option{
		refresh.WithConsole(out),
		refresh.WithLogger(logging.FromContext(ctx)),
	}
	if !refreshYes && refreshBranch == "" {
		opts = append(opts, refresh.WithChooser(branchChooser(cmd)))
	}

	r := refresh.New(dir, cfg, runner.New(ropts...), runner.NewShell(ropts...), opts...)
	_, err = r.Run(ctx, refresh.Options{
		NoBackup: refreshNoBackup,
		NoHooks:  refreshNoHooks,
		NoDeps:   refreshNoDeps,
		Branch:   refreshBranch,
		Yes:      refreshYes,
	})
	return err
}

// branchChooser uses the fuzzy finder on a terminal and the numbered
// prompt otherwise.
func branchChooser(cmd *cobra.Command) prompt.Chooser {
	if logging.IsTTY(os.Stdin) && logging.IsTTY(cmd.OutOrStdout()) {
		return prompt.NewFuzzy()
	}
	return prompt.NewSelectorWithIO(cmd.InOrStdin(), cmd.OutOrStdout())
}
