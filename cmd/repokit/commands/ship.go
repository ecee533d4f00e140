package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/ai"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/forge"
	"github.com/thoreinstein/repokit/internal/git"
	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/runner"
	"github.com/thoreinstein/repokit/internal/ship"
)

var (
	shipNoPR      bool
	shipNoPush    bool
	shipNoLabels  bool
	shipBase      string
	shipModel     string
	shipResetMain bool
	shipDryRun    bool
)

func init() {
	shipCmd.Flags().BoolVar(&shipNoPR, "no-pr", false, "do not open a pull request")
	shipCmd.Flags().BoolVar(&shipNoPush, "no-push", false, "commit locally only (implies --no-pr)")
	shipCmd.Flags().BoolVar(&shipNoLabels, "no-labels", false, "do not label the pull request")
	shipCmd.Flags().StringVar(&shipBase, "base", ship.DefaultBase, "branch the pull request targets")
	shipCmd.Flags().StringVar(&shipModel, "model", ai.DefaultModel, "Gemini model used for the texts")
	shipCmd.Flags().BoolVar(&shipResetMain, "reset-main", false, "reset the local base branch to origin afterwards (or RESET_LOCAL_MAIN=1)")
	shipCmd.Flags().BoolVar(&shipDryRun, "dry-run", false, "generate the texts but run no git command with side effects and no API call")
	rootCmd.AddCommand(shipCmd)
}

var shipCmd = &cobra.Command{
	Use:   "ship",
	Short: "Commit all changes with a generated message and open a pull request",
	Long: `Stage every change, let Gemini describe the diff and publish it.

ship asks Gemini for change-type labels, a commit message and a pull request
title, commits on a new <label>/auto-update-<unix time> branch, pushes it,
opens a pull request against --base and labels it.

Credentials are read from the environment or a .env file in the working
directory:
  GEMINI_API_KEY   always required
  GITHUB_TOKEN     required unless --no-pr, --no-push or --dry-run
  GITHUB_REPO      owner/name of the repository (default ProjectSaveGH/NoteManager)
  RESET_LOCAL_MAIN set to 1 to reset the local base branch afterwards

A failed pull request or label request is reported but the commit and push
are kept.`,
	Example: `  # Ship everything
  repokit ship

  # Commit and push without a pull request
  repokit ship --no-pr

  # Preview the generated texts
  repokit ship --dry-run`,
	Args: cobra.NoArgs,
	RunE: runShip,
}

func runShip(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	logger := logging.FromContext(ctx)
	dir, err := workDir()
	if err != nil {
		return err
	}

	env, err := ship.LoadEnv(dir, nil)
	if err != nil {
		return errors.NewUserError(err, "Fix the syntax of "+ship.DotEnvFile)
	}
	opts := ship.Options{
		Base:      shipBase,
		NoPush:    shipNoPush,
		NoPR:      shipNoPR,
		NoLabels:  shipNoLabels,
		ResetBase: shipResetMain || env.ResetLocalMain,
		DryRun:    shipDryRun,
	}

	// Setup errors are reported before anything touches the repository.
	if err := env.Validate(opts); err != nil {
		return errors.NewUserError(err, "Set it in the environment or in "+ship.DotEnvFile)
	}
	if err := git.ValidateRepository(dir); err != nil {
		return errors.NewUserError(err, "Run repokit ship inside a git working copy")
	}

	gen, err := ai.NewGemini(ctx, env.GeminiKey, ai.WithModel(shipModel))
	if err != nil {
		return errors.NewSystemError(err, "Check GEMINI_API_KEY")
	}

	var fg ship.Forge
	if env.GitHubToken != "" {
		fg = forge.New(env.GitHubToken, env.Repo)
	}

	out := newConsole(cmd)
	run := runner.New(runnerOptions(cmd, out, shipDryRun)...)
	s := ship.New(git.New(dir, run, git.WithLogger(logger)), gen, fg, opts,
		ship.WithConsole(out), ship.WithLogger(logger))

	res, err := s.Run(ctx)
	if errors.Is(err, ship.ErrNothingStaged) {
		return errors.NewUserError(err, "Make some changes first")
	}
	if err != nil {
		return err
	}

	if res.PRErr != nil || res.LabelErr != nil {
		var failed []string
		if res.PRErr != nil {
			failed = append(failed, "pull request")
		}
		if res.LabelErr != nil {
			failed = append(failed, "labels")
		}
		out.Warn("Shipped %s, but %s failed", res.Branch, strings.Join(failed, " and "))
	}
	return nil
}
