package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/launcher"
	"github.com/thoreinstein/repokit/internal/runner"
)

// launcherExclude lists commands the launcher never offers.
var launcherExclude = []string{"run", "completion", "help"}

// runPicker is replaced in tests.
var runPicker launcher.Picker = launcher.FuzzyPicker{}

func init() {
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Pick a repokit command and its flags interactively",
	Long: `Show every repokit command in a fuzzy finder, then let you toggle its
boolean flags (Tab to select several) and run it.

Escape or Ctrl-C in either picker exits without running anything.`,
	Example: `  # Launch the picker
  repokit run`,
	Args: cobra.NoArgs,
	RunE: runLauncher,
}

func runLauncher(cmd *cobra.Command, _ []string) error {
	exe, err := os.Executable()
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "locating repokit executable"), "")
	}

	out := newConsole(cmd)
	out.Panel("repokit launcher")

	l := launcher.New(exe, runner.New(runnerOptions(cmd, out, false)...), runPicker)
	script, flags, err := l.Select(launcher.FromCommand(rootCmd, launcherExclude...))
	switch {
	case errors.Is(err, launcher.ErrAborted):
		out.Info("Aborted")
		return nil
	case errors.Is(err, launcher.ErrNoScripts):
		return errors.NewUserError(err, "")
	case err != nil:
		return err
	}

	out.Info("Running: %s", l.Command(script, flags))
	res := l.Launch(cmd.Context(), script, flags)
	if !res.OK() {
		code := res.ExitCode
		if code <= 0 {
			code = errors.ExitSystem
		}
		return errors.NewExitError(res.Err, code)
	}
	return nil
}
