package commands

import (
	"bytes"
	"context"
	"testing"

	"github.com/thoreinstein/repokit/internal/ai"
	"github.com/thoreinstein/repokit/internal/dump"
	"github.com/thoreinstein/repokit/internal/launcher"
	"github.com/thoreinstein/repokit/internal/ship"
)

// executeCommand runs the root command with args and returns everything
// written to stdout and stderr.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	stdout, stderr, err := executeSplit(t, args...)
	return stdout + stderr, err
}

// executeSplit runs the root command with args and returns stdout and
// stderr separately.
func executeSplit(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Cleanup(resetFlags)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// isolate changes into an empty directory with no user config.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("REPOKIT_CONFIG_DIR", t.TempDir())
	t.Setenv("REPOKIT_DRY_RUN", "")
	t.Setenv("REPOKIT_DEBUG", "")
	return dir
}

// resetFlags restores every package-level flag variable, since cobra keeps
// values between executions.
func resetFlags() {
	verbosity, quiet, logFormat, logFile, configPath = 0, false, "text", "", ""

	doctorJSON, doctorAll, doctorFix = false, false, false
	configInitForce, configInitUser = false, false

	refreshNoBackup, refreshNoHooks, refreshNoDeps, refreshDryRun = false, false, false, false
	refreshBranch, refreshYes = "", false

	dumpFormat, dumpSkip, dumpOutput, dumpCopy = string(dump.FormatJSON), dump.DefaultSkip, "", false

	shipNoPR, shipNoPush, shipNoLabels, shipResetMain, shipDryRun = false, false, false, false, false
	shipBase, shipModel = ship.DefaultBase, ai.DefaultModel

	runPicker = launcher.FuzzyPicker{}
}
