package commands

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/config"
	"github.com/thoreinstein/repokit/internal/console"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/runner"
)

// loadConfig loads the configuration selected by --config and logs every
// warning. It never fails.
func loadConfig(ctx context.Context) (config.Config, config.Report) {
	cfg, report := config.Load(config.LoadOptions{Path: configPath})
	logger := logging.FromContext(ctx)
	for _, w := range report.Warnings {
		if w.Key != "" {
			logger.Warn(w.Message, "key", w.Key)
		} else {
			logger.Warn(w.Message)
		}
	}
	return cfg, report
}

// newConsole returns a printer on the command's stdout honoring --quiet.
func newConsole(cmd *cobra.Command) *console.Printer {
	return console.New(cmd.OutOrStdout(), quiet)
}

// runnerOptions wires the command runner to the command's logger and
// output streams.
func runnerOptions(cmd *cobra.Command, out *console.Printer, dryRun bool) []runner.Option {
	return []runner.Option{
		runner.WithDryRun(dryRun),
		runner.WithLogger(logging.FromContext(cmd.Context())),
		runner.WithConsole(out),
		runner.WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr()),
	}
}

// workDir returns the directory commands operate on.
func workDir() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.NewSystemError(errors.Wrap(err, "getting working directory"), "")
	}
	return dir, nil
}
