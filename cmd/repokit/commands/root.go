// Package commands implements the CLI commands for repokit.
package commands

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/thoreinstein/repokit/cmd"
	"github.com/thoreinstein/repokit/cmd/repokit/commands/backup"
	"github.com/thoreinstein/repokit/cmd/repokit/commands/flags"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/logging"
)

// debugEnv raises verbosity when no -v flag is given: 1 or true for
// Debug, 2 for Trace.
const debugEnv = "REPOKIT_DEBUG"

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// configPath holds the value of the --config flag.
var configPath string

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output (alias: --silent)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default: ./refresh.config.json, then the user config)")
	rootCmd.SetGlobalNormalizationFunc(normalizeFlags)

	rootCmd.Version = cmd.Version
	rootCmd.SetVersionTemplate("repokit version {{.Version}}\n")

	// Silence errors and usage so main controls error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(backup.Cmd)
}

// normalizeFlags maps --silent onto --quiet.
func normalizeFlags(_ *pflag.FlagSet, name string) pflag.NormalizedName {
	if name == "silent" {
		name = "quiet"
	}
	return pflag.NormalizedName(name)
}

var rootCmd = &cobra.Command{
	Use:   "repokit",
	Short: "Personal repository automation",
	Long: `repokit bundles everyday repository chores into one CLI.

It refreshes a working copy (backup, branch sync, dependency install and
hooks), dumps a directory as a path to contents document, ships local
changes as an AI-described pull request and launches any of its own
commands from a fuzzy picker.

Configuration is read from refresh.config.json in the working directory,
falling back to the user config. Run 'repokit config init' to create one.`,
	Example: `  # Refresh the current repository
  repokit refresh

  # Preview a refresh without touching anything
  repokit refresh --dry-run

  # Ship staged changes as a labeled pull request
  repokit ship

  # Pick a command interactively
  repokit run

  See Also: repokit doctor, repokit config`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		flags.SetConfigPath(configPath)
		flags.SetQuiet(quiet)
		return setupLogging(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("conflicting flags"), "cannot use --quiet and --verbose together")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(debugEnv); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	format := logging.Format(logFormat)
	if format != logging.FormatText && format != logging.FormatJSON {
		return errors.NewUserError(errors.Newf("invalid log format %q", logFormat), "use --log-format text or json")
	}

	handlers := []slog.Handler{
		logging.New(logging.Config{Level: level, Format: format, Output: cmd.ErrOrStderr()}).Handler(),
	}

	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(err, "failed to open log file")
		}
		// File output uses JSON format
		handlers = append(handlers,
			logging.New(logging.Config{Level: level, Format: logging.FormatJSON, Output: f}).Handler())
	}

	var handler slog.Handler
	if len(handlers) > 1 {
		handler = logging.NewMultiHandler(handlers...)
	} else {
		handler = handlers[0]
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// Root returns the root command.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
