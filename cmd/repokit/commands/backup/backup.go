// Package backup provides CLI commands for managing project backups.
package backup

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/cmd/repokit/commands/flags"
	"github.com/thoreinstein/repokit/internal/backup"
	"github.com/thoreinstein/repokit/internal/config"
	"github.com/thoreinstein/repokit/internal/console"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/logging"
	"github.com/thoreinstein/repokit/internal/paths"
)

// outputDir holds the value of the --dir flag.
var outputDir string

func init() {
	Cmd.PersistentFlags().StringVar(&outputDir, "dir", paths.BackupDir,
		"backup directory, relative to the project root")
}

// Cmd is the root backup command.
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Manage project backups",
	Long: `Manage the zip backups refresh takes before syncing.

Each backup is an archive backup_<timestamp>.zip with a SHA-256 sidecar
<timestamp>.hash in .backup/ under the project root. When
backup_password is configured the entries are AES-256 encrypted.`,
	Example: `  # Create a backup now
  repokit backup create

  # List backups, newest first
  repokit backup list

  # Check every archive against its checksum
  repokit backup verify

  # Remove old backups, keeping the 3 most recent
  repokit backup prune --keep 3

  See Also:
    repokit refresh - Backs up before syncing`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

// env is what every backup subcommand needs.
type env struct {
	cfg     config.Config
	manager *backup.Manager
	console *console.Printer
}

// newEnv loads the configuration and builds a manager for the working
// directory.
func newEnv(cmd *cobra.Command, dryRun bool) (*env, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "getting working directory")
	}

	logger := logging.FromContext(cmd.Context())
	cfg, report := config.Load(config.LoadOptions{Path: flags.ConfigPath()})
	for _, w := range report.Warnings {
		logger.Warn(w.Message)
	}

	opts := []backup.Option{
		backup.WithOutputDir(outputDir),
		backup.WithExcludes(cfg.ExcludeFromBackup()),
		backup.WithDryRun(dryRun || cfg.DryRun()),
		backup.WithLogger(logger),
	}
	if pw, ok := cfg.BackupPassword(); ok {
		opts = append(opts, backup.WithPassword(pw))
	}

	return &env{
		cfg:     cfg,
		manager: backup.NewManager(dir, opts...),
		console: console.New(cmd.OutOrStdout(), flags.Quiet()),
	}, nil
}
