package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/backup"
	"github.com/thoreinstein/repokit/internal/errors"
)

var pruneKeep int

func init() {
	pruneCmd.Flags().IntVar(&pruneKeep, "keep", backup.DefaultRetentionCount,
		"Number of backups to retain")
	Cmd.AddCommand(pruneCmd)
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove old backups",
	Long: `Remove old backups beyond the retention count.

By default, keeps the 5 most recent backups and removes older archives
together with their checksum files.`,
	Example: `  # Keep the default (5) backups
  repokit backup prune

  # Keep only the 3 most recent backups
  repokit backup prune --keep 3

  # Remove all backups (keep 0)
  repokit backup prune --keep 0

  See Also:
    repokit backup list   - List available backups
    repokit backup create - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: runPrune,
}

func runPrune(cmd *cobra.Command, _ []string) error {
	if pruneKeep < 0 {
		return errors.NewUserError(errors.New("--keep must be non-negative"), "")
	}

	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}

	removed, err := e.manager.Prune(pruneKeep)
	if err != nil {
		return errors.Wrap(err, "pruning backups")
	}

	if len(removed) == 0 {
		e.console.Printf("No backups to prune")
		return nil
	}
	for _, a := range removed {
		e.console.Success("removed %s", a.ID)
	}
	e.console.Printf("\nTotal: removed %d backup(s)", len(removed))
	return nil
}
