package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/errors"
)

var createDryRun bool

func init() {
	createCmd.Flags().BoolVar(&createDryRun, "dry-run", false, "list what would be archived without writing anything")
	Cmd.AddCommand(createCmd)
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a backup of the project",
	Long: `Archive every regular file under the working directory, except those
matching exclude_from_backup and the backup directory itself, and write a
SHA-256 checksum next to the archive.`,
	Example: `  # Create a backup
  repokit backup create

  # See which files would be archived
  repokit backup create --dry-run

  See Also:
    repokit backup list   - List available backups
    repokit backup verify - Check archive checksums`,
	Args: cobra.NoArgs,
	RunE: runCreate,
}

func runCreate(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd, createDryRun)
	if err != nil {
		return err
	}

	art, err := e.manager.Create(cmd.Context())
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "creating backup"), "")
	}

	if art.Planned {
		e.console.Printf("[dry-run] would archive %d files into %s", len(art.Members), art.ArchivePath)
		for _, m := range art.Members {
			e.console.Printf("  %s", m)
		}
		return nil
	}

	e.console.Success("Backup completed: %s (%d files)", art.ArchivePath, len(art.Members))
	e.console.Info("SHA-256 %s stored in %s", art.Hash, art.HashPath)
	return nil
}
