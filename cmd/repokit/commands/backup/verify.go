package backup

import (
	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/backup"
	"github.com/thoreinstein/repokit/internal/errors"
)

var verifyMembers bool

func init() {
	verifyCmd.Flags().BoolVar(&verifyMembers, "members", false,
		"also open each archive and list its entries (uses backup_password)")
	Cmd.AddCommand(verifyCmd)
}

var verifyCmd = &cobra.Command{
	Use:   "verify [id...]",
	Short: "Check backups against their checksums",
	Long: `Recompute the SHA-256 of each archive and compare it with its .hash
file. Without arguments every backup is verified.

With --members each archive is also opened; encrypted entries are fully
decrypted with the configured backup_password.`,
	Example: `  # Verify all backups
  repokit backup verify

  # Verify one backup and list its files
  repokit backup verify 2024-05-01T09-30-00 --members`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}

	ids := args
	if len(ids) == 0 {
		arts, err := e.manager.List()
		if err != nil {
			if errors.Is(err, backup.ErrNoBackupsFound) {
				e.console.Info("No backups to verify")
				return nil
			}
			return errors.Wrap(err, "listing backups")
		}
		for _, a := range arts {
			ids = append(ids, a.ID)
		}
	}

	password, _ := e.cfg.BackupPassword()
	failed := 0
	for _, id := range ids {
		if err := e.manager.Verify(id); err != nil {
			e.console.Error("%s: %v", id, err)
			failed++
			continue
		}
		e.console.Success("%s: checksum OK", id)

		if !verifyMembers {
			continue
		}
		members, err := e.manager.Members(id, password)
		if err != nil {
			e.console.Error("%s: %v", id, err)
			failed++
			continue
		}
		for _, m := range members {
			e.console.Printf("  %s", m)
		}
	}

	if failed > 0 {
		return errors.NewSystemError(errors.Newf("%d of %d backup(s) failed verification", failed, len(ids)), "")
	}
	return nil
}
