package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/backup"
	"github.com/thoreinstein/repokit/internal/errors"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	Cmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backups",
	Long: `List the backups in the backup directory, most recent first, with
their size and whether a checksum file exists.`,
	Example: `  # List backups
  repokit backup list

  # Output as JSON
  repokit backup list --json

  See Also:
    repokit backup create - Create a new backup`,
	Args: cobra.NoArgs,
	RunE: runList,
}

// infoOutput represents a single backup in JSON output.
type infoOutput struct {
	ID          string    `json:"id"`
	Archive     string    `json:"archive"`
	CreatedAt   time.Time `json:"created_at"`
	Size        int64     `json:"size"`
	SHA256      string    `json:"sha256,omitempty"`
	HasChecksum bool      `json:"has_checksum"`
}

func runList(cmd *cobra.Command, _ []string) error {
	e, err := newEnv(cmd, false)
	if err != nil {
		return err
	}

	arts, err := e.manager.List()
	if err != nil && !errors.Is(err, backup.ErrNoBackupsFound) {
		return errors.Wrap(err, "listing backups")
	}

	w := cmd.OutOrStdout()
	if listJSON {
		return outputListJSON(w, arts)
	}
	if len(arts) == 0 {
		fmt.Fprintf(w, "No backups found in %s\n", e.manager.OutputDir())
		return nil
	}
	outputListTabular(w, arts)
	return nil
}

func outputListJSON(w io.Writer, arts []backup.Artifact) error {
	out := make([]infoOutput, len(arts))
	for i, a := range arts {
		out[i] = infoOutput{
			ID:          a.ID,
			Archive:     a.ArchivePath,
			CreatedAt:   a.CreatedAt,
			Size:        a.Size,
			SHA256:      a.Hash,
			HasChecksum: a.HasChecksum,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(out), "encoding JSON")
}

func outputListTabular(w io.Writer, arts []backup.Artifact) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tSIZE\tCHECKSUM")
	for _, a := range arts {
		checksum := "missing"
		if a.HasChecksum {
			checksum = "present"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			a.ID, humanize.Time(a.CreatedAt), humanize.Bytes(uint64(max(a.Size, 0))), checksum)
	}
	_ = tw.Flush()
}
