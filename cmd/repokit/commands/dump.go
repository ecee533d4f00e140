package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/repokit/internal/dump"
	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/pkg/fileutil"
)

var (
	dumpFormat string
	dumpSkip   []string
	dumpOutput string
	dumpCopy   bool
)

// writeClipboard is replaced in tests.
var writeClipboard = clipboard.WriteAll

func init() {
	dumpCmd.Flags().StringVarP(&dumpFormat, "format", "f", string(dump.FormatJSON), "output format: json, yaml, toml")
	dumpCmd.Flags().StringSliceVar(&dumpSkip, "skip", dump.DefaultSkip, "directory names to skip anywhere in the tree")
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "write the dump to a file instead of stdout")
	dumpCmd.Flags().BoolVarP(&dumpCopy, "copy", "c", false, "copy the dump to the clipboard")
	rootCmd.AddCommand(dumpCmd)
}

var dumpCmd = &cobra.Command{
	Use:   "dump [dir]",
	Short: "Dump a directory as a path to contents document",
	Long: `Walk a directory and print every file as a mapping from its relative
path to its contents. node_modules is skipped by default. Files that are
not readable UTF-8 text map to an "<<Error reading file: ...>>" marker.

The document can be printed, written to a file or copied to the clipboard,
which is handy for pasting a small project into a chat.`,
	Example: `  # Print the current directory as JSON
  repokit dump

  # Copy a project to the clipboard as YAML
  repokit dump ./app --format yaml --copy

  # Write a TOML dump, skipping vendored code
  repokit dump -o dump.toml -f toml --skip node_modules,vendor`,
	Args: cobra.MaximumNArgs(1),
	RunE: runDump,
}

func runDump(cmd *cobra.Command, args []string) error {
	format, err := dump.ParseFormat(dumpFormat)
	if err != nil {
		return errors.NewUserError(err, "use --format json, yaml or toml")
	}

	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	opts := dump.Options{Skip: dumpSkip}
	if dumpOutput != "" {
		if rel, ok := relativeTo(root, dumpOutput); ok {
			opts.Exclude = []string{rel}
		}
	}

	tree, err := dump.Tree(root, opts)
	if err != nil {
		return errors.Wrapf(err, "dumping %s", root)
	}

	text, err := dump.String(tree, format)
	if err != nil {
		return err
	}

	out := newConsole(cmd)
	switch {
	case dumpOutput != "":
		if err := fileutil.AtomicWriteFile(dumpOutput, []byte(text), 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", dumpOutput)
		}
		out.Success("Dumped %d files to %s", len(tree), dumpOutput)
	case dumpCopy:
		if err := writeClipboard(text); err != nil {
			return errors.NewSystemError(errors.Wrap(err, "copying to clipboard"),
				"Use --output to write the dump to a file instead")
		}
		out.Success("Copied %d files to the clipboard (without %v)", len(tree), dumpSkip)
	default:
		if _, err := fmt.Fprint(cmd.OutOrStdout(), text); err != nil {
			return errors.Wrap(err, "writing dump")
		}
	}
	return nil
}

// relativeTo returns path relative to root in slash form when it lies
// inside root.
func relativeTo(root, path string) (string, bool) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
