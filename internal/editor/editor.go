// Package editor launches the user's preferred text editor.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"

	"mvdan.cc/sh/v3/shell"

	"github.com/thoreinstein/repokit/internal/errors"
)

// Open launches the user's preferred editor for path and waits for it to
// exit. The location is printed to w first.
//
// The editor value may carry arguments ("code --wait") and is split with
// shell quoting rules. Fallback chain: $EDITOR → $VISUAL → nano → vi.
func Open(ctx context.Context, w io.Writer, path string) error {
	argv, err := editorArgs(detectEditor())
	if err != nil {
		return err
	}

	if w != nil {
		if _, err := io.WriteString(w, "Location: "+path+"\n"); err != nil {
			return errors.Wrap(err, "writing location")
		}
	}

	// The editor needs the real terminal, so it is not run through a runner.
	cmd := exec.CommandContext(ctx, argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "running editor")
	}
	return nil
}

func editorArgs(value string) ([]string, error) {
	fields, err := shell.Fields(value, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing editor command %q", value)
	}
	if len(fields) == 0 {
		return nil, errors.Newf("empty editor command %q", value)
	}
	return fields, nil
}

// detectEditor returns the editor command to use based on environment variables
// and available binaries. Fallback chain: $EDITOR → $VISUAL → nano → vi
func detectEditor() string {
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}

	if visual := os.Getenv("VISUAL"); visual != "" {
		return visual
	}

	// nano is easier for beginners.
	if _, err := exec.LookPath("nano"); err == nil {
		return "nano"
	}

	return "vi"
}
