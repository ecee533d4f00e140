// Package fileutil provides atomic writes and size-limited reads.
package fileutil

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/thoreinstein/repokit/internal/errors"
)

// TempPattern is the name pattern of in-flight temp files. They live next to
// the target so the final rename stays on one filesystem.
const TempPattern = ".repokit-*.tmp"

// AtomicWriteFunc streams content produced by write into path. The content
// goes to a temp file in the same directory which is renamed over path only
// after write, chmod and close all succeed. On any failure the temp file is
// removed and path is left untouched.
//
// The caller is responsible for ensuring the parent directory exists.
func AtomicWriteFunc(path string, perm os.FileMode, write func(w io.Writer) error) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), TempPattern)
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}

	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := write(tmp); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err := tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}

// AtomicWriteFile writes data to path atomically. See AtomicWriteFunc.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	return AtomicWriteFunc(path, perm, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
}

// AtomicWriteJSON writes v as 2-space indented JSON with a trailing newline.
// The file is created with 0600 permissions since configs may hold a password.
func AtomicWriteJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshaling JSON")
	}
	return AtomicWriteFile(path, append(data, '\n'), 0o600)
}
