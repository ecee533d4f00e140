// Package ignore keeps protected files listed in a repository's .gitignore.
//
// Matching is by exact line, the way the entries are written. Patterns that
// would cover a file indirectly (for example "*.env") are not evaluated.
package ignore

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/internal/paths"
	"github.com/thoreinstein/repokit/pkg/fileutil"
)

// Entries returns the non-empty, trimmed lines of dir's .gitignore.
// A missing file yields no entries.
func Entries(dir string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(dir, paths.GitIgnoreFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading .gitignore")
	}
	var entries []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries, nil
}

// Missing returns the protected names that have no .gitignore entry, in the
// order given.
func Missing(dir string, protected []string) ([]string, error) {
	entries, err := Entries(dir)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, name := range protected {
		if !slices.Contains(entries, name) && !slices.Contains(missing, name) {
			missing = append(missing, name)
		}
	}
	return missing, nil
}

// Ensure appends every missing protected name to dir's .gitignore and
// returns the names added. With dryRun the file is left alone and the
// names that would be added are returned.
func Ensure(dir string, protected []string, dryRun bool) ([]string, error) {
	missing, err := Missing(dir, protected)
	if err != nil || len(missing) == 0 || dryRun {
		return missing, err
	}

	path := filepath.Join(dir, paths.GitIgnoreFile)
	perm := os.FileMode(0o644)
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if info, statErr := os.Stat(path); statErr == nil {
			perm = info.Mode().Perm()
		}
	case !os.IsNotExist(err):
		return nil, errors.Wrap(err, "reading .gitignore")
	}

	var buf bytes.Buffer
	buf.Write(existing)
	if len(existing) > 0 && existing[len(existing)-1] != '\n' {
		buf.WriteByte('\n')
	}
	for _, name := range missing {
		buf.WriteString(name)
		buf.WriteByte('\n')
	}
	if err := fileutil.AtomicWriteFile(path, buf.Bytes(), perm); err != nil {
		return nil, errors.Wrap(err, "updating .gitignore")
	}
	return missing, nil
}
