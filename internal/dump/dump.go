// Package dump maps a directory tree to its file contents and encodes the
// mapping for pasting into other tools.
package dump

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/repokit/internal/errors"
	"github.com/thoreinstein/repokit/pkg/fileutil"
)

// DefaultSkip lists directory names that are never descended into.
var DefaultSkip = []string{"node_modules"}

// ErrInvalidUTF8 is reported for files that are not valid UTF-8 text.
var ErrInvalidUTF8 = errors.New("invalid UTF-8")

// Format selects the encoding produced by Encode.
type Format string

// Supported formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported formats, default first.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat validates a format name. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatJSON, nil
	}
	f := Format(strings.ToLower(s))
	if !slices.Contains(Formats, f) {
		return "", errors.Newf("unsupported format %q (want json, yaml or toml)", s)
	}
	return f, nil
}

// Options configures Tree.
type Options struct {
	// Skip lists directory names to prune anywhere in the tree. Nil means
	// DefaultSkip.
	Skip []string

	// Exclude lists slash-separated relative paths left out of the result,
	// such as the dump's own output file.
	Exclude []string
}

// Tree maps each regular file under root, keyed by its slash-separated
// relative path, to its contents. Files that cannot be read as UTF-8 text map to
// "<<Error reading file: ...>>" instead of failing the walk.
func Tree(root string, opts Options) (map[string]string, error) {
	skip := opts.Skip
	if skip == nil {
		skip = DefaultSkip
	}

	out := make(map[string]string)
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && slices.Contains(skip, d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}

		if !regular(path, d) {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if slices.Contains(opts.Exclude, rel) {
			return nil
		}

		out[rel] = readText(path)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "walking directory")
	}
	return out, nil
}

// regular reports whether d is a regular file or a symlink to one. FIFOs,
// sockets and devices would block or fail on open.
func regular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func readText(path string) string {
	data, err := fileutil.ReadFileWithLimit(path)
	if err == nil && !utf8.Valid(data) {
		err = ErrInvalidUTF8
	}
	if err != nil {
		return fmt.Sprintf("<<Error reading file: %v>>", err)
	}
	return string(data)
}

// Encode writes tree to w in the given format. Keys are sorted.
func Encode(w io.Writer, tree map[string]string, format Format) error {
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(tree), "encoding JSON")

	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(tree); err != nil {
			return errors.Wrap(err, "encoding YAML")
		}
		return errors.Wrap(enc.Close(), "encoding YAML")

	case FormatTOML:
		return errors.Wrap(toml.NewEncoder(w).Encode(tree), "encoding TOML")

	default:
		return errors.Newf("unsupported format %q", format)
	}
}

// String encodes tree and returns the result.
func String(tree map[string]string, format Format) (string, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, tree, format); err != nil {
		return "", err
	}
	return buf.String(), nil
}
