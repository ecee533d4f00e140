//go:build unix

package dump

import (
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTree_SkipsSpecialFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", []byte("package main\n"))
	require.NoError(t, syscall.Mkfifo(filepath.Join(root, "pipe"), 0o600))
	require.NoError(t, os.Symlink("main.go", filepath.Join(root, "link.go")))
	require.NoError(t, os.Symlink("missing", filepath.Join(root, "dangling")))

	tree, err := Tree(root, Options{})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"main.go": "package main\n",
		"link.go": "package main\n",
	}, tree)
}
