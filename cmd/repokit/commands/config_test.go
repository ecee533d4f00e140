package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/repokit/internal/config"
	"github.com/thoreinstein/repokit/internal/errors"
)

func TestConfigInit_WritesDefaults(t *testing.T) {
	dir := isolate(t)

	out, err := executeCommand(t, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote")

	data, err := os.ReadFile(filepath.Join(dir, "refresh.config.json"))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	for _, key := range config.Keys {
		assert.Contains(t, doc, key)
	}

	_, report := config.Load(config.LoadOptions{Dir: dir})
	assert.Empty(t, report.Warnings, "a freshly written config loads cleanly")
}

func TestConfigInit_RefusesOverwrite(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "refresh.config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"dry_run": true}`), 0o600))

	_, err := executeCommand(t, "config", "init")
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrConfigExists)

	data, _ := os.ReadFile(path)
	assert.Equal(t, `{"dry_run": true}`, string(data))

	_, err = executeCommand(t, "config", "init", "--force")
	require.NoError(t, err)
}

func TestConfigShow_MasksPassword(t *testing.T) {
	dir := isolate(t)
	doc := `{"exclude_from_backup":["backup"],"protected_files":[".env"],` +
		`"hooks":{"pre_update":[],"post_update":[]},"dry_run":false,"backup_password":"correct horse battery"}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "refresh.config.json"), []byte(doc), 0o600))

	out, _, err := executeSplit(t, "config", "show")
	require.NoError(t, err)

	assert.NotContains(t, out, "correct horse battery")
	assert.Contains(t, out, "source: "+filepath.Join(".", "refresh.config.json"))
}

func TestConfigShow_ReportsWarnings(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "refresh.config.json"), []byte(`{"dry_rnu": true}`), 0o600))

	out, _, err := executeSplit(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dry_run")
	assert.True(t, strings.Contains(out, "warning:"), out)
}

func TestConfigEdit_NoFile(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "config", "edit")
	var exitErr *errors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Contains(t, exitErr.Suggestion, "config init")
}
