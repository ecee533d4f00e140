package commands

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/repokit/internal/doctor"
	"github.com/thoreinstein/repokit/internal/errors"
)

func TestDoctor_NotARepository(t *testing.T) {
	isolate(t)

	out, err := executeCommand(t, "doctor")
	require.Error(t, err)

	var exitErr *errors.ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, errors.ExitSystem, exitErr.Code)
	assert.Contains(t, out, "git-repository")
	assert.Contains(t, out, "Summary:")
}

func TestDoctor_JSON(t *testing.T) {
	isolate(t)

	out, _, _ := executeSplit(t, "doctor", "--json")

	var report doctor.Report
	require.NoError(t, json.Unmarshal([]byte(out), &report), out)
	names := make([]string, len(report.Results))
	for i, r := range report.Results {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"git-repository", "git-binary", "protected-files", "config", "backup-permissions"}, names)
}

func TestDoctor_FixProtectedFiles(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".git"), 0o755))

	out, _ := executeCommand(t, "doctor", "--fix", "--all")

	gitignore, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err, out)
	assert.Contains(t, string(gitignore), ".env")
	assert.Contains(t, out, "fixed")
}

func TestDoctor_ExclusiveFlags(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "doctor", "--json", "--all")
	assert.Error(t, err)
}
