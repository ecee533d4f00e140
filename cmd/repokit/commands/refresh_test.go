package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/repokit/internal/errors"
)

func TestRefresh_NotARepository(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "refresh", "--yes", "--no-backup", "--dry-run")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotGitRepository))

	var exitErr *errors.ExitError
	require.True(t, errors.As(err, &exitErr))
	assert.Equal(t, errors.ExitUser, exitErr.Code)
	assert.NotEmpty(t, exitErr.Suggestion)
}

func TestRefresh_RejectsArguments(t *testing.T) {
	isolate(t)

	_, err := executeCommand(t, "refresh", "main")
	assert.Error(t, err)
}
