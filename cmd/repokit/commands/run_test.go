package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/repokit/internal/launcher"
)

type abortingPicker struct {
	offered *[]launcher.Script
}

func (p abortingPicker) PickScript(scripts []launcher.Script) (launcher.Script, error) {
	*p.offered = scripts
	return launcher.Script{}, launcher.ErrAborted
}

func (abortingPicker) PickFlags(launcher.Script) ([]launcher.Flag, error) {
	return nil, launcher.ErrAborted
}

func TestRun_AbortIsNotAnError(t *testing.T) {
	isolate(t)

	var offered []launcher.Script
	runPicker = abortingPicker{offered: &offered}

	out, err := executeCommand(t, "run")
	require.NoError(t, err)
	assert.Contains(t, out, "Aborted")

	names := make([]string, 0, len(offered))
	for _, s := range offered {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "refresh")
	assert.Contains(t, names, "backup create")
	assert.Contains(t, names, "doctor")
	for _, excluded := range []string{"run", "help", "completion", "gen-doc"} {
		assert.NotContains(t, names, excluded)
	}
}

func TestRun_RefreshFlagsAreOffered(t *testing.T) {
	isolate(t)

	var offered []launcher.Script
	runPicker = abortingPicker{offered: &offered}

	_, err := executeCommand(t, "run")
	require.NoError(t, err)

	var refresh *launcher.Script
	for i := range offered {
		if offered[i].Name == "refresh" {
			refresh = &offered[i]
		}
	}
	require.NotNil(t, refresh)

	var flagNames []string
	for _, f := range refresh.Flags {
		flagNames = append(flagNames, f.Name)
	}
	assert.Contains(t, flagNames, "--no-backup")
	assert.Contains(t, flagNames, "--dry-run")
	assert.NotContains(t, flagNames, "--branch")
}
