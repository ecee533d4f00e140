package runnertest

import (
	"context"
	"testing"

	"github.com/thoreinstein/repokit/internal/runner"
)

func TestRecorder(t *testing.T) {
	rec := New().
		Stdout("git rev-parse --abbrev-ref HEAD", "develop\n").
		Fail("git gc", 1, "gc failed")
	ctx := context.Background()

	got := rec.Run(ctx, runner.Cmd("git", "rev-parse", "--abbrev-ref", "HEAD"))
	if got.Output() != "develop" {
		t.Errorf("Output() = %q, want develop", got.Output())
	}

	gc := rec.Run(ctx, runner.Cmd("git", "gc"))
	if gc.OK() || gc.ExitCode != 1 || gc.Stderr != "gc failed" {
		t.Errorf("scripted failure not returned: %+v", gc)
	}

	other := rec.Run(ctx, runner.Cmd("npm", "ci"))
	if !other.OK() || other.Command != "npm ci" {
		t.Errorf("unscripted command should succeed: %+v", other)
	}

	want := []string{"git rev-parse --abbrev-ref HEAD", "git gc", "npm ci"}
	lines := rec.Lines()
	if len(lines) != len(want) {
		t.Fatalf("Lines() = %v, want %v", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("Lines()[%d] = %q, want %q", i, lines[i], want[i])
		}
	}
}
