package runner

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/repokit/internal/console"
	"github.com/thoreinstein/repokit/internal/logging"
)

func newTestShell(t *testing.T, opts ...Option) (*Shell, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	opts = append([]Option{WithLogger(logging.ForTest(t)), WithOutput(&out, &out)}, opts...)
	return NewShell(opts...), &out
}

func TestShell_Echo(t *testing.T) {
	sh, streamed := newTestShell(t)

	res := sh.Run(context.Background(), "echo hello && echo world", t.TempDir())

	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}
	if res.Stdout != "hello\nworld\n" {
		t.Errorf("Stdout = %q", res.Stdout)
	}
	if streamed.String() != res.Stdout {
		t.Errorf("streamed %q, captured %q", streamed.String(), res.Stdout)
	}
}

func TestShell_ExitStatus(t *testing.T) {
	sh, _ := newTestShell(t)

	res := sh.Run(context.Background(), "exit 3", t.TempDir())

	if res.OK() {
		t.Fatal("expected failure")
	}
	if res.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", res.ExitCode)
	}
}

func TestShell_ParseError(t *testing.T) {
	sh, _ := newTestShell(t)

	res := sh.Run(context.Background(), "if then fi (", t.TempDir())

	if res.OK() {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(res.Err.Error(), "parsing") {
		t.Errorf("error = %v", res.Err)
	}
}

func TestShell_RunsInDir(t *testing.T) {
	dir := t.TempDir()
	sh, _ := newTestShell(t)

	res := sh.Run(context.Background(), "echo built > marker.txt", dir)

	if !res.OK() {
		t.Fatalf("Run() error = %v", res.Err)
	}
	data, err := os.ReadFile(filepath.Join(dir, "marker.txt"))
	if err != nil {
		t.Fatalf("hook did not write in dir: %v", err)
	}
	if string(data) != "built\n" {
		t.Errorf("marker = %q", data)
	}
}

func TestShell_DryRun(t *testing.T) {
	dir := t.TempDir()
	var announced bytes.Buffer
	sh, _ := newTestShell(t, WithDryRun(true), WithConsole(console.New(&announced, false)))

	res := sh.Run(context.Background(), "touch should-not-exist", dir)

	if !res.Skipped {
		t.Error("expected skipped result")
	}
	if _, err := os.Stat(filepath.Join(dir, "should-not-exist")); !os.IsNotExist(err) {
		t.Error("dry-run executed the command")
	}
	if !strings.Contains(announced.String(), "[dry-run] touch should-not-exist") {
		t.Errorf("announcement = %q", announced.String())
	}
}
