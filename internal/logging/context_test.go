package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Output: &buf})

	ctx := NewContext(context.Background(), logger)
	FromContext(ctx).Info("from context")

	if !strings.Contains(buf.String(), "from context") {
		t.Errorf("expected message through context logger, got: %q", buf.String())
	}
}

func TestFromContext_FallsBackToDefault(t *testing.T) {
	if FromContext(context.Background()) != slog.Default() {
		t.Error("expected slog.Default() when context carries no logger")
	}
	//nolint:staticcheck // exercising the nil guard
	if FromContext(nil) != slog.Default() {
		t.Error("expected slog.Default() for nil context")
	}
}

func TestNew_JSONRedactsSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})

	logger.Info("pr created", "github_token", "ghp_abcdefgh1234", "repo", "acme/app")

	out := buf.String()
	if strings.Contains(out, "ghp_abcdefgh1234") {
		t.Errorf("token leaked into JSON output: %q", out)
	}
	if !strings.Contains(out, `"github_token":"****1234"`) {
		t.Errorf("expected masked token, got %q", out)
	}
	if !strings.Contains(out, `"repo":"acme/app"`) {
		t.Errorf("non-secret attr should pass through, got %q", out)
	}
}
