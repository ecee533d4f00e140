package logging

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var timeZero time.Time

type failingHandler struct{ slog.Handler }

func (failingHandler) Handle(context.Context, slog.Record) error { return errors.New("disk full") }

func TestMultiHandler_DispatchesByLevel(t *testing.T) {
	var console, file bytes.Buffer
	h := NewMultiHandler(
		NewHandler(&console, &slog.HandlerOptions{Level: slog.LevelWarn}),
		slog.NewJSONHandler(&file, &slog.HandlerOptions{Level: slog.LevelDebug}),
		nil,
	)
	logger := slog.New(h)

	logger.Debug("detail")
	logger.Warn("careful")

	if strings.Contains(console.String(), "detail") {
		t.Errorf("console should not receive debug records: %q", console.String())
	}
	if !strings.Contains(console.String(), "careful") {
		t.Errorf("console missing warn record: %q", console.String())
	}
	if !strings.Contains(file.String(), `"msg":"detail"`) || !strings.Contains(file.String(), `"msg":"careful"`) {
		t.Errorf("file handler should receive both records: %q", file.String())
	}
}

func TestMultiHandler_Enabled(t *testing.T) {
	h := NewMultiHandler(
		NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}),
		NewHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo}),
	)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("expected Info to be enabled by the second handler")
	}
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("expected Debug to be disabled")
	}
}

func TestMultiHandler_CollectsErrors(t *testing.T) {
	var buf bytes.Buffer
	ok := NewHandler(&buf, nil)
	h := NewMultiHandler(failingHandler{ok}, ok)

	err := slog.New(h).Handler().Handle(context.Background(), slog.NewRecord(timeZero, slog.LevelInfo, "hello", 0))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected collected error, got %v", err)
	}
	if !strings.Contains(buf.String(), "hello") {
		t.Error("healthy handler should still receive the record")
	}
}

func TestMultiHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewMultiHandler(NewHandler(&buf, nil))).WithGroup("refresh").With("branch", "main")

	logger.Info("synced")

	if !strings.Contains(buf.String(), "refresh.branch=main") {
		t.Errorf("expected grouped attr, got %q", buf.String())
	}
}
