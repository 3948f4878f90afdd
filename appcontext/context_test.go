package appcontext

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	LoggerFromContext(ctx).Info("hello")

	if !strings.Contains(buf.String(), "msg=hello") {
		t.Errorf("Expected the context logger to be used, got %q", buf.String())
	}
}

func TestLoggerFromContext_Default(t *testing.T) {
	if got := LoggerFromContext(context.Background()); got != slog.Default() {
		t.Errorf("Expected slog.Default(), got %v", got)
	}
}

func TestRunID(t *testing.T) {
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("Expected empty run ID, got %q", got)
	}

	ctx := WithRunID(context.Background(), "run-1")
	if got := RunIDFromContext(ctx); got != "run-1" {
		t.Errorf("Expected run-1, got %q", got)
	}
}
