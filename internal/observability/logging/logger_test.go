package logging_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"techwatch/internal/observability/logging"
)

func TestWithRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WithRunID(logger, "run-42").Info("hello")

	if !strings.Contains(buf.String(), `"run_id":"run-42"`) {
		t.Errorf("log output missing run_id field: %s", buf.String())
	}
}

func TestWithRunIDEmpty(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	logging.WithRunID(logger, "").Info("hello")

	if strings.Contains(buf.String(), "run_id") {
		t.Errorf("empty run ID should not add a field: %s", buf.String())
	}
}

func TestContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil)).With("component", "test")

	ctx := logging.WithLogger(context.Background(), logger)
	got := logging.FromContext(ctx)

	got.Info("from context")
	if !strings.Contains(buf.String(), `"component":"test"`) {
		t.Errorf("logger did not round-trip through context: %s", buf.String())
	}
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	if logging.FromContext(context.Background()) == nil {
		t.Fatal("FromContext returned nil for empty context")
	}
}
