package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newBufferedLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := Config{
		Level:     slog.LevelDebug,
		Component: component,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	}
	return New(cfg), &buf
}

func TestComponentAttrOnEveryRecord(t *testing.T) {
	logger, buf := newBufferedLogger("storage")

	logger.Info("loaded", "rows", 3)
	logger.Error("save failed", "error", "disk full")

	out := buf.String()
	if strings.Count(out, "component=storage") != 2 {
		t.Fatalf("expected component attr on both records, got:\n%s", out)
	}
	if !strings.Contains(out, "rows=3") || !strings.Contains(out, "disk full") {
		t.Fatalf("missing record attrs:\n%s", out)
	}
}

func TestWithComponentOverrides(t *testing.T) {
	logger, buf := newBufferedLogger("app")

	worker := logger.WithComponent("worker")
	if worker.Component() != "worker" {
		t.Fatalf("Component() = %q, want worker", worker.Component())
	}
	worker.Info("tick")
	if !strings.Contains(buf.String(), "component=worker") {
		t.Fatalf("expected overridden component, got:\n%s", buf.String())
	}

	// The parent keeps its own component.
	if logger.Component() != "app" {
		t.Fatalf("parent component changed to %q", logger.Component())
	}
}
