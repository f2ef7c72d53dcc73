package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
)

func newConsoleLogger(buf *bytes.Buffer, level string) *slog.Logger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(level))
	return slog.New(newPrettyHandler(buf, levelVar, false))
}

func TestConsoleHandlerRendersComponentPrefix(t *testing.T) {
	var buf bytes.Buffer
	logger := NewComponentLogger(newConsoleLogger(&buf, "info"), "contentcache")

	logger.Info("loaded content cache", Int("entry_count", 3))

	out := buf.String()
	if !strings.Contains(out, "INFO contentcache: loaded content cache") {
		t.Fatalf("unexpected output: %q", out)
	}
	if !strings.Contains(out, "entry_count=3") {
		t.Fatalf("expected kv rendering, got %q", out)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger := newConsoleLogger(&buf, "info")

	logger.Info("message", String("title", "Iron Chests"))

	if !strings.Contains(buf.String(), `title="Iron Chests"`) {
		t.Fatalf("expected quoted value, got %q", buf.String())
	}
}

func TestConsoleHandlerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newConsoleLogger(&buf, "warn")

	logger.Info("should be dropped")
	logger.Warn("should appear")

	out := buf.String()
	if strings.Contains(out, "should be dropped") {
		t.Fatalf("info record leaked through warn level: %q", out)
	}
	if !strings.Contains(out, "should appear") {
		t.Fatalf("warn record missing: %q", out)
	}
}

func TestConsoleHandlerFlattensGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := newConsoleLogger(&buf, "info")

	logger.WithGroup("catalog").Info("search", String("platform", "modrinth"))

	if !strings.Contains(buf.String(), "catalog.platform=modrinth") {
		t.Fatalf("expected dotted group key, got %q", buf.String())
	}
}

func TestJSONHandlerEmitsRenamedCoreFields(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelInfo)
	logger := slog.New(newJSONHandler(&buf, levelVar, false))

	logger.Info("identified content", String("slug", "sodium"))

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, buf.String())
	}
	if payload["msg"] != "identified content" {
		t.Fatalf("unexpected msg field: %v", payload["msg"])
	}
	if payload["level"] != "info" {
		t.Fatalf("unexpected level field: %v", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatal("expected ts field")
	}
	if payload["slug"] != "sodium" {
		t.Fatalf("unexpected slug field: %v", payload["slug"])
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger := newConsoleLogger(&buf, "info")

	WarnWithContext(logger, "cache load failed", "cache_load_failed", Error(errors.New("boom")))

	out := buf.String()
	for _, needle := range []string{"event_type=cache_load_failed", "error_hint=", "impact=", "error=boom"} {
		if !strings.Contains(out, needle) {
			t.Fatalf("expected %q in output, got %q", needle, out)
		}
	}
}

func TestNoopHandlerDiscardsEverything(t *testing.T) {
	logger := NewNop()
	if logger.Enabled(context.Background(), slog.LevelError) {
		t.Fatal("noop logger must report disabled")
	}
	// Must not panic.
	logger.Error("dropped", Error(errors.New("x")))
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
