package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestConsoleHandlerFormatsLine(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger = NewComponentLogger(logger, "analyzer")
	logger.Info("metric computed",
		Args(String(FieldFeature, "danceability"), Float64("ratio", 0.75))...)

	line := strings.TrimSpace(buf.String())
	if !strings.Contains(line, "INFO analyzer: metric computed") {
		t.Fatalf("unexpected console line: %q", line)
	}
	if !strings.Contains(line, "feature=danceability") {
		t.Fatalf("missing feature attr: %q", line)
	}
	if !strings.Contains(line, "ratio=0.75") {
		t.Fatalf("missing ratio attr: %q", line)
	}
}

func TestConsoleHandlerQuotesValuesWithSpaces(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Info("loaded", Args(String(FieldFile, "/music/happy song.mp3"))...)

	if !strings.Contains(buf.String(), `file="/music/happy song.mp3"`) {
		t.Fatalf("expected quoted file path, got %q", buf.String())
	}
}

func TestJSONHandlerRenamesKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.Error("inference failed", Args(Error(errors.New("boom")))...)

	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if payload["level"] != "error" {
		t.Fatalf("expected lowercase level, got %v", payload["level"])
	}
	if payload["msg"] != "inference failed" {
		t.Fatalf("unexpected msg: %v", payload["msg"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatalf("expected ts key in %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Info("should not panic")
	if logger.Enabled(t.Context(), 0) {
		t.Fatal("nop logger should report disabled")
	}
}
