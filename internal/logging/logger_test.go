package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestConsoleHandlerPrefixesComponentAndFormatsFields(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "console", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	NewComponentLogger(logger, "router").Info("copied image",
		Args(Int(FieldRow, 3), String(FieldLocation, "cam a/img1.jpg"))...)

	line := buf.String()
	if !strings.Contains(line, "INFO  router: copied image") {
		t.Fatalf("missing header in %q", line)
	}
	if !strings.Contains(line, "row=3") {
		t.Fatalf("missing row field in %q", line)
	}
	if !strings.Contains(line, `location="cam a/img1.jpg"`) {
		t.Fatalf("expected quoted location in %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should render as prefix only: %q", line)
	}
	if strings.Contains(line, "\x1b[") {
		t.Fatalf("unexpected colour codes: %q", line)
	}
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("hidden")
	logger.Warn("shown", Args(Error(errors.New("boom")))...)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info line should be filtered: %q", out)
	}
	if !strings.Contains(out, `error="boom"`) {
		t.Fatalf("expected error field in %q", out)
	}
}

func TestJSONHandlerRenamesStandardKeys(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.With(String(FieldRunID, "abc")).Info("loaded predictions", Args(
		Int("rows", 12),
		Int64("bytes", 4096),
		Float64("prob_threshold", 0.25),
	)...)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if entry["level"] != "info" || entry["msg"] != "loaded predictions" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if _, ok := entry["ts"]; !ok {
		t.Fatalf("missing ts key: %v", entry)
	}
	if entry[FieldRunID] != "abc" || entry["rows"] != float64(12) ||
		entry["bytes"] != float64(4096) || entry["prob_threshold"] != 0.25 {
		t.Fatalf("missing attributes: %v", entry)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
