package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   Debug,
		" WARN ":  Warn,
		"warning": Warn,
		"error":   Error,
		"":        Info,
		"verbose": Info,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestJSONLogger_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Info, Format: FormatJSON, App: "lawn", Output: &buf})

	log.Debug("hidden", nil)
	log.With(map[string]any{"request_id": "r-1"}).Warn("slow query", map[string]any{"ms": 250})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec["msg"] != "slow query" || rec["level"] != "WARN" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if rec["app"] != "lawn" || rec["request_id"] != "r-1" || rec["ms"] != float64(250) {
		t.Fatalf("missing fields: %v", rec)
	}
}

func TestTextLogger_SortedKeys(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: Debug, Output: &buf})
	log.Info("done", map[string]any{"b": 2, "a": 1})

	out := buf.String()
	if strings.Index(out, "a=1") > strings.Index(out, "b=2") {
		t.Fatalf("expected sorted keys, got %q", out)
	}
}
