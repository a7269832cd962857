package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(&Config{Level: level, Format: "json"}, "test", buf)
}

func decodeLine(t *testing.T, line string) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid json line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "invalid-level")
	l.Debug("hidden")
	l.Info("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("invalid level should fall back to info")
	}
	if !strings.Contains(out, "shown") {
		t.Error("expected info message to be written")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info").WithComponent("scheduler")
	l.Info("tick")

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m[FieldComponent] != "scheduler" {
		t.Errorf("expected component=scheduler, got %v", m[FieldComponent])
	}
	if l.service != "test" {
		t.Errorf("service should be preserved, got %q", l.service)
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "info").
		WithFields(Fields(FieldRunID, "r-1")).
		WithError(errors.New("boom"))
	l.Warn("failed", Fields(FieldAction, "build"))

	m := decodeLine(t, strings.TrimSpace(buf.String()))
	if m[FieldRunID] != "r-1" {
		t.Errorf("expected run_id=r-1, got %v", m[FieldRunID])
	}
	if m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
	if m[FieldAction] != "build" {
		t.Errorf("expected action=build, got %v", m[FieldAction])
	}
	if m["level"] != "warn" {
		t.Errorf("expected level=warn, got %v", m["level"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")
	l.Debug("d")
	l.Info("i")
	l.Warn("w")
	l.Error("e")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines at warn level, got %d: %q", len(lines), buf.String())
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("discarded")
	if l.WithComponent("x") == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	var buf bytes.Buffer
	SetGlobalLogger(newJSONLogger(&buf, "debug"))
	Debug("d")
	Info("i")
	Warn("w")
	Error("e")
	WithComponent("c").Info("tagged")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	globalLogger = nil
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger")
	}
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: FormatConsole, NoColor: true}, "flow", &buf)
	l.Info("hello", Fields(FieldAction, "lint"))

	out := buf.String()
	if !strings.Contains(out, "[INF]") {
		t.Errorf("expected [INF] tag, got %q", out)
	}
	if !strings.Contains(out, "action:") || !strings.Contains(out, "lint") {
		t.Errorf("expected action field, got %q", out)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp=true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stdout"}, false},
		{"bad level", Config{Level: "loud", Format: "json", Output: "stdout"}, true},
		{"bad format", Config{Level: "info", Format: "xml", Output: "stdout"}, true},
		{"bad output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 entries, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestActionFields(t *testing.T) {
	m := ActionFields("build", "ok", 1500*time.Millisecond)
	if m[FieldAction] != "build" || m[FieldStatus] != "ok" {
		t.Errorf("unexpected fields: %v", m)
	}
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", m[FieldDuration])
	}
}

func TestErrorFieldsAndMerge(t *testing.T) {
	m := ErrorFields("load", errors.New("missing"))
	if m[FieldOperation] != "load" || m[FieldError] != "missing" {
		t.Errorf("unexpected fields: %v", m)
	}

	merged := MergeWithError(nil, errors.New("x"))
	if merged[FieldError] != "x" {
		t.Errorf("expected error field, got %v", merged)
	}
}
