package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/kyleking/sql-advisor/internal/config"
	apperrors "github.com/kyleking/sql-advisor/internal/errors"
)

func newBufferLogger(level, format string) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := &Logger{
		level:  parseLogLevel(level),
		format: format,
		output: buf,
		fields: make(map[string]interface{}),
	}

	return logger, buf
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", DebugLevel},
		{"INFO", InfoLevel},
		{"warn", WarnLevel},
		{"warning", WarnLevel},
		{"error", ErrorLevel},
		{"bogus", InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.input); got != tt.expected {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger("warn", "text")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("low-severity messages should be filtered, got: %s", output)
	}

	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("expected warn and error messages, got: %s", output)
	}
}

func TestTextFormat(t *testing.T) {
	logger, buf := newBufferLogger("info", "text")

	logger.WithField("query_score", 75).Info("analysis complete")

	output := buf.String()
	if !strings.Contains(output, "INFO") {
		t.Errorf("expected level in output: %s", output)
	}

	if !strings.Contains(output, "analysis complete") {
		t.Errorf("expected message in output: %s", output)
	}

	if !strings.Contains(output, "query_score=75") {
		t.Errorf("expected field in output: %s", output)
	}
}

func TestJSONFormat(t *testing.T) {
	logger, buf := newBufferLogger("info", "json")

	logger.WithError(errors.New("request timed out")).Error("generation failed")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if entry.Level != "ERROR" {
		t.Errorf("expected ERROR level, got %s", entry.Level)
	}

	if entry.Message != "generation failed" {
		t.Errorf("expected message, got %s", entry.Message)
	}

	if entry.Fields["error"] != "request timed out" {
		t.Errorf("expected error field, got %v", entry.Fields)
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	logger, _ := newBufferLogger("info", "text")

	child := logger.WithField("command", "analyze")
	if len(logger.fields) != 0 {
		t.Errorf("parent logger fields mutated: %v", logger.fields)
	}

	if child.fields["command"] != "analyze" {
		t.Errorf("child logger missing field: %v", child.fields)
	}
}

func TestNewLoggerInvalidOutput(t *testing.T) {
	_, err := NewLogger(config.LoggingConfig{Level: "info", Format: "text", Output: "syslog"})
	if err == nil {
		t.Error("expected error for invalid output")
	}
}

func TestErrorWithErr(t *testing.T) {
	logger, buf := newBufferLogger("info", "text")

	logger.ErrorWithErr("history write failed", errors.New("disk full"))

	output := buf.String()
	if !strings.Contains(output, "history write failed") || !strings.Contains(output, "disk full") {
		t.Errorf("expected message and error in output: %s", output)
	}
}

func TestGetLoggerUninitialized(t *testing.T) {
	saved := globalLogger
	globalLogger = nil

	t.Cleanup(func() { globalLogger = saved })

	logger := GetLogger()
	if logger == nil {
		t.Fatal("expected a usable logger before initialization")
	}

	// Chained calls must work straight away.
	if logger.WithField("component", "test") == nil {
		t.Error("WithField on the fallback logger returned nil")
	}
}

func TestWithErrorTypedField(t *testing.T) {
	logger, buf := newBufferLogger("info", "json")

	typed := apperrors.New(apperrors.ErrTypeStorage, "database locked")
	logger.WithError(typed).Error("history write failed")

	var entry LogEntry
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if entry.Fields["error_type"] != "storage" {
		t.Errorf("expected error_type field, got %v", entry.Fields)
	}

	// Plain errors carry no category.
	buf.Reset()
	logger.WithError(errors.New("plain failure")).Error("something broke")

	var plain LogEntry
	if err := json.Unmarshal(buf.Bytes(), &plain); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if _, ok := plain.Fields["error_type"]; ok {
		t.Errorf("plain errors should not carry error_type, got %v", plain.Fields)
	}
}
