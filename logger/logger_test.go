package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Errorf("parseLevel(%q) = %v, expected %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", "json")

	log.Debug("hidden")
	log.Info("Restoration complete", "days", 12)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("Expected 1 line (debug filtered), got %d: %q", len(lines), buf.String())
	}

	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("Expected JSON record, got %v", err)
	}
	if rec["msg"] != "Restoration complete" {
		t.Errorf("Expected msg 'Restoration complete', got %v", rec["msg"])
	}
	if rec["days"] != float64(12) {
		t.Errorf("Expected days 12, got %v", rec["days"])
	}
}

func TestNew_TextFormatDebug(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "debug", "text")
	log.Debug("Repair", "class", "transmission")

	if !strings.Contains(buf.String(), "level=DEBUG") || !strings.Contains(buf.String(), "class=transmission") {
		t.Errorf("Expected text debug record, got %q", buf.String())
	}
}
