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

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"DEBUG", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"Warn", slog.LevelWarn, true},
		{"WARNING", slog.LevelWarn, true},
		{" error ", slog.LevelError, true},
		{"", slog.LevelInfo, false},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestNewLogger_Env(t *testing.T) {
	t.Setenv(EnvLevel, "debug")
	l := NewLogger()
	if !l.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug not enabled with PARTSIM_LOG_LEVEL=debug")
	}

	t.Setenv(EnvLevel, "")
	l = NewLogger()
	if l.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info enabled without PARTSIM_LOG_LEVEL")
	}
}

func TestLogger_RunID(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: slog.LevelDebug, JSON: true})

	ctx := WithRunID(context.Background(), "run-42")
	l.Error(ctx, "step failed", errors.New("boom"), "step", 7)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, buf.String())
	}
	if rec["run_id"] != "run-42" {
		t.Errorf("run_id = %v", rec["run_id"])
	}
	if rec["error"] != "boom" {
		t.Errorf("error = %v", rec["error"])
	}
	if rec["msg"] != "step failed" {
		t.Errorf("msg = %v", rec["msg"])
	}
}

func TestWithRunID_Generates(t *testing.T) {
	a := RunID(WithRunID(context.Background(), ""))
	b := RunID(WithRunID(context.Background(), ""))
	if len(a) != 16 || len(b) != 16 {
		t.Errorf("generated ids %q %q, want 16 hex chars", a, b)
	}
	if a == b {
		t.Error("generated duplicate run ids")
	}
	if RunID(context.Background()) != "" {
		t.Error("RunID on bare context should be empty")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(context.Background(), slog.LevelError) {
		t.Error("Discard logger accepts errors")
	}
}

func TestLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, Options{Level: slog.LevelInfo}).With("scenario", "ballistic")
	l.Debug(context.Background(), "hidden")
	l.Info(context.Background(), "spawned", "count", 3)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("debug record written at info level")
	}
	if !strings.Contains(out, "scenario=ballistic") || !strings.Contains(out, "count=3") {
		t.Errorf("unexpected output %q", out)
	}
}
