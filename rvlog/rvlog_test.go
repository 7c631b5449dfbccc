package rvlog

import (
	"bytes"
	"log/slog"
	"testing"
)

func TestHandlerWritesLineToOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf, slog.LevelInfo, true))
	logger.Info("fetch fault", "pc", "0x80000000")

	out := buf.String()
	if !bytes.Contains([]byte(out), []byte("fetch fault")) {
		t.Fatalf("output %q missing message", out)
	}
	if !bytes.Contains([]byte(out), []byte("pc=0x80000000")) {
		t.Fatalf("output %q missing attr", out)
	}
}

func TestHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(New(&buf, slog.LevelWarn, true))
	logger.Info("should be filtered")
	logger.Warn("should appear")

	out := buf.String()
	if bytes.Contains([]byte(out), []byte("should be filtered")) {
		t.Fatalf("level filtering failed: %q", out)
	}
	if !bytes.Contains([]byte(out), []byte("should appear")) {
		t.Fatalf("expected warn message in output: %q", out)
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for name, want := range cases {
		if got := ParseLevel(name); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", name, got, want)
		}
	}
}
