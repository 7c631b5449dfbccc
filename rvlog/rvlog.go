// Package rvlog wraps log/slog with a text handler that writes a
// timestamped, single-line record per event to one or more destinations,
// the way a long-running emulator run wants its log file to read.
package rvlog

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler is an slog.Handler that renders records as
// "<time> <level>: <message> <attrs...>" and, unless quiet, also mirrors
// warnings and above to stderr.
type Handler struct {
	out   io.Writer
	inner slog.Handler
	mu    *sync.Mutex
	quiet bool
}

// New builds a Handler writing to out at the given minimum level. When
// quiet is false, records at warning level and above are additionally
// written to the process's stderr; when quiet is true, records go to out
// only.
func New(out io.Writer, level slog.Level, quiet bool) *Handler {
	return &Handler{
		out: out,
		inner: slog.NewTextHandler(out, &slog.HandlerOptions{
			Level: level,
		}),
		mu:    &sync.Mutex{},
		quiet: quiet,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Handler{out: h.out, inner: h.inner.WithAttrs(attrs), mu: h.mu, quiet: h.quiet}
}

func (h *Handler) WithGroup(name string) slog.Handler {
	return &Handler{out: h.out, inner: h.inner.WithGroup(name), mu: h.mu, quiet: h.quiet}
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	parts := []string{
		r.Time.Format("2006-01-02 15:04:05"),
		r.Level.String() + ":",
		r.Message,
	}
	r.Attrs(func(a slog.Attr) bool {
		parts = append(parts, a.String())
		return true
	})
	line := strings.Join(parts, " ") + "\n"

	h.mu.Lock()
	defer h.mu.Unlock()

	var err error
	if h.out != nil {
		_, err = h.out.Write([]byte(line))
	}
	if !h.quiet && r.Level >= slog.LevelWarn {
		_, _ = os.Stderr.Write([]byte(line))
	}
	return err
}

// ParseLevel maps the CLI/config level names to slog.Level, defaulting to
// Info for anything unrecognized.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
