// Package log provides helpers for creating a configured slog.Logger and a
// throttle for high-frequency decode-path warnings.
package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/time/rate"
)

// LevelTrace defines a custom slog level below Debug for per-frame output.
const LevelTrace slog.Level = -8

func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a text-handler slog.Logger at the given level. A nil writer
// logs to stderr.
func New(w io.Writer, level string) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)}))
}

// Discard returns a logger that drops everything; used as the default when
// the embedding application does not supply one.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(127)}))
}

// Throttle rate-limits a log callsite that can fire per input frame, so a
// misbehaving transport cannot flood the log. The first burst always passes,
// then at most one record per interval.
type Throttle struct {
	s rate.Sometimes
}

func NewThrottle(first int, interval time.Duration) *Throttle {
	return &Throttle{s: rate.Sometimes{First: first, Interval: interval}}
}

func (t *Throttle) Do(f func()) { t.s.Do(f) }
