// Package logging sets up the process logger. It is initialized once by the
// entry point and passed explicitly to the components that log; there is no
// package-level logger.
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

// TimeFormat is the timestamp layout of the text format.
const TimeFormat = "2006-01-02 15:04:05.000"

// Config selects level, format and destination.
type Config struct {
	Level  string `json:"level"`  // trace, debug, info, warn, error
	Format string `json:"format"` // text or json
	File   string `json:"file"`   // empty for stderr
}

// DefaultConfig logs everything down to trace, as text, to stderr.
func DefaultConfig() Config {
	return Config{Level: "trace", Format: "text"}
}

// LevelTrace sits below slog.LevelDebug.
const LevelTrace = slog.Level(-8)

var ErrUnknownLevel = errors.New("logging: unknown level")

// Logger owns the process logger and its output.
type Logger struct {
	*slog.Logger
	closer io.Closer
}

// New builds a Logger from cfg. It fails on an unknown level or format, or
// when the log file cannot be opened.
func New(cfg Config) (*Logger, error) {
	var w io.Writer = os.Stderr
	var closer io.Closer
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("logging: open %s: %w", cfg.File, err)
		}
		w, closer = f, f
	}
	l, err := NewWithWriter(cfg, w)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	l.closer = closer
	return l, nil
}

// NewWithWriter builds a Logger writing to w. The caller owns w.
func NewWithWriter(cfg Config, w io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: replaceAttr}

	var h slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "", "text":
		h = &textHandler{w: w, mu: &sync.Mutex{}, level: level}
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("logging: unknown format %q", cfg.Format)
	}
	return &Logger{Logger: slog.New(h)}, nil
}

// Close flushes and releases the log file, if any.
func (l *Logger) Close() error {
	if l.closer == nil {
		return nil
	}
	err := l.closer.Close()
	l.closer = nil
	return err
}

// Trace logs at LevelTrace.
func (l *Logger) Trace(msg string, args ...any) {
	l.Log(context.Background(), LevelTrace, msg, args...)
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error", "fatal", "critical":
		return slog.LevelError, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, s)
}

func levelName(l slog.Level) string {
	switch {
	case l < slog.LevelDebug:
		return "trace"
	case l < slog.LevelInfo:
		return "debug"
	case l < slog.LevelWarn:
		return "info"
	case l < slog.LevelError:
		return "warning"
	}
	return "error"
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		if l, ok := a.Value.Any().(slog.Level); ok {
			return slog.String(slog.LevelKey, levelName(l))
		}
	}
	return a
}

// textHandler writes "[time] [level] msg key=value ..." lines.
type textHandler struct {
	w      io.Writer
	mu     *sync.Mutex
	level  slog.Level
	attrs  []slog.Attr
	groups []string
}

func (h *textHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level
}

func (h *textHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	fmt.Fprintf(&b, "[%s] [%s] %s", ts.Format(TimeFormat), levelName(r.Level), r.Message)
	for _, a := range h.attrs {
		writeAttr(&b, nil, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, h.groups, a)
		return true
	})
	b.WriteByte('\n')
	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

func (h *textHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	n := *h
	n.attrs = append([]slog.Attr(nil), h.attrs...)
	for _, a := range attrs {
		if len(h.groups) > 0 {
			a.Key = strings.Join(h.groups, ".") + "." + a.Key
		}
		n.attrs = append(n.attrs, a)
	}
	return &n
}

func (h *textHandler) WithGroup(name string) slog.Handler {
	n := *h
	n.groups = append(append([]string(nil), h.groups...), name)
	return &n
}

func writeAttr(b *strings.Builder, groups []string, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	key := a.Key
	if len(groups) > 0 {
		key = strings.Join(groups, ".") + "." + key
	}
	fmt.Fprintf(b, " %s=%v", key, a.Value.Resolve())
}
