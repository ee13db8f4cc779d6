// Package logging configures runtime JSONL logging output.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Runtime bundles the configured logger and its open file handle lifecycle.
type Runtime struct {
	Logger *slog.Logger
	Path   string
	Tail   *Tail
	level  *slog.LevelVar
	closer io.Closer
}

// SetDebug flips the log level at runtime. The tray's debug toggle uses
// this so a restart is not needed; the tail mirrors records only while
// debug is active.
func (r Runtime) SetDebug(enabled bool) {
	if r.level == nil {
		return
	}
	if enabled {
		r.level.Set(slog.LevelDebug)
		return
	}
	r.level.Set(slog.LevelInfo)
}

// Close flushes and closes the logger output sink.
func (r Runtime) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// New builds a JSONL logger rooted at the resolved state path. When debug
// is set the level drops to Debug and entries also land in the Tail so the
// session summary can show them.
func New(debug bool) (Runtime, error) {
	path, err := resolveLogPath()
	if err != nil {
		return Runtime{}, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return Runtime{}, err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return Runtime{}, err
	}

	level := new(slog.LevelVar)
	level.Set(slog.LevelInfo)
	if debug {
		level.Set(slog.LevelDebug)
	}

	tail := NewTail(defaultTailCapacity)
	handler := teeHandler{
		primary: slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}),
		tail:    tail,
		level:   level,
	}

	return Runtime{Logger: slog.New(handler), Path: path, Tail: tail, level: level, closer: f}, nil
}

// resolveLogPath selects XDG_STATE_HOME when available, otherwise ~/.local/state.
func resolveLogPath() (string, error) {
	if xdg := strings.TrimSpace(os.Getenv("XDG_STATE_HOME")); xdg != "" {
		return filepath.Join(xdg, "bolo", "log.jsonl"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "bolo", "log.jsonl"), nil
}

// PruneOldLogs removes rotated/dated files in the log directory older than
// maxAge. The active log.jsonl is left alone.
func PruneOldLogs(logPath string, maxAge time.Duration) error {
	dir := filepath.Dir(logPath)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	cutoff := time.Now().Add(-maxAge)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		full := filepath.Join(dir, entry.Name())
		if full == logPath {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			_ = os.Remove(full)
		}
	}
	return nil
}

// teeHandler forwards records to the primary handler and, while debug is
// active, mirrors a rendered line into the tail buffer.
type teeHandler struct {
	primary slog.Handler
	tail    *Tail
	level   *slog.LevelVar
}

func (h teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.primary.Enabled(ctx, level)
}

func (h teeHandler) Handle(ctx context.Context, record slog.Record) error {
	if h.level.Level() <= slog.LevelDebug {
		h.tail.Append(renderRecord(record))
	}
	return h.primary.Handle(ctx, record)
}

func (h teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return teeHandler{primary: h.primary.WithAttrs(attrs), tail: h.tail, level: h.level}
}

func (h teeHandler) WithGroup(name string) slog.Handler {
	return teeHandler{primary: h.primary.WithGroup(name), tail: h.tail, level: h.level}
}

func renderRecord(record slog.Record) string {
	var b strings.Builder
	b.WriteString(record.Time.Format("15:04:05.000"))
	b.WriteString(" ")
	b.WriteString(record.Level.String())
	b.WriteString(" ")
	b.WriteString(record.Message)
	record.Attrs(func(attr slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(attr.Key)
		b.WriteString("=")
		b.WriteString(attr.Value.String())
		return true
	})
	return b.String()
}
