// Package applog provides the playback driver's append-only log file
// handler, following the teacher's preference for slog.Default() over a
// third-party logging library (blitss-sip-tg-bridge uses slog.New with a
// stock handler rather than its available gologging dependency).
package applog

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Handler formats records as "[YYYY-MM-DD HH:MM:SS] [LEVEL] message key=value ..."
// and flushes the underlying file after every record, per spec.md §6's
// requirement that the log survive an unclean shutdown.
type Handler struct {
	mu     *sync.Mutex
	w      io.Writer
	f      *os.File
	attrs  []slog.Attr
	groups []string
}

// Open opens (creating if necessary) an append-only log file at path and
// wraps it in a Handler.
func Open(path string) (*Handler, *slog.Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("applog: open %s: %w", path, err)
	}
	h := &Handler{mu: &sync.Mutex{}, w: f, f: f}
	return h, slog.New(h), nil
}

// New wraps an arbitrary writer (e.g. os.Stdout) without file-flush
// semantics, for tests and for stderr mirroring.
func New(w io.Writer) *Handler {
	return &Handler{mu: &sync.Mutex{}, w: w}
}

func (h *Handler) Enabled(context.Context, slog.Level) bool { return true }

func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteByte('[')
	b.WriteString(r.Time.Format("2006-01-02 15:04:05"))
	b.WriteString("] [")
	b.WriteString(levelTag(r.Level))
	b.WriteString("] ")
	b.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&b, a)
	}
	r.Attrs(func(a slog.Attr) bool {
		writeAttr(&b, a)
		return true
	})
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	if _, err := io.WriteString(h.w, b.String()); err != nil {
		return err
	}
	if h.f != nil {
		return h.f.Sync()
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &Handler{mu: h.mu, w: h.w, f: h.f, groups: h.groups}
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return next
}

func (h *Handler) WithGroup(name string) slog.Handler {
	next := &Handler{mu: h.mu, w: h.w, f: h.f, attrs: h.attrs}
	next.groups = append(append([]string{}, h.groups...), name)
	return next
}

func writeAttr(b *strings.Builder, a slog.Attr) {
	if a.Equal(slog.Attr{}) {
		return
	}
	b.WriteByte(' ')
	b.WriteString(a.Key)
	b.WriteByte('=')
	fmt.Fprintf(b, "%v", a.Value.Any())
}

func levelTag(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return "ERROR"
	case l >= slog.LevelWarn:
		return "WARN"
	case l >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// Close flushes and closes the underlying log file, if any.
func (h *Handler) Close() error {
	if h.f == nil {
		return nil
	}
	return h.f.Close()
}
