package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// DebugEnabled returns true if debug mode is enabled via SINGLETASK_DEBUG
func DebugEnabled() bool {
	return os.Getenv("SINGLETASK_DEBUG") != ""
}

// Options controls logger construction
type Options struct {
	Verbose   bool
	File      string
	SessionID string
}

// handler writes records as
//
//	<timestamp>\t<level>\t<session>\t<message>\t<key=value ...>
type handler struct {
	mu      *sync.Mutex
	w       io.Writer
	level   slog.Leveler
	session string
	attrs   []slog.Attr
}

func (h *handler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= h.level.Level()
}

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	ts := r.Time.UTC().Format("2006-01-02T15:04:05Z")
	if _, err := fmt.Fprintf(h.w, "%s\t%s\t%s\t%s", ts, r.Level, h.session, r.Message); err != nil {
		return err
	}
	for _, a := range h.attrs {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
	}
	r.Attrs(func(a slog.Attr) bool {
		fmt.Fprintf(h.w, "\t%s=%v", a.Key, a.Value)
		return true
	})
	_, err := fmt.Fprintln(h.w)
	return err
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &handler{
		mu:      h.mu,
		w:       h.w,
		level:   h.level,
		session: h.session,
		attrs:   append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *handler) WithGroup(string) slog.Handler { return h }

// NewHandler creates a handler writing to w. Records below Info are dropped unless verbose.
func NewHandler(w io.Writer, verbose bool, session string) slog.Handler {
	level := slog.LevelInfo
	if verbose || DebugEnabled() {
		level = slog.LevelDebug
	}
	if session == "" {
		session = uuid.NewString()
	}
	return &handler{mu: &sync.Mutex{}, w: w, level: level, session: session}
}

// New creates a logger writing to stderr and, when opts.File is set, appending to that file.
// The returned closer releases the file and is never nil.
func New(stderr io.Writer, opts Options) (*slog.Logger, io.Closer, error) {
	w := stderr
	var closer io.Closer = nopCloser{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return nil, nil, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = io.MultiWriter(f, stderr)
		closer = f
	}

	return slog.New(NewHandler(w, opts.Verbose, opts.SessionID)), closer, nil
}

// Discard returns a logger that drops everything, for tests and library defaults
func Discard() *slog.Logger {
	return slog.New(NewHandler(io.Discard, false, "discard"))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
