package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"singletask/internal/logging"
)

const shellPrompt = "> "

// Shell is the interactive session: one goroutine reads lines, everything else
// happens on the event loop in Run.
type Shell struct {
	app      *App
	in       io.Reader
	logger   *slog.Logger
	interval time.Duration
	ticks    <-chan time.Time
	prompt   bool
}

// ShellOption configures NewShell
type ShellOption func(*Shell)

// WithTicks replaces the save ticker
func WithTicks(ticks <-chan time.Time) ShellOption {
	return func(s *Shell) {
		s.ticks = ticks
	}
}

// WithPrompt prints a prompt before each line is read
func WithPrompt(prompt bool) ShellOption {
	return func(s *Shell) {
		s.prompt = prompt
	}
}

// WithLogger sets the logger used for periodic saves
func WithLogger(logger *slog.Logger) ShellOption {
	return func(s *Shell) {
		s.logger = logger
	}
}

// NewShell creates a shell reading commands from in and saving state every interval.
// An interval of zero disables periodic saves.
func NewShell(app *App, in io.Reader, interval time.Duration, opts ...ShellOption) *Shell {
	s := &Shell{
		app:      app,
		in:       in,
		logger:   logging.Discard(),
		interval: interval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run processes commands until quit, end of input or ctx is cancelled.
// The final save is left to the application context's Shutdown.
func (s *Shell) Run(ctx context.Context) error {
	ticks := s.ticks
	if ticks == nil && s.interval > 0 {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		ticks = ticker.C
	}

	done := make(chan struct{})
	defer close(done)
	lines, readErr := s.readLines(done)

	if err := NewCurrentCommand(s.app, "").Execute(ctx, nil); err != nil {
		return err
	}
	fmt.Fprintln(s.app.out, s.app.styles.Muted("Type help for commands."))
	s.showPrompt()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("shell interrupted")
			return nil

		case <-ticks:
			if err := s.app.api.SaveState(ctx); err != nil {
				s.logger.Warn("periodic save failed", "error", err)
				continue
			}
			s.logger.Debug("periodic save")

		case line, ok := <-lines:
			if !ok {
				return <-readErr
			}
			stop, err := s.handle(ctx, line)
			if err != nil {
				return err
			}
			if stop {
				return nil
			}
			s.showPrompt()
		}
	}
}

// handle runs one line and reports whether the session should end
func (s *Shell) handle(ctx context.Context, line string) (bool, error) {
	name, _ := splitCommandLine(line)
	switch name {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help", "?":
		fmt.Fprintln(s.app.out, s.app.styles.Heading("Commands:"))
		return false, s.app.registry.WriteUsage(s.app.out)
	}

	err := s.app.Run(ctx, line)
	if err == nil {
		return false, nil
	}
	if s.app.errorHandler.IsFatal(err) {
		return true, err
	}
	s.app.errorHandler.Log(s.logger, name, err)
	fmt.Fprintf(s.app.errOut, "Error: %v\n", err)
	return false, nil
}

func (s *Shell) showPrompt() {
	if s.prompt {
		fmt.Fprint(s.app.out, shellPrompt)
	}
}

// readLines feeds input lines to the event loop. The line channel closes at end
// of input, after which readErr yields the scanner's error, if any.
func (s *Shell) readLines(done <-chan struct{}) (<-chan string, <-chan error) {
	lines := make(chan string)
	readErr := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimRight(scanner.Text(), "\r"):
			case <-done:
				readErr <- nil
				return
			}
		}
		readErr <- scanner.Err()
	}()

	return lines, readErr
}
