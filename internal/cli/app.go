package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"

	"singletask/internal/api"
	"singletask/internal/config"
	"singletask/internal/errors"
)

// ClipboardWriter puts text on the system clipboard
type ClipboardWriter func(text string) error

// App is the presentation layer: every command renders through it and calls
// into the application context it holds.
type App struct {
	api          api.API
	config       *config.Config
	out          io.Writer
	errOut       io.Writer
	clipboard    ClipboardWriter
	styles       *Styles
	errorHandler *ErrorHandler
	registry     *CommandRegistry
}

// AppOption configures NewApp
type AppOption func(*App)

// WithOutput directs normal and error output
func WithOutput(out, errOut io.Writer) AppOption {
	return func(a *App) {
		a.out = out
		a.errOut = errOut
	}
}

// WithClipboard replaces the system clipboard
func WithClipboard(w ClipboardWriter) AppOption {
	return func(a *App) {
		a.clipboard = w
	}
}

// NewApp creates a new CLI application around a started application context
func NewApp(apiInstance api.API, cfg *config.Config, opts ...AppOption) *App {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	app := &App{
		api:          apiInstance,
		config:       cfg,
		out:          os.Stdout,
		errOut:       os.Stderr,
		clipboard:    clipboard.WriteAll,
		errorHandler: NewErrorHandler(),
	}
	for _, opt := range opts {
		opt(app)
	}
	app.styles = NewStyles(app.out)
	app.registry = NewCommandRegistry(app)
	return app
}

// Run executes one shell command line such as "capture buy milk"
func (a *App) Run(ctx context.Context, line string) error {
	name, rest := splitCommandLine(line)
	if name == "" {
		return nil
	}

	if !a.registry.Has(name) {
		return a.errorHandler.HandleSimple(
			errors.NewInvalidInputError("command", name, fmt.Sprintf("unknown command %q, type help for a list", name)))
	}

	var args []string
	if rest != "" {
		args = []string{rest}
	}
	return a.registry.Execute(ctx, name, args)
}

// listFormat returns the requested output format or the configured default
func (a *App) listFormat(requested string) (string, error) {
	format := requested
	if format == "" {
		format = a.config.Commands.ListDefaultFormat
	}
	if !config.IsOutputFormat(format) {
		return "", errors.NewInvalidInputError("format", format, "must be one of "+strings.Join(config.OutputFormats, ", "))
	}
	return format, nil
}

// splitCommandLine separates the command word from the untouched remainder
func splitCommandLine(line string) (string, string) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", ""
	}
	idx := strings.IndexAny(line, " \t")
	if idx < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:idx]), strings.TrimSpace(line[idx+1:])
}
