package cli

import (
	"context"
	"fmt"

	"singletask/internal/errors"
)

// CopyCommand puts a capture's content on the clipboard
type CopyCommand struct {
	app *App
}

// NewCopyCommand creates a new copy command handler
func NewCopyCommand(app *App) *CopyCommand {
	return &CopyCommand{app: app}
}

// Execute copies the content of the capture with the given id. Nothing is stored.
func (c *CopyCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseCaptureID("copy", args)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	capture, err := c.app.api.GetCapture(ctx, id)
	if err != nil {
		if errors.IsErrorType(err, errors.ErrorTypeNotFound) {
			fmt.Fprintf(c.app.out, "No capture with id %d\n", id)
			return nil
		}
		return c.app.errorHandler.Handle("copy capture", err)
	}

	if err := c.app.clipboard(capture.Content); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	fmt.Fprintf(c.app.out, "Copied capture %d\n", id)
	return nil
}
