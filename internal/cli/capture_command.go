package cli

import (
	"context"
	"fmt"
	"strings"
)

// CaptureCommand handles the capture command
type CaptureCommand struct {
	app *App
}

// NewCaptureCommand creates a new capture command handler
func NewCaptureCommand(app *App) *CaptureCommand {
	return &CaptureCommand{app: app}
}

// Execute saves the arguments, joined by spaces, as one capture
func (c *CaptureCommand) Execute(ctx context.Context, args []string) error {
	capture, err := c.app.api.SaveCapture(ctx, strings.Join(args, " "))
	if err != nil {
		return c.app.errorHandler.Handle("save capture", err)
	}
	if capture == nil {
		fmt.Fprintln(c.app.out, "Nothing to capture")
		return nil
	}
	fmt.Fprintf(c.app.out, "Captured %s\n", capture)
	return nil
}
