package cli

import (
	"context"
	"fmt"
)

// SaveCommand writes the session state to the snapshot immediately
type SaveCommand struct {
	app *App
}

// NewSaveCommand creates a new save command handler
func NewSaveCommand(app *App) *SaveCommand {
	return &SaveCommand{app: app}
}

// Execute runs the save command
func (c *SaveCommand) Execute(ctx context.Context, args []string) error {
	if err := c.app.api.SaveState(ctx); err != nil {
		return c.app.errorHandler.Handle("save state", err)
	}
	fmt.Fprintln(c.app.out, "State saved")
	return nil
}
