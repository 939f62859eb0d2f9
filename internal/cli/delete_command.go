package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"singletask/internal/errors"
)

// DeleteCommand handles the delete command
type DeleteCommand struct {
	app *App
}

// NewDeleteCommand creates a new delete command handler
func NewDeleteCommand(app *App) *DeleteCommand {
	return &DeleteCommand{app: app}
}

// Execute deletes the capture with the given id. Unknown ids are reported, not failed.
func (c *DeleteCommand) Execute(ctx context.Context, args []string) error {
	id, err := parseCaptureID("delete", args)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	deleted, err := c.app.api.DeleteCapture(ctx, id)
	if err != nil {
		return c.app.errorHandler.Handle("delete capture", err)
	}
	if !deleted {
		fmt.Fprintf(c.app.out, "No capture with id %d\n", id)
		return nil
	}
	fmt.Fprintf(c.app.out, "Deleted capture %d\n", id)
	return nil
}

// parseCaptureID reads the single id argument of command
func parseCaptureID(command string, args []string) (int64, error) {
	if len(args) != 1 {
		return 0, errors.NewInvalidInputError("command", command, fmt.Sprintf("usage: %s <id>", command))
	}
	raw := strings.TrimSpace(args[0])
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.NewInvalidInputError("id", raw, "must be a number")
	}
	return id, nil
}
