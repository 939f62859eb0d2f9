package cli

import (
	"context"
	"strconv"
)

// ListCommand handles the list command
type ListCommand struct {
	app    *App
	format string
}

// NewListCommand creates a new list command handler. An empty format uses the configured default.
func NewListCommand(app *App, format string) *ListCommand {
	return &ListCommand{app: app, format: format}
}

// Execute prints the inbox, oldest capture first
func (c *ListCommand) Execute(ctx context.Context, args []string) error {
	format, err := c.app.listFormat(c.format)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	captures, err := c.app.api.ListCaptures(ctx)
	if err != nil {
		return c.app.errorHandler.Handle("list captures", err)
	}

	t := table{
		headers: []string{"id", "content"},
		rows:    make([][]string, 0, len(captures)),
		lines:   make([]string, 0, len(captures)),
		value:   captures,
	}
	for _, capture := range captures {
		t.rows = append(t.rows, []string{strconv.FormatInt(capture.ID, 10), capture.Content})
		t.lines = append(t.lines, capture.String())
	}

	return render(c.app.out, format, t, "Inbox is empty")
}
