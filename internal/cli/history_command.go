package cli

import (
	"context"
	"strconv"
)

// HistoryCommand lists the recorded timer stops
type HistoryCommand struct {
	app    *App
	format string
}

// NewHistoryCommand creates a new history command handler. An empty format uses the configured default.
func NewHistoryCommand(app *App, format string) *HistoryCommand {
	return &HistoryCommand{app: app, format: format}
}

// Execute prints every timer stop, oldest first. Hours are the task's running total at that stop.
func (c *HistoryCommand) Execute(ctx context.Context, args []string) error {
	format, err := c.app.listFormat(c.format)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	entries, err := c.app.api.ListTimerHistory(ctx)
	if err != nil {
		return c.app.errorHandler.Handle("list timer history", err)
	}

	t := table{
		headers: []string{"id", "task", "hours"},
		rows:    make([][]string, 0, len(entries)),
		value:   entries,
	}
	for _, entry := range entries {
		t.rows = append(t.rows, []string{
			strconv.FormatInt(entry.ID, 10),
			entry.Task,
			strconv.FormatFloat(entry.Hours, 'f', 2, 64),
		})
	}

	return render(c.app.out, format, t, "No timer history")
}
