package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"
)

// statusView is the machine-readable form of the status command
type statusView struct {
	Task           string  `json:"current_task_title" yaml:"current_task_title"`
	Hours          float64 `json:"current_task_hours" yaml:"current_task_hours"`
	Timer          string  `json:"timer" yaml:"timer"`
	ElapsedSeconds int64   `json:"elapsed_seconds" yaml:"elapsed_seconds"`
}

// CurrentCommand shows the current task and the timer status
type CurrentCommand struct {
	app    *App
	format string
}

// NewCurrentCommand creates a new status command handler. An empty format prints text.
func NewCurrentCommand(app *App, format string) *CurrentCommand {
	return &CurrentCommand{app: app, format: format}
}

// Execute runs the status command
func (c *CurrentCommand) Execute(ctx context.Context, args []string) error {
	state := c.app.api.State()
	status := c.app.api.TimerStatus()
	elapsed := c.app.api.TimerElapsed()

	if c.format == "" || c.format == "table" {
		fmt.Fprintf(c.app.out, "%s %s\n", c.app.styles.Indicator(status), c.app.styles.Heading(state.Title))
		fmt.Fprintln(c.app.out, state.HoursLabel())
		if elapsed > 0 {
			fmt.Fprintf(c.app.out, "Timer running for %s\n", formatElapsed(elapsed))
		}
		return nil
	}

	format, err := c.app.listFormat(c.format)
	if err != nil {
		return c.app.errorHandler.HandleSimple(err)
	}

	view := statusView{
		Task:           state.Title,
		Hours:          state.Hours,
		Timer:          status.String(),
		ElapsedSeconds: int64(elapsed / time.Second),
	}
	return render(c.app.out, format, table{
		headers: []string{"current_task_title", "current_task_hours", "timer", "elapsed_seconds"},
		rows: [][]string{{
			view.Task,
			strconv.FormatFloat(view.Hours, 'f', 2, 64),
			view.Timer,
			strconv.FormatInt(view.ElapsedSeconds, 10),
		}},
		value: view,
	}, "")
}

// formatElapsed renders a duration as hours and minutes
func formatElapsed(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}
