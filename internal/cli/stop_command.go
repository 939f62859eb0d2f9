package cli

import (
	"context"
	"fmt"
)

// StopCommand handles the stop command
type StopCommand struct {
	app *App
}

// NewStopCommand creates a new stop command handler
func NewStopCommand(app *App) *StopCommand {
	return &StopCommand{app: app}
}

// Execute stops the timer and adds the elapsed time to the current task
func (c *StopCommand) Execute(ctx context.Context, args []string) error {
	result, err := c.app.api.StopTimer(ctx)
	if err != nil {
		return c.app.errorHandler.Handle("stop timer", err)
	}

	indicator := c.app.styles.Indicator(c.app.api.TimerStatus())
	if !result.Stopped {
		fmt.Fprintf(c.app.out, "%s Timer is not running\n", indicator)
		return nil
	}

	fmt.Fprintf(c.app.out, "%s Timer stopped after %s\n", indicator, formatElapsed(result.Elapsed))
	fmt.Fprintln(c.app.out, c.app.api.State().HoursLabel())
	if !c.app.api.State().HasTask() {
		fmt.Fprintln(c.app.out, c.app.styles.Muted("No task selected, nothing recorded"))
	}
	return nil
}
