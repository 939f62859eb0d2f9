package cli

import (
	"context"
	"fmt"
)

// StartCommand handles the start command
type StartCommand struct {
	app *App
}

// NewStartCommand creates a new start command handler
func NewStartCommand(app *App) *StartCommand {
	return &StartCommand{app: app}
}

// Execute starts the timer for the current task
func (c *StartCommand) Execute(ctx context.Context, args []string) error {
	started, err := c.app.api.StartTimer()
	if err != nil {
		return c.app.errorHandler.Handle("start timer", err)
	}

	status := c.app.api.TimerStatus()
	if !started {
		fmt.Fprintf(c.app.out, "%s Timer already running (%s)\n",
			c.app.styles.Indicator(status), formatElapsed(c.app.api.TimerElapsed()))
		return nil
	}
	fmt.Fprintf(c.app.out, "%s Timer started: %s\n", c.app.styles.Indicator(status), c.app.api.State().Title)
	return nil
}
