package cli

import (
	"context"
	"fmt"
	"strings"
)

// lineEscape lets a single shell line carry a multi-line task list
const lineEscape = `\n`

// TasksCommand shows or replaces the free-form task list
type TasksCommand struct {
	app *App
}

// NewTasksCommand creates a new tasks command handler
func NewTasksCommand(app *App) *TasksCommand {
	return &TasksCommand{app: app}
}

// Execute prints the task list, or replaces it when arguments are given.
// Each argument is one line and a literal \n also starts a new line.
func (c *TasksCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return c.show()
	}

	text := strings.ReplaceAll(strings.Join(args, "\n"), lineEscape, "\n")
	if err := c.app.api.SetTasksText(text); err != nil {
		return c.app.errorHandler.Handle("update task list", err)
	}
	return c.show()
}

func (c *TasksCommand) show() error {
	text := c.app.api.State().TasksText
	if strings.TrimSpace(text) == "" {
		fmt.Fprintln(c.app.out, "Task list is empty")
		return nil
	}
	fmt.Fprintln(c.app.out, text)
	return nil
}

// SelectCommand makes the first line of the task list the current task
type SelectCommand struct {
	app *App
}

// NewSelectCommand creates a new select command handler
func NewSelectCommand(app *App) *SelectCommand {
	return &SelectCommand{app: app}
}

// Execute runs the select command
func (c *SelectCommand) Execute(ctx context.Context, args []string) error {
	if _, err := c.app.api.SelectTask(); err != nil {
		return c.app.errorHandler.Handle("select task", err)
	}
	return printCurrentTask(c.app)
}

// TaskCommand shows or sets the current task
type TaskCommand struct {
	app *App
}

// NewTaskCommand creates a new task command handler
func NewTaskCommand(app *App) *TaskCommand {
	return &TaskCommand{app: app}
}

// Execute prints the current task, or selects the arguments joined by spaces
func (c *TaskCommand) Execute(ctx context.Context, args []string) error {
	if len(args) > 0 {
		if _, err := c.app.api.SetCurrentTask(strings.Join(args, " ")); err != nil {
			return c.app.errorHandler.Handle("set current task", err)
		}
	}
	return printCurrentTask(c.app)
}

func printCurrentTask(app *App) error {
	state := app.api.State()
	_, err := fmt.Fprintf(app.out, "Current task: %s\n%s\n", state.Title, state.HoursLabel())
	return err
}
