package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"singletask/internal/errors"
)

// Command represents a CLI command
type Command interface {
	Execute(ctx context.Context, args []string) error
}

type registeredCommand struct {
	command Command
	usage   string
	summary string
}

// CommandRegistry manages the commands available inside the shell
type CommandRegistry struct {
	commands map[string]registeredCommand
	aliases  map[string]string
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(app *App) *CommandRegistry {
	registry := &CommandRegistry{
		commands: make(map[string]registeredCommand),
		aliases:  make(map[string]string),
	}

	registry.Register("capture", "capture <text>", "save a thought to the inbox", NewCaptureCommand(app))
	registry.Register("list", "list", "list the inbox", NewListCommand(app, ""))
	registry.Register("delete", "delete <id>", "delete a capture", NewDeleteCommand(app))
	registry.Register("copy", "copy <id>", "copy a capture to the clipboard", NewCopyCommand(app))
	registry.Register("tasks", "tasks [text]", `show or replace the task list (\n separates lines)`, NewTasksCommand(app))
	registry.Register("select", "select", "make the first task the current task", NewSelectCommand(app))
	registry.Register("task", "task [title]", "show or set the current task", NewTaskCommand(app))
	registry.Register("start", "start", "start the timer", NewStartCommand(app))
	registry.Register("stop", "stop", "stop the timer and record the hours", NewStopCommand(app))
	registry.Register("status", "status", "show the current task and timer", NewCurrentCommand(app, ""))
	registry.Register("history", "history", "list recorded timer stops", NewHistoryCommand(app, ""))
	registry.Register("save", "save", "save the session state now", NewSaveCommand(app))

	registry.Alias("add", "capture")
	registry.Alias("ls", "list")
	registry.Alias("rm", "delete")
	registry.Alias("current", "status")

	return registry
}

// Register adds a command to the registry
func (r *CommandRegistry) Register(name, usage, summary string, command Command) {
	r.commands[name] = registeredCommand{command: command, usage: usage, summary: summary}
}

// Alias makes alias run the command registered as name
func (r *CommandRegistry) Alias(alias, name string) {
	r.aliases[alias] = name
}

// Has reports whether name resolves to a command
func (r *CommandRegistry) Has(name string) bool {
	if target, ok := r.aliases[name]; ok {
		name = target
	}
	_, ok := r.commands[name]
	return ok
}

// Execute runs the specified command with the given arguments
func (r *CommandRegistry) Execute(ctx context.Context, commandName string, args []string) error {
	if target, ok := r.aliases[commandName]; ok {
		commandName = target
	}
	registered, exists := r.commands[commandName]
	if !exists {
		return errors.NewInvalidInputError("command", commandName, "unknown command, type help for a list")
	}
	return registered.command.Execute(ctx, args)
}

// WriteUsage prints one line per command
func (r *CommandRegistry) WriteUsage(w io.Writer) error {
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, name := range names {
		registered := r.commands[name]
		fmt.Fprintf(tw, "  %s\t%s\n", registered.usage, registered.summary)
	}
	fmt.Fprintf(tw, "  %s\t%s\n", "help", "show this list")
	fmt.Fprintf(tw, "  %s\t%s\n", "quit", "save and exit")
	return tw.Flush()
}
