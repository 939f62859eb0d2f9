package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"singletask/internal/api"
	"singletask/internal/config"
	"singletask/internal/logging"
	"singletask/internal/services"
)

// RootOptions wires the command tree to its surroundings. Zero values use the
// process's standard streams, the system clipboard and the wall clock.
type RootOptions struct {
	In        io.Reader
	Out       io.Writer
	ErrOut    io.Writer
	Clipboard ClipboardWriter
	Clock     services.Clock
	Ticks     <-chan time.Time
}

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd          *cobra.Command
	opts         RootOptions
	loader       *config.Loader
	config       *config.Config
	logger       *slog.Logger
	logCloser    io.Closer
	errorHandler *ErrorHandler
	configFile   string
}

// configFlags maps persistent flags to configuration keys
var configFlags = map[string]string{
	"data-dir":      "storage.dir",
	"db-file":       "storage.database_file",
	"snapshot-file": "storage.snapshot_file",
	"save-interval": "snapshot.save_interval",
	"timeout":       "app.timeout",
	"verbose":       "app.verbose",
	"log-file":      "log.file",
	"format":        "commands.list_format",
}

// NewRootCommand creates the root cobra command with global flags
func NewRootCommand(opts RootOptions) *RootCommand {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.ErrOut == nil {
		opts.ErrOut = os.Stderr
	}

	root := &RootCommand{
		opts:         opts,
		loader:       config.NewLoader(),
		errorHandler: NewErrorHandler(),
	}

	root.cmd = &cobra.Command{
		Use:   "singletask",
		Short: "One task at a time, with a timer and an inbox for stray thoughts",
		Long: `singletask keeps you on a single task. It tracks the hours you spend on the
current task, keeps a free-form task list, and gives you an inbox for the
thoughts that would otherwise pull you away.

EXAMPLES:
  singletask shell                         # Interactive session with the timer
  singletask capture "call the dentist"    # Save a thought to the inbox
  singletask list                          # List the inbox
  singletask copy 3                        # Copy capture 3 to the clipboard
  singletask tasks "write report" "review PR"
  singletask select                        # First task becomes the current task
  singletask history --format csv          # Timer history as CSV

FILES:
  tasks.db and app_state.json are kept in the data directory, which defaults
  to the working directory.

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > config file > defaults

    SINGLETASK_CONFIG                      Config file (yaml, toml or json)
    SINGLETASK_STORAGE_DIR                 Data directory (default: .)
    SINGLETASK_STORAGE_DATABASE_FILE       Database file name (default: tasks.db)
    SINGLETASK_STORAGE_SNAPSHOT_FILE       State file name (default: app_state.json)
    SINGLETASK_SNAPSHOT_SAVE_INTERVAL      Shell save interval (default: 60s)
    SINGLETASK_APP_TIMEOUT                 Timeout for one-shot commands (default: 60s)
    SINGLETASK_APP_VERBOSE                 Debug logging (default: false)
    SINGLETASK_LOG_FILE                    Also append logs to this file
    SINGLETASK_COMMANDS_LIST_FORMAT        table, json, yaml or csv (default: table)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return root.closeLogger()
		},
	}
	root.cmd.SetIn(opts.In)
	root.cmd.SetOut(opts.Out)
	root.cmd.SetErr(opts.ErrOut)

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Execute runs the root command
func (r *RootCommand) Execute(ctx context.Context) error {
	err := r.cmd.ExecuteContext(ctx)
	if closeErr := r.closeLogger(); err == nil {
		err = closeErr
	}
	return err
}

// SetArgs overrides the command line, for tests
func (r *RootCommand) SetArgs(args []string) {
	r.cmd.SetArgs(args)
}

// Config returns the configuration resolved by the last run
func (r *RootCommand) Config() *config.Config {
	return r.config
}

// addGlobalFlags adds global configuration flags and binds them to configuration keys
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()
	defaults := config.NewConfig()

	flags.StringVar(&r.configFile, "config", "", "Config file (overrides SINGLETASK_CONFIG)")
	flags.String("data-dir", defaults.Storage.Dir, "Directory holding the database and state file")
	flags.String("db-file", defaults.Storage.DatabaseFile, "Database file name")
	flags.String("snapshot-file", defaults.Storage.SnapshotFile, "State file name")
	flags.Duration("save-interval", defaults.Snapshot.SaveInterval, "How often the shell saves its state")
	flags.Duration("timeout", defaults.Application.Timeout, "Timeout for one-shot commands")
	flags.BoolP("verbose", "v", defaults.Application.Verbose, "Enable debug logging")
	flags.String("log-file", defaults.Logging.File, "Also append logs to this file")
	flags.StringP("format", "f", defaults.Commands.ListDefaultFormat, "Output format: table, json, yaml or csv")

	for name, key := range configFlags {
		if err := r.loader.BindPFlag(key, flags.Lookup(name)); err != nil {
			panic(err)
		}
	}
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	captureCmd := &cobra.Command{
		Use:   "capture [text]",
		Short: "Save a thought to the inbox",
		Long:  "Save a thought to the inbox. The arguments are joined with spaces; blank text is ignored.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewCaptureCommand(app).Execute(ctx, args)
			})
		},
	}

	listCmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the inbox",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewListCommand(app, "").Execute(ctx, args)
			})
		},
	}

	deleteCmd := &cobra.Command{
		Use:     "delete [id]",
		Aliases: []string{"rm"},
		Short:   "Delete a capture from the inbox",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewDeleteCommand(app).Execute(ctx, args)
			})
		},
	}

	copyCmd := &cobra.Command{
		Use:   "copy [id]",
		Short: "Copy a capture to the clipboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewCopyCommand(app).Execute(ctx, args)
			})
		},
	}

	tasksCmd := &cobra.Command{
		Use:   "tasks [line...]",
		Short: "Show or replace the task list",
		Long: `Show the task list, or replace it when arguments are given.

Each argument becomes one line. Use - to read the new list from standard input.

Examples:
  singletask tasks                           # Show the task list
  singletask tasks "write report" "review PR"
  singletask tasks - < todo.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && args[0] == "-" {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read task list: %w", err)
				}
				args = []string{string(data)}
			}
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewTasksCommand(app).Execute(ctx, args)
			})
		},
	}

	selectCmd := &cobra.Command{
		Use:   "select",
		Short: "Make the first line of the task list the current task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewSelectCommand(app).Execute(ctx, args)
			})
		},
	}

	taskCmd := &cobra.Command{
		Use:   "task [title]",
		Short: "Show or set the current task",
		Long:  "Show the current task, or set it when a title is given. Setting a task resets its hours.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewTaskCommand(app).Execute(ctx, args)
			})
		},
	}

	statusCmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"current"},
		Short:   "Show the current task and hours spent",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewCurrentCommand(app, r.config.Commands.ListDefaultFormat).Execute(ctx, args)
			})
		},
	}

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded timer stops",
		Long: `List every recorded timer stop, oldest first.

Hours are the task's running total at the moment the timer was stopped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, true, func(ctx context.Context, app *App) error {
				return NewHistoryCommand(app, "").Execute(ctx, args)
			})
		},
	}

	shellCmd := &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session with the task timer",
		Long: `Start an interactive session. The timer only runs inside a session.

The session state is saved on start, every --save-interval, and on exit
(quit, end of input, Ctrl-C). A timer still running on exit is discarded.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return r.withApp(cmd, false, func(ctx context.Context, app *App) error {
				shell := NewShell(app, cmd.InOrStdin(), r.config.Snapshot.SaveInterval,
					WithTicks(r.opts.Ticks),
					WithPrompt(isTerminal(cmd.InOrStdin())),
					WithLogger(r.logger),
				)
				return shell.Run(ctx)
			})
		},
	}

	r.cmd.AddCommand(
		captureCmd,
		listCmd,
		deleteCmd,
		copyCmd,
		tasksCmd,
		selectCmd,
		taskCmd,
		statusCmd,
		historyCmd,
		shellCmd,
	)
}

// loadConfig resolves configuration from flags, environment and file, then opens the log
func (r *RootCommand) loadConfig() error {
	r.loader.SetConfigFile(r.configFile)
	cfg, err := r.loader.Load()
	if err != nil {
		return err
	}
	r.config = cfg

	logger, closer, err := logging.New(r.opts.ErrOut, logging.Options{
		Verbose: cfg.Application.Verbose || logging.DebugEnabled(),
		File:    cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	r.logger = logger
	r.logCloser = closer
	r.logger.Debug("configuration loaded",
		"database", cfg.GetDatabasePath(), "snapshot", cfg.GetSnapshotPath())
	return nil
}

func (r *RootCommand) closeLogger() error {
	if r.logCloser == nil {
		return nil
	}
	err := r.logCloser.Close()
	r.logCloser = nil
	return err
}

// withApp runs fn inside one application lifecycle: open the database, load the
// state, run, then save the state and close the database whatever fn returned.
func (r *RootCommand) withApp(cmd *cobra.Command, timeout bool, fn func(ctx context.Context, app *App) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout && r.config.Application.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.config.Application.Timeout)
		defer cancel()
	}

	repo, err := config.CreateRepository(ctx, r.config)
	if err != nil {
		return r.errorHandler.Handle("open database", err)
	}

	session := api.New(repo, config.CreateSnapshotStore(r.config), api.Options{
		Clock:  r.opts.Clock,
		Logger: r.logger,
	})
	if err := session.Start(ctx); err != nil {
		_ = session.Shutdown(ctx)
		return r.errorHandler.Handle("load session state", err)
	}

	appOpts := []AppOption{WithOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())}
	if r.opts.Clipboard != nil {
		appOpts = append(appOpts, WithClipboard(r.opts.Clipboard))
	}
	runErr := fn(ctx, NewApp(session, r.config, appOpts...))
	r.errorHandler.Log(r.logger, cmd.Name(), runErr)

	if err := session.Shutdown(context.WithoutCancel(ctx)); err != nil {
		r.logger.Error("shutdown failed", "error", err)
		return stderrors.Join(runErr, r.errorHandler.Handle("save session state", err))
	}
	return runErr
}

func isTerminal(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
