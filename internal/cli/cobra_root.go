package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"task-manager/internal/config"
	"task-manager/internal/domain"
	"task-manager/internal/logging"
	"task-manager/internal/services"
)

// appFunc returns the application the command handlers run against.
type appFunc func(ctx context.Context) (*App, error)

// RootCommand represents the base command when called without any subcommands
type RootCommand struct {
	cmd       *cobra.Command
	loader    *config.Loader
	bootstrap BootstrapFunc
	config    *config.Config
	logger    *zap.Logger
	app       *App
}

// NewRootCommand creates the root cobra command with global flags. The
// runtime is only built by commands that need it.
func NewRootCommand(loader *config.Loader, bootstrap BootstrapFunc) *RootCommand {
	root := &RootCommand{
		loader:    loader,
		bootstrap: bootstrap,
	}

	root.cmd = &cobra.Command{
		Use:   "td",
		Short: "A command-line task manager",
		Long: `Task manager (td) keeps a local list of tasks with due dates, categories
and priorities, and reminds you before they are due.

EXAMPLES:
  td add "Pay rent" --due 1/11/2026 --category Home --priority High
  td list --category Home                  # Active tasks in one category
  td list --search rent --all              # Include completed tasks
  td complete 3                            # Mark task #3 as completed
  td delete 3                              # Delete task #3
  td dashboard                             # Counts, overdue and due today
  td export --format yaml > tasks.yaml     # Export as csv, json or yaml
  td settings set notifications_enabled false
  td serve                                 # Content interface and reminders
  td shell                                 # Interactive session with undo

CONFIGURATION:
  Configuration follows this priority order:
  command-line flags > environment variables > .env file > defaults

    TD_DB_DIR                Database directory (default: ~/.td)
    TD_DB_FILENAME           Database filename (default: tasks.db)
    TD_DB_QUERY_TIMEOUT      Store operation timeout (default: 10s)
    TD_STATE_PATH            Settings and reminder store (default: <db dir>/state.db)
    TD_SETTINGS_PERSIST      Keep settings between runs (default: true)
    TD_REMINDERS_ENABLED     Schedule reminders for new tasks (default: true)
    TD_CONTENT_AUTHORITY     Content interface authority
    TD_HTTP_HOST, TD_HTTP_PORT  Content interface address (default: 127.0.0.1:8080)
    TD_REDIS_URL             Share change notifications through Redis
    TD_LOG_LEVEL, TD_LOG_ENCODING  Logger level and encoding (console or json)
    TD_APP_TIMEOUT           Command timeout (default: 60s)
    TD_DEBUG                 Force debug logging

DATES:
  Due dates are written day/month/year, for example 5/3/2026.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.loadConfig()
		},
	}

	root.addGlobalFlags()
	root.addSubcommands()

	return root
}

// Command returns the underlying cobra command
func (r *RootCommand) Command() *cobra.Command {
	return r.cmd
}

// Execute runs the root command
func (r *RootCommand) Execute() error {
	return r.ExecuteContext(context.Background())
}

// ExecuteContext runs the root command and releases the runtime afterwards
func (r *RootCommand) ExecuteContext(ctx context.Context) error {
	defer r.close()
	return r.cmd.ExecuteContext(ctx)
}

func (r *RootCommand) close() {
	if r.app == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := r.app.rt.Close(ctx); err != nil {
		r.logger.Warn("close runtime", zap.Error(err))
	}
	r.logger.Sync()
	r.app = nil
}

// addGlobalFlags adds global configuration flags
func (r *RootCommand) addGlobalFlags() {
	flags := r.cmd.PersistentFlags()

	// Database configuration
	flags.String("db-dir", "", "Database directory (overrides TD_DB_DIR)")
	flags.String("db-filename", "", "Database filename (overrides TD_DB_FILENAME)")
	flags.Duration("db-query-timeout", 0, "Store operation timeout (overrides TD_DB_QUERY_TIMEOUT)")

	// Content interface configuration
	flags.String("http-host", "", "Content interface host (overrides TD_HTTP_HOST)")
	flags.String("http-port", "", "Content interface port (overrides TD_HTTP_PORT)")
	flags.String("authority", "", "Content interface authority (overrides TD_CONTENT_AUTHORITY)")

	// Settings and reminders
	flags.String("state-path", "", "Settings and reminder store (overrides TD_STATE_PATH)")
	flags.Bool("reminders", true, "Schedule reminders for new tasks (overrides TD_REMINDERS_ENABLED)")
	flags.Bool("persist-settings", true, "Keep settings between runs (overrides TD_SETTINGS_PERSIST)")

	// Change feed
	flags.String("redis-url", "", "Redis URL for change notifications (overrides TD_REDIS_URL)")

	// Logging and application configuration
	flags.String("log-level", "", "Log level (overrides TD_LOG_LEVEL)")
	flags.String("log-encoding", "", "Log encoding, console or json (overrides TD_LOG_ENCODING)")
	flags.Duration("app-timeout", 0, "Command timeout (overrides TD_APP_TIMEOUT)")
	flags.Bool("verbose", false, "Enable debug logging (overrides TD_APP_VERBOSE)")
}

// configOverrides collects the flags that were set explicitly
func (r *RootCommand) configOverrides() *config.ConfigOverrides {
	flags := r.cmd.PersistentFlags()
	overrides := &config.ConfigOverrides{}

	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}
	duration := func(name string) *time.Duration {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetDuration(name)
		return &v
	}

	overrides.DBDir = str("db-dir")
	overrides.DBFilename = str("db-filename")
	overrides.DBQueryTimeout = duration("db-query-timeout")
	overrides.HTTPHost = str("http-host")
	overrides.HTTPPort = str("http-port")
	overrides.Authority = str("authority")
	overrides.StatePath = str("state-path")
	overrides.Reminders = boolean("reminders")
	overrides.PersistSettings = boolean("persist-settings")
	overrides.RedisURL = str("redis-url")
	overrides.LogLevel = str("log-level")
	overrides.LogEncoding = str("log-encoding")
	overrides.Timeout = duration("app-timeout")
	overrides.Verbose = boolean("verbose")
	return overrides
}

// loadConfig applies the configuration cascade and builds the logger
func (r *RootCommand) loadConfig() error {
	cfg, err := r.loader.LoadWithOverrides(r.configOverrides())
	if err != nil {
		return err
	}
	r.config = cfg

	logCfg := logging.Config{Level: cfg.Logging.Level, Encoding: cfg.Logging.Encoding}
	if cfg.Application.Verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.NewWithWriter(logCfg, r.cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	r.logger = logger
	return nil
}

// application builds the runtime on first use
func (r *RootCommand) application(ctx context.Context) (*App, error) {
	if r.app != nil {
		return r.app, nil
	}
	if r.config == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}
	rt, err := r.bootstrap(ctx, r.config, r.logger)
	if err != nil {
		return nil, err
	}
	r.app = NewApp(rt, r.cmd.OutOrStdout(), r.cmd.InOrStdin())
	return r.app, nil
}

// getAppTimeout returns the configured application timeout
func (r *RootCommand) getAppTimeout() time.Duration {
	if r.config != nil {
		return r.config.Application.Timeout
	}
	return 60 * time.Second
}

// addSubcommands adds all CLI subcommands to the root command
func (r *RootCommand) addSubcommands() {
	r.cmd.AddCommand(taskCommands(r.application, r.getAppTimeout)...)
	r.cmd.AddCommand(
		r.newExportCmd(),
		r.newSettingsCmd(),
		r.newRemindCmd(),
		r.newServeCmd(),
		r.newShellCmd(),
	)
}

// taskCommands builds the commands shared by the root and the shell
func taskCommands(get appFunc, timeout func() time.Duration) []*cobra.Command {
	run := func(fn func(ctx context.Context, app *App) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout())
			defer cancel()
			app, err := get(ctx)
			if err != nil {
				return err
			}
			return fn(ctx, app)
		}
	}

	var input services.CreateTaskInput
	addCmd := &cobra.Command{
		Use:   "add [task name]",
		Short: "Add a new task",
		Long: `Add a new task. The name is required; the other fields are optional.
Reminders are scheduled for the day before and the day of the due date.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Name = strings.Join(args, " ")
			return run(func(ctx context.Context, app *App) error {
				return NewAddCommand(app).Execute(ctx, input)
			})(cmd, args)
		},
	}
	addCmd.Flags().StringVarP(&input.Description, "description", "d", "", "Task description")
	addCmd.Flags().StringVar(&input.DueDate, "due", "", "Due date as day/month/year")
	addCmd.Flags().StringVarP(&input.Category, "category", "c", domain.DefaultCategory, "Task category")
	addCmd.Flags().StringVarP(&input.Priority, "priority", "p", domain.DefaultPriority, "Priority: High, Medium or Low")

	var opts domain.ListOptions
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks by due date",
		Long: `List active tasks, soonest due date first. Tasks without a readable
due date are listed last.`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, app *App) error {
			return NewListCommand(app).Execute(ctx, opts)
		}),
	}
	listCmd.Flags().StringVarP(&opts.Category, "category", "c", "", "Only tasks in this category")
	listCmd.Flags().StringVarP(&opts.Query, "search", "s", "", "Only tasks whose name or description contains this text")
	listCmd.Flags().BoolVarP(&opts.IncludeCompleted, "all", "a", false, "Include completed tasks")

	completeCmd := &cobra.Command{
		Use:   "complete [id...]",
		Short: "Mark tasks as completed",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *App) error {
				return NewCompleteCommand(app).Execute(ctx, args)
			})(cmd, args)
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a task",
		Long:  "Delete a task. Inside td shell the deletion can be reverted with undo.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(func(ctx context.Context, app *App) error {
				return NewDeleteCommand(app).Execute(ctx, args)
			})(cmd, args)
		},
	}

	dashboardCmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show task counts and what is due",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, app *App) error {
			return NewDashboardCommand(app).Execute(ctx)
		}),
	}

	return []*cobra.Command{addCmd, listCmd, completeCmd, deleteCmd, dashboardCmd}
}

func (r *RootCommand) newExportCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all tasks",
		Long: fmt.Sprintf(`Export every stored task to standard output.

Supported formats: %s`, strings.Join(ExportFormats, ", ")),
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()
			app, err := r.application(ctx)
			if err != nil {
				return err
			}
			return NewExportCommand(app).Execute(ctx, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", FormatCSV, "Output format")
	return cmd
}

func (r *RootCommand) newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings [get key | set key value]",
		Short: "Show or change preferences",
		Long: `Show or change preferences.

Keys: dark_mode, notifications_enabled, language (English, Chinese, Spanish),
background_sound.`,
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()
			app, err := r.application(ctx)
			if err != nil {
				return err
			}
			return NewSettingsCommand(app).Execute(ctx, args)
		},
	}
}

func (r *RootCommand) newRemindCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remind [due date]",
		Short: "Run a reminder check now",
		Long: `Run the reminder job for a due date immediately. A notification is
posted when the date is today or tomorrow and notifications are enabled.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), r.getAppTimeout())
			defer cancel()
			app, err := r.application(ctx)
			if err != nil {
				return err
			}
			return NewRemindCommand(app).Execute(ctx, args[0])
		},
	}
}

func (r *RootCommand) newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the content interface and run reminders",
		Long: `Serve the task content interface over HTTP and run scheduled reminders
until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := r.application(ctx)
			if err != nil {
				return err
			}
			return NewServeCommand(app).Execute(ctx, nil)
		},
	}
}

func (r *RootCommand) newShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive session",
		Long: `Start an interactive session. Commands: add, list, complete, delete,
undo, dashboard, quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			app, err := r.application(ctx)
			if err != nil {
				return err
			}
			return NewShellCommand(app, r.getAppTimeout()).Execute(ctx)
		},
	}
}

// newShellTree builds a fresh command tree for one shell line
func newShellTree(app *App, timeout time.Duration) *cobra.Command {
	get := func(context.Context) (*App, error) { return app, nil }
	tree := &cobra.Command{
		Use:           "td>",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	tree.CompletionOptions.DisableDefaultCmd = true
	tree.AddCommand(taskCommands(get, func() time.Duration { return timeout })...)
	tree.AddCommand(
		&cobra.Command{
			Use:   "undo",
			Short: "Restore the last deleted task",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
				defer cancel()
				return NewUndoCommand(app).Execute(ctx)
			},
		},
		&cobra.Command{
			Use:     "quit",
			Aliases: []string{"exit"},
			Short:   "Leave the shell",
			RunE: func(*cobra.Command, []string) error {
				return errQuit
			},
		},
	)
	return tree
}
