// Package cmd implements the CLI command structure for studyplan.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nibzard/studyplan-go/internal/config"
	"github.com/nibzard/studyplan-go/internal/logging"
	"github.com/nibzard/studyplan-go/internal/shell"
	"github.com/nibzard/studyplan-go/internal/store"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Streams are the standard streams a command reads from and writes to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process standard streams.
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// Run executes the studyplan CLI with the process standard streams.
func Run(ctx context.Context, args []string) error {
	return RunWithStreams(ctx, args, StdStreams())
}

// RunWithStreams executes the studyplan CLI with the given streams.
func RunWithStreams(ctx context.Context, args []string, streams Streams) error {
	root := newRootCommand()
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)
	return root.ExecuteContext(ctx)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "studyplan",
		Short: "Track study tasks by priority and due date",
		Long: `studyplan keeps a list of study tasks in a CSV file.

Run without a command to open the interactive menu: add tasks, view
pending tasks sorted by priority and due date, and mark tasks complete.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runShell,
	}
	config.BindFlags(root.PersistentFlags())
	root.SetVersionTemplate(versionString() + "\n")

	root.AddCommand(
		newListCommand(),
		newTUICommand(),
		newExportCommand(),
		newImportCommand(),
		newConfigCommand(),
		newVersionCommand(),
	)
	return root
}

// env is the loaded configuration and logger shared by commands.
type env struct {
	cfg    *config.Config
	logger *log.Logger
}

// setup loads configuration from flags and builds the diagnostic logger.
func setup(c *cobra.Command) (*env, error) {
	cfg, err := config.Load(c.Flags())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	logger := logging.New(c.ErrOrStderr(), logging.OptionsFromConfig(cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller))
	for _, path := range cfg.ConfigFiles {
		logger.Debug("Loaded config file", "path", path)
	}
	return &env{cfg: cfg, logger: logger}, nil
}

// openStore loads the configured task file.
func (e *env) openStore() (*store.Store, error) {
	st, err := store.Open(e.cfg.TaskFile, e.logger)
	if err != nil {
		return nil, fmt.Errorf("loading tasks: %w", err)
	}
	return st, nil
}

// runShell starts the interactive menu.
func runShell(c *cobra.Command, _ []string) error {
	e, err := setup(c)
	if err != nil {
		return err
	}
	st, err := e.openStore()
	if err != nil {
		return err
	}
	sh := shell.New(st, c.InOrStdin(), c.OutOrStdout(),
		shell.WithColor(e.cfg.Color),
		shell.WithLogger(e.logger),
	)
	return sh.Run(c.Context())
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			fmt.Fprintln(c.OutOrStdout(), versionString())
			return nil
		},
	}
}

func versionString() string {
	return fmt.Sprintf("studyplan %s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
