package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nibzard/studyplan-go/internal/exchange"
	"github.com/nibzard/studyplan-go/internal/shell"
	"github.com/nibzard/studyplan-go/internal/ui"
	"github.com/nibzard/studyplan-go/internal/utils"
)

func newListCommand() *cobra.Command {
	var all bool
	c := &cobra.Command{
		Use:   "list",
		Short: "Print pending tasks sorted by priority and due date",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}
			sh := shell.New(st, nil, c.OutOrStdout(), shell.WithColor(e.cfg.Color), shell.WithLogger(e.logger))
			if all {
				sh.ViewAll()
			} else {
				sh.ViewPending()
			}
			return nil
		},
	}
	c.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks")
	return c
}

func newTUICommand() *cobra.Command {
	var (
		all     bool
		refresh time.Duration
	)
	c := &cobra.Command{
		Use:   "tui",
		Short: "Open a read-only board of tasks",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			if refresh <= 0 {
				return fmt.Errorf("refresh interval must be positive, got %s", refresh)
			}
			return ui.RunTUI(c.Context(), e.cfg.TaskFile,
				ui.WithShowAll(all),
				ui.WithRefreshInterval(refresh),
			)
		},
	}
	c.Flags().BoolVarP(&all, "all", "a", false, "Start on the all-tasks view")
	c.Flags().DurationVar(&refresh, "refresh", ui.DefaultRefreshInterval, "How often to reread the task file")
	return c
}

func newExportCommand() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "export",
		Short: "Write every task as a JSON document",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			st, err := e.openStore()
			if err != nil {
				return err
			}

			w := c.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create export file: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := exchange.Export(w, st.Tasks(), time.Now()); err != nil {
				return err
			}
			e.logger.Info("Exported tasks", "count", st.Len(), "to", exportTarget(output))
			return nil
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return c
}

func exportTarget(output string) string {
	if output == "" || output == "-" {
		return "stdout"
	}
	return output
}

func newImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.json>",
		Short: "Append tasks from a JSON document and save",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			tasks, err := exchange.Import(f)
			if err != nil {
				return err
			}

			st, err := e.openStore()
			if err != nil {
				return err
			}
			for _, t := range tasks {
				st.Add(t)
			}
			if err := st.Save(); err != nil {
				return fmt.Errorf("save tasks: %w", err)
			}
			fmt.Fprintf(c.OutOrStdout(), "Imported %d %s into %s.\n", len(tasks), utils.Plural(len(tasks), "task"), st.Path())
			return nil
		},
	}
}

func newConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration and where each value came from",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, _ []string) error {
			e, err := setup(c)
			if err != nil {
				return err
			}
			cfg := e.cfg

			values := map[string]string{
				"task_file":      cfg.TaskFile,
				"log_level":      cfg.LogLevel,
				"log_format":     cfg.LogFormat,
				"log_timestamps": fmt.Sprint(cfg.LogTimestamps),
				"log_caller":     fmt.Sprint(cfg.LogCaller),
				"color":          fmt.Sprint(cfg.Color),
			}
			keys := make([]string, 0, len(values))
			for k := range values {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			tw := tabwriter.NewWriter(c.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, k := range keys {
				fmt.Fprintf(tw, "%s\t%s\t(%s)\n", k, values[k], cfg.Sources[k])
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			for _, path := range cfg.ConfigFiles {
				fmt.Fprintf(c.OutOrStdout(), "config file: %s\n", path)
			}
			return nil
		},
	}
}
