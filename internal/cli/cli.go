// Package cli is the tasktabs command tree. With no subcommand it starts
// the terminal UI; the subcommands drive the same controller from a shell.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tasktabs/internal/app"
	"tasktabs/internal/config"
	"tasktabs/internal/logging"
	"tasktabs/internal/storage"
	"tasktabs/internal/task"
	"tasktabs/internal/ui"
	"tasktabs/internal/view"
)

var Version = "dev"

// Options carries the injectable parts of the command tree.
type Options struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// RunTUI defaults to ui.Run.
	RunTUI func(ctrl *app.Controller, cfg config.Config) error
}

type flags struct {
	configPath string
	dbPath     string
	verbose    bool
}

// Execute runs the command tree and returns the process exit code.
func Execute(args []string, opts Options) int {
	root := NewRoot(opts)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

func NewRoot(opts Options) *cobra.Command {
	if opts.RunTUI == nil {
		opts.RunTUI = ui.Run
	}
	f := &flags{}

	root := &cobra.Command{
		Use:           "tasktabs",
		Short:         "A single-list task manager",
		Long:          "tasktabs keeps one list of tasks with all/pending/completed tabs. Run it without arguments for the terminal UI.",
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, f, true)
			if err != nil {
				return err
			}
			defer s.Close()
			return opts.RunTUI(s.ctrl, s.cfg)
		},
	}
	if opts.Stdin != nil {
		root.SetIn(opts.Stdin)
	}
	if opts.Stdout != nil {
		root.SetOut(opts.Stdout)
	}
	if opts.Stderr != nil {
		root.SetErr(opts.Stderr)
	}

	root.PersistentFlags().StringVar(&f.configPath, "config", "", "config file (default "+config.ResolveConfigPath()+")")
	root.PersistentFlags().StringVar(&f.dbPath, "db", "", "database file, overrides db_path from the config")
	root.PersistentFlags().BoolVarP(&f.verbose, "verbose", "v", false, "log debug output")

	root.AddCommand(
		newAddCmd(f),
		newListCmd(f),
		newToggleCmd(f),
		newRmCmd(f),
		newClearCmd(f),
		newShowCmd(f),
	)
	return root
}

func newAddCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd, f, false)
			if err != nil {
				return err
			}
			defer s.Close()
			text := strings.Join(args, " ")
			if strings.TrimSpace(text) == "" {
				return nil
			}
			before := s.ctrl.State().Tasks.Len()
			v := s.ctrl.Dispatch(app.Submit{Text: text}, nil)
			if s.ctrl.State().Tasks.Len() > before {
				all := s.ctrl.State().Tasks.All()
				fmt.Fprintf(cmd.OutOrStdout(), "Added %d\n", all[len(all)-1].ID)
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newListCmd(f *flags) *cobra.Command {
	var filter string
	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "Print the tasks in the active tab",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, f, false)
			if err != nil {
				return err
			}
			defer s.Close()
			v := s.ctrl.View()
			if filter != "" {
				fl := task.Filter(strings.ToLower(filter))
				if !fl.Valid() {
					return fmt.Errorf("unknown filter %q (want all, pending or completed)", filter)
				}
				v = s.ctrl.Dispatch(app.SelectFilter{Filter: fl}, nil)
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().StringVarP(&filter, "filter", "f", "", "switch to this tab first: all, pending or completed")
	return cmd
}

func newToggleCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <id>",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, f, false)
			if err != nil {
				return err
			}
			defer s.Close()
			if _, ok := s.ctrl.State().Tasks.Get(id); !ok {
				return fmt.Errorf("no task with id %d", id)
			}
			printView(cmd.OutOrStdout(), s.ctrl.Dispatch(app.CheckboxToggled{ID: id}, nil))
			return nil
		},
	}
}

func newRmCmd(f *flags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := openSession(cmd, f, false)
			if err != nil {
				return err
			}
			defer s.Close()
			if _, ok := s.ctrl.State().Tasks.Get(id); !ok {
				return fmt.Errorf("no task with id %d", id)
			}
			v := s.ctrl.Dispatch(app.Delete{ID: id}, confirmer(cmd, yes))
			if _, ok := s.ctrl.State().Tasks.Get(id); ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newClearCmd(f *flags) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every task",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, f, false)
			if err != nil {
				return err
			}
			defer s.Close()
			v := s.ctrl.Dispatch(app.ClearAll{}, confirmer(cmd, yes))
			if s.ctrl.State().Tasks.Len() > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			printView(cmd.OutOrStdout(), v)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func newShowCmd(f *flags) *cobra.Command {
	var html bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Render the active tab, optionally as HTML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := openSession(cmd, f, false)
			if err != nil {
				return err
			}
			defer s.Close()
			if html {
				fmt.Fprint(cmd.OutOrStdout(), s.ctrl.View().HTML())
				return nil
			}
			printView(cmd.OutOrStdout(), s.ctrl.View())
			return nil
		},
	}
	cmd.Flags().BoolVar(&html, "html", false, "print an HTML fragment instead of text")
	return cmd
}

func parseID(s string) (task.ID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid task id %q", s)
	}
	return task.ID(n), nil
}

// confirmer asks on the command's stdin unless yes is set. Anything but
// y or yes, including EOF, declines.
func confirmer(cmd *cobra.Command, yes bool) app.Confirmer {
	if yes {
		return app.Always
	}
	return app.ConfirmFunc(func(prompt string) bool {
		fmt.Fprintf(cmd.OutOrStdout(), "%s [y/N] ", prompt)
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(cmd.OutOrStdout())
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			return true
		}
		return false
	})
}

func printView(w io.Writer, v view.View) {
	tabs := make([]string, 0, len(v.Tabs))
	for _, t := range v.Tabs {
		if t.Active {
			tabs = append(tabs, "["+t.Title()+"]")
			continue
		}
		tabs = append(tabs, " "+t.Title()+" ")
	}
	fmt.Fprintln(w, strings.Join(tabs, " "))
	if v.Empty() {
		fmt.Fprintln(w, view.Placeholder)
		return
	}
	for _, r := range v.Rows {
		cursor := " "
		if r.ID == v.Focus {
			cursor = ">"
		}
		check := "[ ]"
		if r.Completed {
			check = "[x]"
		}
		fmt.Fprintf(w, "%s %s %d  %s\n", cursor, check, r.ID, view.Sanitize(r.Text))
	}
}

type session struct {
	cfg     config.Config
	ctrl    *app.Controller
	closers []func() error
}

func (s *session) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
}

// openSession loads the config, opens storage and builds the controller.
// A database that cannot be opened is not fatal: the session runs on
// in-memory state and says so in the log.
func openSession(cmd *cobra.Command, f *flags, tui bool) (*session, error) {
	path := f.configPath
	if path == "" {
		path = config.ResolveConfigPath()
	}
	cfg, err := config.LoadOrCreate(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if f.dbPath != "" {
		cfg.DBPath = f.dbPath
	}

	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	s := &session{cfg: cfg}
	var logger *slog.Logger
	if tui {
		l, closeLog, err := logging.ToFile(cfg.LogPath, level)
		if err != nil {
			return nil, err
		}
		logger = l
		s.closers = append(s.closers, closeLog)
	} else {
		if !f.verbose {
			level = slog.LevelWarn
		}
		logger = logging.ToWriter(cmd.ErrOrStderr(), level)
	}

	var kv storage.KV
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("storage not available, changes will not be saved", "path", cfg.DBPath, "err", err)
		kv = storage.Unavailable{Err: err}
	} else {
		kv = db
		s.closers = append(s.closers, db.Close)
	}

	adapter := storage.NewAdapter(kv,
		storage.WithLogger(logger),
		storage.WithDefaultFilter(task.ParseFilter(cfg.DefaultFilter)),
	)
	s.ctrl = app.New(adapter,
		app.WithLogger(logger),
		app.WithKeys(app.Keys{Complete: cfg.Keys.Complete, Delete: cfg.Keys.Delete}),
	)
	return s, nil
}
