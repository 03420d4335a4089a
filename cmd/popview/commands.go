package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/five82/popview/internal/app"
	"github.com/five82/popview/internal/logging"
	"github.com/five82/popview/internal/logtail"
	"github.com/five82/popview/internal/population"
	"github.com/five82/popview/internal/ui"
)

const plainChartWidth = 60

// openSession resolves config and opens a session that logs to stderr.
func (f *rootFlags) openSession(cmd *cobra.Command) (*app.Session, error) {
	cfg, err := f.resolve(cmd)
	if err != nil {
		return nil, err
	}
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logging.Console(cmd.ErrOrStderr(), level)
	return app.Open(cfg, app.SessionOptions{Ephemeral: f.ephemeral, Version: getVersion()}, log)
}

func newStatesCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "states",
		Short: "List every state in the DataUSA dataset",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctrl := s.Controller
			ctrl.Hydrate(cmd.Context())
			if err := ctrl.FetchPopulation(cmd.Context()); err != nil {
				return fmt.Errorf("fetch population: %w", err)
			}
			snap := ctrl.Store().Snapshot()
			out := cmd.OutOrStdout()
			for _, name := range population.UniqueStateNames(snap.Records) {
				marker := "  "
				switch {
				case name == snap.Selected:
					marker = "> "
				case snap.IsFavorite(name):
					marker = "* "
				}
				fmt.Fprintln(out, marker+name)
			}
			return nil
		},
	}
}

func newShowCmd(flags *rootFlags) *cobra.Command {
	var remember bool
	cmd := &cobra.Command{
		Use:   "show <state>",
		Short: "Print population by year and a bar chart for one state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := flags.openSession(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			ctrl := s.Controller
			if err := ctrl.FetchPopulation(cmd.Context()); err != nil {
				return fmt.Errorf("fetch population: %w", err)
			}
			records := ctrl.Store().Snapshot().Records
			name, ok := matchState(args[0], population.UniqueStateNames(records))
			if !ok {
				return fmt.Errorf("no population data for %q", args[0])
			}
			if remember {
				ctrl.SetSelectedState(cmd.Context(), name)
			}
			writeShow(cmd.OutOrStdout(), name, records)
			return nil
		},
	}
	cmd.Flags().BoolVar(&remember, "select", false, "save the state as the selection for the interactive view")
	return cmd
}

func writeShow(w io.Writer, name string, records []population.Record) {
	rows := population.FilterByState(name, records)
	fmt.Fprintln(w, name)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-6s %14s\n", "Year", "Population")
	for _, r := range rows {
		fmt.Fprintf(w, "%-6d %14s\n", r.Year, ui.FormatCount(r.Population))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, ui.PlainChart(population.ChartSeries(name, records), plainChartWidth))
}

func newFavoritesCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "Manage the saved list of favorite states",
	}

	printList := func(cmd *cobra.Command, s *app.Session) {
		for _, name := range s.Controller.Store().Snapshot().Favorites {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "Print favorite states in the order they were added",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := flags.openSession(cmd)
				if err != nil {
					return err
				}
				defer s.Close()
				s.Controller.Hydrate(cmd.Context())
				printList(cmd, s)
				return nil
			},
		},
		&cobra.Command{
			Use:   "add <state>...",
			Short: "Add states to favorites; existing entries are kept once",
			Args:  cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := flags.openSession(cmd)
				if err != nil {
					return err
				}
				defer s.Close()
				s.Controller.Hydrate(cmd.Context())
				for _, name := range args {
					if name = strings.TrimSpace(name); name != "" {
						s.Controller.AddFavorite(cmd.Context(), name)
					}
				}
				printList(cmd, s)
				return nil
			},
		},
		&cobra.Command{
			Use:     "remove <state>...",
			Aliases: []string{"rm"},
			Short:   "Remove states from favorites",
			Args:    cobra.MinimumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := flags.openSession(cmd)
				if err != nil {
					return err
				}
				defer s.Close()
				s.Controller.Hydrate(cmd.Context())
				for _, name := range args {
					s.Controller.RemoveFavorite(cmd.Context(), strings.TrimSpace(name))
				}
				printList(cmd, s)
				return nil
			},
		},
	)
	return cmd
}

func newLogsCmd(flags *rootFlags) *cobra.Command {
	var (
		lines int
		level string
	)
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Print the tail of the interactive view's log file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.resolve(cmd)
			if err != nil {
				return err
			}
			minLevel, err := logging.ParseLevel(level)
			if err != nil {
				return err
			}
			raw, err := logtail.Read(cfg.LogFile, lines)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, e := range logtail.Filter(raw, minLevel) {
				fmt.Fprintln(out, e.Format())
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&lines, "lines", "n", 100, "number of lines to read from the end (0 for all)")
	cmd.Flags().StringVar(&level, "level", "trace", "minimum level to print")
	return cmd
}

// matchState finds arg among names, ignoring case and surrounding space.
func matchState(arg string, names []string) (string, bool) {
	want := strings.TrimSpace(arg)
	for _, name := range names {
		if strings.EqualFold(name, want) {
			return name, true
		}
	}
	return "", false
}
