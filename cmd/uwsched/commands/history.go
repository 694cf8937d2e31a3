package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"uwsched/internal/export"
	"uwsched/internal/schedule"
	"uwsched/lib/timezone"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var historyDb string

var historyCmd = &cobra.Command{
	Use:   "history <subject> <course number> [--db <path or url>]",
	Short: "Prints the most recent stored schedules of a course from the results database.",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, ok := openStore(cmd, historyDb)
		if !ok {
			return fmt.Errorf("no results database, pass --db or set database in the config")
		}
		defer store.Close()

		key := schedule.QueryKey(args[0], args[1])
		return printHistory(cmd.Context(), cmd.OutOrStdout(), store, key)
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyDb, "db", "", "A sqlite file or libsql url that sessions were recorded in.")
	rootCmd.AddCommand(historyCmd)
}

func printHistory(ctx context.Context, w io.Writer, store export.Store, key string) error {
	entries, startedAt, err := store.Latest(ctx, key)
	if errors.Is(err, export.ErrNoResults) {
		fmt.Fprintf(w, "No stored schedules for %s\n", key)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(
		w, "%s, recorded %s\n",
		key, startedAt.In(timezone.Location).Format("2006-01-02 15:04"),
	)

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Section", "Time", "Days"})
	for _, entry := range entries {
		days := make([]string, len(entry.Days))
		for i, d := range entry.Days {
			days[i] = string(d)
		}
		t.AppendRow(table.Row{entry.Section, entry.Time, strings.Join(days, " ")})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
	return nil
}
