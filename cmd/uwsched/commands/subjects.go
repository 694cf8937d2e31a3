package commands

import (
	"uwsched/internal/scrapers/expert"
	"uwsched/lib/textutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects [prefix]",
	Short: "Lists the subjects of the schedule page, optionally only the ones starting with a prefix.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fetcher, err := newFetcher(newTelemetryAPI())
		if err != nil {
			return err
		}
		subjects, err := fetcher.Subjects(cmd.Context())
		if err != nil {
			return err
		}

		prefix := ""
		if len(args) == 1 {
			prefix = args[0]
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"Subject", "Value"})
		for _, s := range subjects {
			if !textutil.HasPrefixFold(s.Label, prefix) {
				continue
			}
			t.AppendRow(table.Row{s.Label, s.Value})
		}
		if t.Length() == 0 && prefix != "" {
			suggestions := expert.SuggestSubjects(subjects, prefix, 3)
			for _, label := range suggestions {
				t.AppendRow(table.Row{label, "(did you mean)"})
			}
		}

		t.SetStyle(table.StyleRounded)
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(subjectsCmd)
}
