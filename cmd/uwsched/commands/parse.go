package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"uwsched/internal/schedule"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Extracts schedule entries from the saved text of a results page ('-' or no file reads stdin).",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var in io.Reader = cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}

		text, err := io.ReadAll(in)
		if err != nil {
			return err
		}
		entries := schedule.ExtractSchedules(string(text))

		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
