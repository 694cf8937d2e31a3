package session

import (
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const maxErrorWidth = 60

// RenderOutcomes writes a table with one row per query.
func RenderOutcomes(w io.Writer, outcomes []Outcome) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Query", "Status", "Entries", "Error"})

	for _, o := range outcomes {
		errText := ""
		if o.Err != nil {
			errText = strings.ReplaceAll(o.Err.Error(), "\n", " ")
			errText = text.Snip(errText, maxErrorWidth, "...")
		}
		t.AppendRow(table.Row{o.Key, string(o.Status), len(o.Entries), errText})
	}

	t.SetStyle(table.StyleRounded)
	t.Render()
}
