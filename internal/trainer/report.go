package trainer

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RankingReport renders the per-event candidate ranking under the sinks of
// the most recent evaluation, winners marked. Used for the final report after
// training and by the rank command.
func RankingReport(events []*Event) string {
	var sb strings.Builder

	for i, e := range events {
		t := table.NewWriter()
		t.SetTitle(fmt.Sprintf("%s  (winner rank %d of %d)", e.Name(), e.WinnerRank(), len(e.Candidates())))
		t.AppendHeader(table.Row{"#", "Candidate", "Sink"})

		winner := e.Winner().Digraph
		for pos, c := range e.CandidatesBySink() {
			name := c.Name
			if c.Digraph == winner {
				name += " *"
			}
			t.AppendRow(table.Row{pos + 1, name, c.Digraph.Sink()})
		}

		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(t.Render())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// EventSummary renders one event file's header facts and candidate names,
// used by the inspect command.
func EventSummary(name string, info *EventFileInfo) string {
	t := table.NewWriter()
	t.SetTitle(fmt.Sprintf("%s  (%d candidates, %dx%d, %d weights)",
		name, len(info.Names), info.Rows, info.Cols, info.RequiredWeights))
	t.AppendHeader(table.Row{"#", "Candidate"})

	for i, candidate := range info.Names {
		t.AppendRow(table.Row{i + 1, candidate})
	}
	return t.Render()
}
