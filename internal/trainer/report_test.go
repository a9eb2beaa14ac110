package trainer_test

import (
	"strings"
	"testing"

	"github.com/nic-ch/naive-supervised/internal/trainer"
)

func TestRankingReport(t *testing.T) {
	e := mustEvent(t, "EVENT_demo.bin", 0,
		trainer.Candidate{Name: "alpha", Digraph: mustDigraph(t, 2, 2, []uint16{500, 500, 500, 500})},
		trainer.Candidate{Name: "beta", Digraph: mustDigraph(t, 2, 2, []uint16{1, 1, 1, 1})},
	)
	if err := e.BindWeights(constantWeights(e.RequiredWeightsCount(), 2000)); err != nil {
		t.Fatalf("bind weights: %v", err)
	}
	e.Evaluate()

	report := trainer.RankingReport([]*trainer.Event{e})
	for _, want := range []string{"EVENT_demo.bin", "alpha *", "beta", "winner rank 1 of 2"} {
		if !strings.Contains(report, want) {
			t.Fatalf("report missing %q:\n%s", want, report)
		}
	}
}

func TestEventSummary(t *testing.T) {
	info := &trainer.EventFileInfo{
		Rows:            3,
		Cols:            2,
		NameSize:        8,
		Names:           []string{"one", "two"},
		RequiredWeights: 23,
	}
	summary := trainer.EventSummary("EVENT_x.bin", info)
	for _, want := range []string{"EVENT_x.bin", "one", "two", "23 weights"} {
		if !strings.Contains(summary, want) {
			t.Fatalf("summary missing %q:\n%s", want, summary)
		}
	}
}
