package trainer_test

import (
	"errors"
	"testing"

	"github.com/nic-ch/naive-supervised/internal/trainer"
)

func mustEvent(t *testing.T, name string, winner int, candidates ...trainer.Candidate) *trainer.Event {
	t.Helper()
	e, err := trainer.NewEvent(name, candidates, winner)
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	return e
}

func TestWinnerRankTiesCountAgainstWinner(t *testing.T) {
	// Identical matrices produce identical sinks; the winner shares the top
	// sink with a rival, and the >= tie policy ranks it second.
	inputs := []uint16{1, 2, 3, 4}
	e := mustEvent(t, "tie", 1,
		trainer.Candidate{Name: "rival", Digraph: mustDigraph(t, 2, 2, inputs)},
		trainer.Candidate{Name: "winner", Digraph: mustDigraph(t, 2, 2, inputs)},
	)

	if err := e.BindWeights(constantWeights(e.RequiredWeightsCount(), 7)); err != nil {
		t.Fatalf("bind weights: %v", err)
	}
	e.Evaluate()

	if got := e.WinnerRank(); got != 2 {
		t.Fatalf("winner rank = %d, want 2", got)
	}
}

func TestWinnerRankBounds(t *testing.T) {
	e := mustEvent(t, "bounds", 0,
		trainer.Candidate{Name: "a", Digraph: mustDigraph(t, 2, 2, []uint16{9, 9, 9, 9})},
		trainer.Candidate{Name: "b", Digraph: mustDigraph(t, 2, 2, []uint16{1, 1, 1, 1})},
		trainer.Candidate{Name: "c", Digraph: mustDigraph(t, 2, 2, []uint16{0, 0, 0, 0})},
	)
	if err := e.BindWeights(constantWeights(e.RequiredWeightsCount(), 100)); err != nil {
		t.Fatalf("bind weights: %v", err)
	}
	e.Evaluate()

	rank := e.WinnerRank()
	if rank < 1 || rank > len(e.Candidates()) {
		t.Fatalf("winner rank %d outside [1, %d]", rank, len(e.Candidates()))
	}
}

func TestNewEventRejectsMixedDimensions(t *testing.T) {
	_, err := trainer.NewEvent("mixed", []trainer.Candidate{
		{Name: "a", Digraph: mustDigraph(t, 2, 2, make([]uint16, 4))},
		{Name: "b", Digraph: mustDigraph(t, 3, 2, make([]uint16, 6))},
	}, 0)
	if !errors.Is(err, trainer.ErrIncompatibleEvents) {
		t.Fatalf("err = %v, want ErrIncompatibleEvents", err)
	}
}

func TestNewEventRejectsWinnerOutOfRange(t *testing.T) {
	_, err := trainer.NewEvent("oob", []trainer.Candidate{
		{Name: "a", Digraph: mustDigraph(t, 2, 2, make([]uint16, 4))},
	}, 3)
	if !errors.Is(err, trainer.ErrWinnerMissing) {
		t.Fatalf("err = %v, want ErrWinnerMissing", err)
	}
}

func TestCandidatesBySink(t *testing.T) {
	e := mustEvent(t, "order", 0,
		trainer.Candidate{Name: "small", Digraph: mustDigraph(t, 2, 2, []uint16{1, 1, 1, 1})},
		trainer.Candidate{Name: "large", Digraph: mustDigraph(t, 2, 2, []uint16{900, 900, 900, 900})},
	)
	if err := e.BindWeights(constantWeights(e.RequiredWeightsCount(), 3000)); err != nil {
		t.Fatalf("bind weights: %v", err)
	}
	e.Evaluate()

	sorted := e.CandidatesBySink()
	if sorted[0].Name != "large" || sorted[1].Name != "small" {
		t.Fatalf("unexpected sink order: %q, %q", sorted[0].Name, sorted[1].Name)
	}
}
