package trainer

import (
	"fmt"
	"sort"
)

// Candidate pairs one named input matrix with its pipeline.
type Candidate struct {
	Name    string
	Digraph *Digraph
}

// Event is one training example: a batch of candidate digraphs with exactly
// one designated winner whose output the trainer tries to make largest.
type Event struct {
	name       string
	candidates []Candidate
	winner     int
}

// NewEvent assembles an event from already-built candidates. The winner index
// must be in range, and every digraph must consume the same weight count.
func NewEvent(name string, candidates []Candidate, winner int) (*Event, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("%w: event %q has no candidates", ErrBadFormat, name)
	}
	if winner < 0 || winner >= len(candidates) {
		return nil, fmt.Errorf("%w: event %q winner index %d out of range", ErrWinnerMissing, name, winner)
	}
	want := candidates[0].Digraph.RequiredWeightsCount()
	for _, c := range candidates[1:] {
		if c.Digraph.RequiredWeightsCount() != want {
			return nil, fmt.Errorf("%w: within event %q", ErrIncompatibleEvents, name)
		}
	}
	return &Event{name: name, candidates: candidates, winner: winner}, nil
}

// Name returns the event name.
func (e *Event) Name() string { return e.name }

// Candidates returns the ordered candidate list.
func (e *Event) Candidates() []Candidate { return e.candidates }

// Winner returns the designated winner candidate.
func (e *Event) Winner() Candidate { return e.candidates[e.winner] }

// WinnerIndex returns the winner's position in the candidate list.
func (e *Event) WinnerIndex() int { return e.winner }

// RequiredWeightsCount returns the weight count shared by all candidates.
func (e *Event) RequiredWeightsCount() int {
	return e.candidates[0].Digraph.RequiredWeightsCount()
}

// BindWeights binds every contained digraph to the given vector.
func (e *Event) BindWeights(weights []int16) error {
	for _, c := range e.candidates {
		if err := c.Digraph.BindWeights(weights); err != nil {
			return fmt.Errorf("event %q candidate %q: %w", e.name, c.Name, err)
		}
	}
	return nil
}

// Evaluate runs every candidate pipeline. Candidates are independent, so the
// order is irrelevant; the whole event is the unit of work handed to the pool.
func (e *Event) Evaluate() {
	for _, c := range e.candidates {
		c.Digraph.Evaluate()
	}
}

// WinnerRank counts the candidates (the winner included) whose sink is at
// least the winner's. Ties count against the winner, so best is 1 and worst
// is the candidate count.
func (e *Event) WinnerRank() int {
	target := e.candidates[e.winner].Digraph.Sink()
	rank := 0
	for _, c := range e.candidates {
		if c.Digraph.Sink() >= target {
			rank++
		}
	}
	return rank
}

// CandidatesBySink returns the candidates ordered by descending sink, used
// only for final reporting. Order among equal sinks follows load order.
func (e *Event) CandidatesBySink() []Candidate {
	sorted := make([]Candidate, len(e.candidates))
	copy(sorted, e.candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Digraph.Sink() > sorted[j].Digraph.Sink()
	})
	return sorted
}
