package trainer

// Crafter proposes a new weight vector each cycle and reacts to the trainer's
// accept/reject verdicts. Current returns the live vector that digraphs bind;
// Best is the snapshot of the best-scoring vector ever accepted.
type Crafter interface {
	Current() []int16
	Best() []int16
	NotifyImprove()
	NotifyNoImprove()
	Finalize()
	Snapshot() CrafterSnapshot
}

// CrafterSnapshot is a read-only view of the crafter's search state, used for
// progress reporting.
type CrafterSnapshot struct {
	PNumerator         float64
	MaxWeightDelta     int
	Crawl              bool
	PreviouslyImproved bool
	AlterCount         int
}

// Search tunables. The exact constants matter for reproducibility.
const (
	alteringsPMultiplier = 0.99
	alteringsMinP        = 0.1

	maxWeightDeltaCap          = 1<<16 - 1
	maxWeightDeltaDecrementCap = maxWeightDeltaCap / 1000
)

// GeometricCrafter drives a stochastic hill climb over the weight vector. A
// geometric distribution picks a sparse set of indices to perturb; on
// stagnation the crafter drops into a unit-step crawl around the last
// successful direction pattern, flips it once, then re-randomizes.
type GeometricCrafter struct {
	rng *PCG32

	current []int16
	best    []int16

	alterIndices    []int
	alterDirections []bool

	pNumerator     float64
	maxWeightDelta int

	crawl              bool
	previouslyImproved bool
}

// NewGeometricCrafter builds a crafter over weightsCount weights, every one
// initialized uniformly at random, and arms the first alteration plan.
func NewGeometricCrafter(weightsCount int, seed int64) *GeometricCrafter {
	rng := NewPCG32(seed)
	current := make([]int16, weightsCount)
	for i := range current {
		current[i] = int16(rng.Uint32())
	}
	return newGeometricCrafter(rng, current)
}

// NewGeometricCrafterWithWeights builds a crafter whose search starts from an
// already-trained vector instead of random noise.
func NewGeometricCrafterWithWeights(weights []int16, seed int64) *GeometricCrafter {
	current := make([]int16, len(weights))
	copy(current, weights)
	return newGeometricCrafter(NewPCG32(seed), current)
}

func newGeometricCrafter(rng *PCG32, current []int16) *GeometricCrafter {
	c := &GeometricCrafter{
		rng:     rng,
		current: current,
		best:    append([]int16(nil), current...),
	}
	c.randomizeAlterings()
	c.alterUntilChanged()
	return c
}

// Current returns the live weight vector. Digraphs hold this slice for the
// life of the run; the trainer's cycle barrier keeps the sharing safe.
func (c *GeometricCrafter) Current() []int16 { return c.current }

// Best returns the best-scoring vector ever accepted.
func (c *GeometricCrafter) Best() []int16 { return c.best }

// Snapshot reports the search state for progress records.
func (c *GeometricCrafter) Snapshot() CrafterSnapshot {
	return CrafterSnapshot{
		PNumerator:         c.pNumerator,
		MaxWeightDelta:     c.maxWeightDelta,
		Crawl:              c.crawl,
		PreviouslyImproved: c.previouslyImproved,
		AlterCount:         len(c.alterIndices),
	}
}

// NotifyImprove records the current vector as the new best and applies the
// same alteration plan again.
func (c *GeometricCrafter) NotifyImprove() {
	copy(c.best, c.current)
	c.previouslyImproved = true
	c.alterUntilChanged()
}

// NotifyNoImprove rolls the current vector back to the best one and picks the
// next move of the (crawl, previouslyImproved) state machine: re-randomize,
// enter crawl, flip the crawl directions, or leave crawl.
func (c *GeometricCrafter) NotifyNoImprove() {
	copy(c.current, c.best)

	switch {
	case !c.crawl && !c.previouslyImproved:
		c.randomizeAlterings()
	case !c.crawl && c.previouslyImproved:
		c.crawl = true
		c.previouslyImproved = false
	case c.crawl && !c.previouslyImproved:
		for i := range c.alterDirections {
			c.alterDirections[i] = !c.alterDirections[i]
		}
		c.previouslyImproved = true
	default:
		c.randomizeAlterings()
	}
	c.alterUntilChanged()
}

// Finalize copies best into current so the persisted vector is the best
// observed.
func (c *GeometricCrafter) Finalize() {
	copy(c.current, c.best)
}

// randomizeAlterings chooses which weights the next proposal perturbs and in
// which direction. The index set is a random walk with strides drawn from
// [1, maxInterval], where maxInterval follows a geometric law whose parameter
// decays by 1% per re-randomization and wraps around once it gets too cold.
func (c *GeometricCrafter) randomizeAlterings() {
	c.crawl = false
	c.previouslyImproved = false

	weightsCount := len(c.current)
	c.pNumerator *= alteringsPMultiplier
	if c.pNumerator < alteringsMinP {
		c.pNumerator = float64(weightsCount) * alteringsPMultiplier
	}

	x := c.rng.Geometric(c.pNumerator/float64(weightsCount), weightsCount)
	maxInterval := x + 1
	if maxInterval > weightsCount {
		maxInterval = weightsCount
	}

	c.alterIndices = c.alterIndices[:0]
	if maxInterval > 1 {
		for i := c.rng.Intn(maxInterval); i < weightsCount; i += c.rng.IntBetween(1, maxInterval) {
			c.alterIndices = append(c.alterIndices, i)
		}
	} else {
		for i := 0; i < weightsCount; i++ {
			c.alterIndices = append(c.alterIndices, i)
		}
	}

	c.alterDirections = c.alterDirections[:0]
	for range c.alterIndices {
		c.alterDirections = append(c.alterDirections, c.rng.Bool())
	}
}

// alter applies the current plan to the current vector and reports whether
// any weight actually changed. Crawl moves by single steps; otherwise each
// chosen weight moves by a random magnitude bounded by maxWeightDelta, which
// shrinks by a random decrement each call and resets to the full weight span
// once exhausted.
func (c *GeometricCrafter) alter() bool {
	changed := false

	if c.crawl {
		for i, idx := range c.alterIndices {
			if c.nudge(idx, 1, c.alterDirections[i]) {
				changed = true
			}
		}
		return changed
	}

	decrement := c.rng.IntBetween(1, maxWeightDeltaDecrementCap)
	if decrement+2 > c.maxWeightDelta {
		c.maxWeightDelta = maxWeightDeltaCap
	} else {
		c.maxWeightDelta -= decrement
	}

	for i, idx := range c.alterIndices {
		magnitude := c.rng.IntBetween(1, c.maxWeightDelta)
		if c.nudge(idx, magnitude, c.alterDirections[i]) {
			changed = true
		}
	}
	return changed
}

// nudge moves one weight by magnitude in the given direction, saturating at
// the weight bounds, and reports whether the stored value changed.
func (c *GeometricCrafter) nudge(idx, magnitude int, up bool) bool {
	wide := int32(c.current[idx])
	if up {
		wide += int32(magnitude)
	} else {
		wide -= int32(magnitude)
	}
	if wide > MaxWeight {
		wide = MaxWeight
	} else if wide < MinWeight {
		wide = MinWeight
	}
	if int16(wide) == c.current[idx] {
		return false
	}
	c.current[idx] = int16(wide)
	return true
}

// alterUntilChanged re-randomizes the plan until alter mutates at least one
// weight, so every notify leaves current differing from best whenever the
// bounds allow it.
func (c *GeometricCrafter) alterUntilChanged() {
	for !c.alter() {
		c.randomizeAlterings()
	}
}
