package trainer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nic-ch/naive-supervised/internal/trainer"
)

func currentDiffers(c trainer.Crafter) bool {
	current, best := c.Current(), c.Best()
	for i := range current {
		if current[i] != best[i] {
			return true
		}
	}
	return false
}

func TestCrafterProposesChangeFromConstruction(t *testing.T) {
	c := trainer.NewGeometricCrafter(70, 1)
	assert.True(t, currentDiffers(c), "initial plan must mutate at least one weight")
}

func TestCrafterDeterministicForSeed(t *testing.T) {
	a := trainer.NewGeometricCrafter(70, 42)
	b := trainer.NewGeometricCrafter(70, 42)
	require.Equal(t, a.Current(), b.Current())
	require.Equal(t, a.Best(), b.Best())

	for i := 0; i < 50; i++ {
		if i%3 == 0 {
			a.NotifyImprove()
			b.NotifyImprove()
		} else {
			a.NotifyNoImprove()
			b.NotifyNoImprove()
		}
		require.Equal(t, a.Current(), b.Current(), "diverged at notify %d", i)
	}
}

func TestCrafterAlwaysLeavesCurrentDiffering(t *testing.T) {
	c := trainer.NewGeometricCrafter(31, 7)
	for i := 0; i < 500; i++ {
		if i%5 == 0 {
			c.NotifyImprove()
		} else {
			c.NotifyNoImprove()
		}
		if !currentDiffers(c) {
			t.Fatalf("current equals best after notify %d", i)
		}
	}
}

func TestCrafterSaturatedWeightsStillChange(t *testing.T) {
	// Start from an all-maximum vector: any "up" alteration clamps into a
	// no-op, so the crafter must keep re-randomizing until a plan with a
	// downward component lands.
	saturated := make([]int16, 40)
	for i := range saturated {
		saturated[i] = 32767
	}
	c := trainer.NewGeometricCrafterWithWeights(saturated, 3)
	assert.True(t, currentDiffers(c))

	for i := 0; i < 100; i++ {
		c.NotifyNoImprove()
		assert.True(t, currentDiffers(c), "notify %d left current == best", i)
	}
}

func TestCrafterImproveRecordsBest(t *testing.T) {
	c := trainer.NewGeometricCrafter(25, 11)
	proposal := append([]int16(nil), c.Current()...)

	c.NotifyImprove()
	assert.Equal(t, proposal, c.Best(), "best must snapshot the accepted proposal")
	assert.True(t, currentDiffers(c))
}

func TestCrafterNoImproveRestoresBest(t *testing.T) {
	c := trainer.NewGeometricCrafter(25, 13)
	best := append([]int16(nil), c.Best()...)

	c.NotifyNoImprove()
	// Rejected weights are rolled back before the next alteration, so every
	// live weight differs from best only by the fresh plan.
	snapshot := c.Snapshot()
	require.GreaterOrEqual(t, snapshot.AlterCount, 1)
	assert.Equal(t, best, c.Best())
}

func TestCrafterEntersCrawlAfterImprovementStalls(t *testing.T) {
	c := trainer.NewGeometricCrafter(50, 17)

	c.NotifyImprove()
	c.NotifyNoImprove()
	snap := c.Snapshot()
	assert.True(t, snap.Crawl, "a rejection right after an acceptance starts the crawl")
	assert.False(t, snap.PreviouslyImproved)

	// A second rejection inside the crawl flips the direction pattern.
	c.NotifyNoImprove()
	snap = c.Snapshot()
	assert.True(t, snap.Crawl)
	assert.True(t, snap.PreviouslyImproved)

	// A third one abandons the crawl and re-randomizes.
	c.NotifyNoImprove()
	snap = c.Snapshot()
	assert.False(t, snap.Crawl)
	assert.False(t, snap.PreviouslyImproved)
}

func TestCrafterWeightsStayInBounds(t *testing.T) {
	c := trainer.NewGeometricCrafter(20, 19)
	for i := 0; i < 300; i++ {
		if i%7 == 0 {
			c.NotifyImprove()
		} else {
			c.NotifyNoImprove()
		}
		for j, w := range c.Current() {
			if w < -32768 || w > 32767 {
				t.Fatalf("weight %d out of bounds: %d", j, w)
			}
		}
	}
}

func TestCrafterFinalize(t *testing.T) {
	c := trainer.NewGeometricCrafter(30, 23)
	c.NotifyImprove()
	c.NotifyNoImprove()
	c.NotifyNoImprove()

	c.Finalize()
	assert.Equal(t, c.Best(), c.Current())
}
