package trainer

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"time"

	"github.com/coder/quartz"
)

// EventRank is one event's contribution to the ranks total.
type EventRank struct {
	Event      string
	Rank       int
	Candidates int
}

// Progress is the record emitted periodically and at every improvement.
type Progress struct {
	Cycle           int
	MaxCycles       int
	PercentComplete float64
	CyclesPerSecond float64
	ETA             time.Duration
	RanksTotal      int64
	Optimum         int64
	Improved        bool
	EventRanks      []EventRank
	Crafter         CrafterSnapshot
}

// Result summarises a finished run. The events retain the sinks of the final
// evaluation under the best weights, ready for reporting.
type Result struct {
	Cycles     int
	RanksTotal int64
	Optimum    int64
	Stopped    bool
	Weights    []int16
}

// Trainer owns the crafter, the worker pool, and the event corpus, and runs
// the accept/reject search loop over them.
type Trainer struct {
	cfg     TrainingConfig
	events  []*Event
	crafter Crafter
	pool    *Pool
	clock   quartz.Clock
	seed    int64
}

// NewTrainer validates the config, builds the crafter (random or from the
// configured initial weights), starts the pool, and binds the crafter's
// current vector to every digraph for the life of the run.
func NewTrainer(cfg TrainingConfig, events []*Event) (*Trainer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: no events to train on", ErrBadArguments)
	}

	required := events[0].RequiredWeightsCount()
	for _, e := range events[1:] {
		if e.RequiredWeightsCount() != required {
			return nil, fmt.Errorf("%w: %q needs %d, %q needs %d", ErrIncompatibleEvents,
				events[0].Name(), required, e.Name(), e.RequiredWeightsCount())
		}
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var crafter Crafter
	if cfg.InitialWeights != nil {
		if len(cfg.InitialWeights) != required {
			return nil, fmt.Errorf("%w: events need %d weights, got %d",
				ErrWeightsSizeMismatch, required, len(cfg.InitialWeights))
		}
		crafter = NewGeometricCrafterWithWeights(cfg.InitialWeights, seed)
	} else {
		crafter = NewGeometricCrafter(required, seed)
	}

	t := &Trainer{
		cfg:     cfg,
		events:  events,
		crafter: crafter,
		pool:    NewPool(ResolveWorkerCount(cfg.Workers)),
		clock:   quartz.NewReal(),
		seed:    seed,
	}
	for _, e := range events {
		if err := e.BindWeights(crafter.Current()); err != nil {
			t.pool.Close()
			return nil, err
		}
	}
	return t, nil
}

// SetClock replaces the wall clock driving progress and checkpoint cadence.
// Tests inject a mock here; production keeps the real clock.
func (t *Trainer) SetClock(clock quartz.Clock) { t.clock = clock }

// Seed returns the PRNG seed actually used, for logging reproducibility.
func (t *Trainer) Seed() int64 { return t.seed }

// Events returns the trained corpus.
func (t *Trainer) Events() []*Event { return t.events }

// RequiredWeightsCount returns the weight count shared by the whole corpus.
func (t *Trainer) RequiredWeightsCount() int {
	return t.events[0].RequiredWeightsCount()
}

// Close releases the worker pool.
func (t *Trainer) Close() {
	t.pool.Close()
}

// evaluateAll runs every event through the pool and returns the ranks total
// with the per-event breakdown. The pool barrier guarantees the crafter never
// mutates weights while an evaluation is in flight.
func (t *Trainer) evaluateAll() (int64, []EventRank) {
	batch := make([]func(), len(t.events))
	for i, e := range t.events {
		batch[i] = e.Evaluate
	}
	t.pool.Run(batch)

	var total int64
	ranks := make([]EventRank, len(t.events))
	for i, e := range t.events {
		rank := e.WinnerRank()
		total += int64(rank)
		ranks[i] = EventRank{Event: e.Name(), Rank: rank, Candidates: len(e.Candidates())}
	}
	return total, ranks
}

// Run executes the search until max cycles, the optimum ranks total, or a
// cancelled context. Cancellation is cooperative and cycle-granular: an
// in-flight batch always completes. On exit the best vector is copied into
// current and the corpus is evaluated once more under it.
func (t *Trainer) Run(ctx context.Context, progress func(Progress)) Result {
	optimum := int64(len(t.events))
	bestTotal := int64(math.MaxInt64)

	start := t.clock.Now()
	lastProgress := start
	lastCheckpoint := start
	stopped := false

	cycle := 0
	for ; cycle < t.cfg.MaxCycles && bestTotal != optimum; cycle++ {
		if ctx.Err() != nil {
			stopped = true
			break
		}

		total, ranks := t.evaluateAll()
		improved := total < bestTotal
		if improved {
			bestTotal = total
			t.crafter.NotifyImprove()
		} else {
			t.crafter.NotifyNoImprove()
		}

		now := t.clock.Now()
		if progress != nil && (improved || now.Sub(lastProgress) >= t.cfg.ProgressEvery) {
			progress(t.progressRecord(cycle+1, now.Sub(start), bestTotal, optimum, improved, ranks))
			lastProgress = now
		}
		if t.cfg.CheckpointEvery > 0 && now.Sub(lastCheckpoint) >= t.cfg.CheckpointEvery {
			_ = t.SaveCheckpoint()
			lastCheckpoint = now
		}
	}

	t.crafter.Finalize()
	final, _ := t.evaluateAll()

	return Result{
		Cycles:     cycle,
		RanksTotal: final,
		Optimum:    optimum,
		Stopped:    stopped,
		Weights:    append([]int16(nil), t.crafter.Best()...),
	}
}

func (t *Trainer) progressRecord(cycles int, elapsed time.Duration, bestTotal, optimum int64, improved bool, ranks []EventRank) Progress {
	record := Progress{
		Cycle:           cycles,
		MaxCycles:       t.cfg.MaxCycles,
		PercentComplete: 100 * float64(cycles) / float64(t.cfg.MaxCycles),
		RanksTotal:      bestTotal,
		Optimum:         optimum,
		Improved:        improved,
		EventRanks:      ranks,
		Crafter:         t.crafter.Snapshot(),
	}
	if elapsed > 0 {
		record.CyclesPerSecond = float64(cycles) / elapsed.Seconds()
		remaining := t.cfg.MaxCycles - cycles
		record.ETA = time.Duration(float64(remaining)/record.CyclesPerSecond) * time.Second
	}
	return record
}

// SaveBestWeights persists the best vector into dir under the canonical
// timestamped name and returns the full path.
func (t *Trainer) SaveBestWeights(dir string) (string, error) {
	name := WeightsFileName(t.clock.Now(), t.RequiredWeightsCount())
	path := filepath.Join(dir, name)
	if err := WriteWeightsFile(path, t.crafter.Best()); err != nil {
		return "", err
	}
	return path, nil
}
