package trainer

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// TrainingConfig aggregates the parameters that control a training run.
type TrainingConfig struct {
	// MaxCycles bounds the search; the run also ends early on the optimum
	// ranks total or an external stop.
	MaxCycles int

	// Workers is the pool size. Values outside [1, 1024] select half the
	// machine's logical CPUs.
	Workers int

	// Seed seeds the crafter PRNG; 0 uses a time seed.
	Seed int64

	// InitialWeights, when set, starts the search from an existing vector
	// instead of random noise. Its length must match the events' requirement.
	InitialWeights []int16

	// ProgressEvery is the wall-time cadence of periodic progress records.
	// Improvements always emit one regardless.
	ProgressEvery time.Duration

	// CheckpointPath and CheckpointEvery enable periodic persistence of the
	// best weights seen so far. Zero interval disables checkpointing.
	CheckpointPath  string
	CheckpointEvery time.Duration
}

// Validate ensures the training parameters are safe to use.
func (c TrainingConfig) Validate() error {
	if c.MaxCycles <= 0 {
		return errors.New("max cycles must be > 0")
	}
	if c.ProgressEvery < 0 {
		return errors.New("progress interval cannot be negative")
	}
	if c.CheckpointEvery < 0 {
		return errors.New("checkpoint interval cannot be negative")
	}
	if c.CheckpointEvery > 0 && c.CheckpointPath == "" {
		return errors.New("checkpoint interval set without a checkpoint path")
	}
	return nil
}

// DefaultTrainingConfig returns the baseline configuration: auto worker
// count, time seed, one progress record a minute, no checkpoints.
func DefaultTrainingConfig() TrainingConfig {
	return TrainingConfig{
		MaxCycles:     1_000_000,
		Workers:       0,
		Seed:          0,
		ProgressEvery: time.Minute,
	}
}

// Tunables is the optional HCL overrides file:
//
//	training {
//	  workers            = 8
//	  seed               = 42
//	  progress_seconds   = 30
//	  checkpoint_path    = "best.ckpt"
//	  checkpoint_minutes = 10
//	}
type Tunables struct {
	Training TunablesTraining `hcl:"training,block"`
}

// TunablesTraining mirrors the overridable TrainingConfig fields.
type TunablesTraining struct {
	Workers           *int    `hcl:"workers,optional"`
	Seed              *int64  `hcl:"seed,optional"`
	ProgressSeconds   *int    `hcl:"progress_seconds,optional"`
	CheckpointPath    *string `hcl:"checkpoint_path,optional"`
	CheckpointMinutes *int    `hcl:"checkpoint_minutes,optional"`
}

// LoadTunables parses an HCL tunables file.
func LoadTunables(path string) (*Tunables, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("tunables file: %w", err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse tunables file: %s", diags.Error())
	}

	var tunables Tunables
	if diags := gohcl.DecodeBody(file.Body, nil, &tunables); diags.HasErrors() {
		return nil, fmt.Errorf("decode tunables file: %s", diags.Error())
	}
	return &tunables, nil
}

// Apply overrides cfg with every tunable present in the file.
func (t *Tunables) Apply(cfg *TrainingConfig) {
	tr := t.Training
	if tr.Workers != nil {
		cfg.Workers = *tr.Workers
	}
	if tr.Seed != nil {
		cfg.Seed = *tr.Seed
	}
	if tr.ProgressSeconds != nil {
		cfg.ProgressEvery = time.Duration(*tr.ProgressSeconds) * time.Second
	}
	if tr.CheckpointPath != nil {
		cfg.CheckpointPath = *tr.CheckpointPath
	}
	if tr.CheckpointMinutes != nil {
		cfg.CheckpointEvery = time.Duration(*tr.CheckpointMinutes) * time.Minute
	}
}
