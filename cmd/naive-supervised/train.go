package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/nic-ch/naive-supervised/cmd/naive-supervised/shared"
	"github.com/nic-ch/naive-supervised/internal/trainer"
)

type TrainCmd struct {
	MaxCycles int      `arg:"" help:"Maximum number of training cycles"`
	Threads   int      `arg:"" help:"Worker count in [1,1024]; 0 selects half the CPUs"`
	Args      []string `arg:"" name:"pairs" help:"Winner-name/event-file pairs, optionally followed by an initial weights file"`

	Tunables       string `help:"HCL tunables file" type:"existingfile"`
	OutDir         string `help:"Directory the weights file is written into" default:"." type:"existingdir"`
	Seed           int64  `help:"Crafter PRNG seed; 0 uses a time seed" default:"0"`
	CheckpointPath string `help:"Path for periodic best-weights checkpoints"`
	CheckpointMins int    `help:"Checkpoint interval in minutes (0 disables)" default:"0"`
}

func (cmd *TrainCmd) Run() error {
	specs, weightsPath, err := splitTrainArgs(cmd.Args)
	if err != nil {
		return err
	}

	cfg := trainer.DefaultTrainingConfig()
	cfg.MaxCycles = cmd.MaxCycles
	cfg.Workers = cmd.Threads
	cfg.Seed = cmd.Seed
	cfg.CheckpointPath = cmd.CheckpointPath
	cfg.CheckpointEvery = time.Duration(cmd.CheckpointMins) * time.Minute

	if cmd.Tunables != "" {
		tunables, err := trainer.LoadTunables(cmd.Tunables)
		if err != nil {
			return err
		}
		tunables.Apply(&cfg)
		log.Info().Str("path", cmd.Tunables).Msg("tunables applied")
	}

	ctx := shared.SetupSignalHandler(log.Logger)

	events, err := trainer.LoadEvents(ctx, specs)
	if err != nil {
		return err
	}
	log.Info().Int("events", len(events)).Int("weights", events[0].RequiredWeightsCount()).Msg("events loaded")

	if weightsPath != "" {
		weights, err := trainer.ReadWeightsFile(weightsPath, events[0].RequiredWeightsCount())
		if err != nil {
			return err
		}
		cfg.InitialWeights = weights
		log.Info().Str("path", weightsPath).Msg("initial weights loaded")
	}

	t, err := trainer.NewTrainer(cfg, events)
	if err != nil {
		return err
	}
	defer t.Close()

	log.Info().
		Int("max_cycles", cfg.MaxCycles).
		Int("workers", trainer.ResolveWorkerCount(cfg.Workers)).
		Int64("seed", t.Seed()).
		Msg("starting training run")

	start := time.Now()
	result := t.Run(ctx, logProgress)
	duration := time.Since(start)

	if result.Stopped {
		log.Info().Msg("stop requested; persisting best weights")
	}
	log.Info().
		Int("cycles", result.Cycles).
		Int64("ranks_total", result.RanksTotal).
		Int64("optimum", result.Optimum).
		Dur("duration", duration).
		Msg("training completed")

	path, err := t.SaveBestWeights(cmd.OutDir)
	if err != nil {
		return err
	}
	log.Info().Str("path", path).Msg("weights saved")

	fmt.Println(trainer.RankingReport(events))
	return nil
}

// splitTrainArgs separates the winner/event-file pairs from the optional
// trailing weights file.
func splitTrainArgs(args []string) ([]trainer.EventSpec, string, error) {
	if len(args) < 2 {
		return nil, "", fmt.Errorf("%w: at least one winner-name/event-file pair is required", trainer.ErrBadArguments)
	}

	weightsPath := ""
	if len(args)%2 == 1 {
		weightsPath = args[len(args)-1]
		args = args[:len(args)-1]
	}

	specs := make([]trainer.EventSpec, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		specs = append(specs, trainer.EventSpec{WinnerName: args[i], Path: args[i+1]})
	}
	return specs, weightsPath, nil
}

func logProgress(p trainer.Progress) {
	record := log.Info().
		Int("cycle", p.Cycle).
		Str("complete", fmt.Sprintf("%.2f%%", p.PercentComplete)).
		Float64("cycles_per_sec", p.CyclesPerSecond).
		Dur("eta", p.ETA).
		Int64("ranks_total", p.RanksTotal).
		Int64("optimum", p.Optimum).
		Bool("improved", p.Improved)
	record.Msg("progress")

	if p.Improved {
		for _, r := range p.EventRanks {
			log.Debug().Str("event", r.Event).Int("rank", r.Rank).Int("candidates", r.Candidates).Msg("event rank")
		}
	}
	log.Debug().
		Float64("p_numerator", p.Crafter.PNumerator).
		Int("max_weight_delta", p.Crafter.MaxWeightDelta).
		Bool("crawl", p.Crafter.Crawl).
		Int("alterings", p.Crafter.AlterCount).
		Msg("crafter state")
}
