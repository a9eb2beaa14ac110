package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/nic-ch/naive-supervised/internal/trainer"
)

type RankCmd struct {
	Weights string   `arg:"" help:"Weights file to apply" type:"existingfile"`
	Args    []string `arg:"" name:"pairs" help:"Winner-name/event-file pairs"`
}

func (cmd *RankCmd) Run() error {
	if len(cmd.Args) < 2 || len(cmd.Args)%2 != 0 {
		return fmt.Errorf("%w: winner-name/event-file pairs expected", trainer.ErrBadArguments)
	}
	specs := make([]trainer.EventSpec, 0, len(cmd.Args)/2)
	for i := 0; i < len(cmd.Args); i += 2 {
		specs = append(specs, trainer.EventSpec{WinnerName: cmd.Args[i], Path: cmd.Args[i+1]})
	}

	events, err := trainer.LoadEvents(context.Background(), specs)
	if err != nil {
		return err
	}

	weights, err := trainer.ReadWeightsFile(cmd.Weights, events[0].RequiredWeightsCount())
	if err != nil {
		return err
	}

	var total int64
	for _, e := range events {
		if err := e.BindWeights(weights); err != nil {
			return err
		}
		e.Evaluate()
		total += int64(e.WinnerRank())
	}

	log.Info().Int64("ranks_total", total).Int64("optimum", int64(len(events))).Msg("ranking computed")
	fmt.Println(trainer.RankingReport(events))
	return nil
}
