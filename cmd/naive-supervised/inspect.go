package main

import (
	"fmt"
	"path/filepath"

	"github.com/nic-ch/naive-supervised/internal/trainer"
)

type InspectCmd struct {
	Files []string `arg:"" help:"Event files to inspect" type:"existingfile"`
}

func (cmd *InspectCmd) Run() error {
	for _, path := range cmd.Files {
		info, err := trainer.InspectEventFile(path)
		if err != nil {
			return err
		}
		fmt.Println(trainer.EventSummary(filepath.Base(path), info))
	}
	return nil
}
