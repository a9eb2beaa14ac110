package main

import (
	"github.com/alecthomas/kong"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/nic-ch/naive-supervised/cmd/naive-supervised/shared"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version kong.VersionFlag `short:"v" help:"Show version"`
	Debug   bool             `help:"Enable debug logging"`

	Train   TrainCmd   `cmd:"" help:"Train weights over one or more event files"`
	Rank    RankCmd    `cmd:"" help:"Apply an existing weights file and print the ranking"`
	Inspect InspectCmd `cmd:"" help:"Validate an event file and list its candidates"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("naive-supervised"),
		kong.Description("Randomized multi-threaded trainer for fixed-point ranking weights"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)

	level := zerolog.InfoLevel
	if cli.Debug {
		level = zerolog.DebugLevel
	}
	log.Logger = shared.SetupLogger(level)

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
