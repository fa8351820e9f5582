package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/H3cth0r/stonks-data/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion: this returns immediately unless the process is
	// invoked by the shell's completion hook.
	completion().Complete("stonks")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	return &complete.Command{
		Sub: map[string]*complete.Command{
			"env": {Args: predict.Files("*")},
			"init": {Flags: map[string]complete.Predictor{
				"force": predict.Nothing,
			}},
			"sync": {Flags: map[string]complete.Predictor{
				"interval": predict.Set{"1m", "2m", "5m", "15m", "1h"},
				"window":   predict.Something,
				"throttle": predict.Something,
			}},
			"status": {},
			"quote":  {},
			"topic":  {Args: predict.Set{"readme", "environment", "storage", "sync"}},
		},
		Flags: map[string]complete.Predictor{
			"watchlist": predict.Files("*"),
			"data-dir":  predict.Dirs("*"),
			"workbench": predict.Files("*.yaml"),
		},
	}
}
