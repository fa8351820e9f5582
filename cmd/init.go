package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
)

const starterWatchlist = `# One group per line: the group becomes a directory level in the archive.
crypto: BTC-USD, ETH-USD
tech: AAPL, MSFT
`

const starterWorkbench = `# Declarative analysis environment, consumed by 'stonks env'.
interpreter: python3
prefix: .prefix
# pip installs under lib/python<minor>/site-packages: keep the PYTHONPATH
# dir and the probe on the same version as 'python3 -V'.
paths:
  - name: PATH
    dir: bin
  - name: PYTHONPATH
    dir: lib/python3.11/site-packages
packages:
  - name: yfinance
    probe: lib/python3.11/site-packages/yfinance
    # keep the version pinned: the probe only checks presence.
    install: [pip, install, --prefix, "{prefix}", "yfinance==0.2.40"]
`

type initCmd struct {
	force bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "writes a starter watchlist and workbench descriptor" }
func (*initCmd) Usage() string {
	return `stonks init [-force]

Writes a starter watchlist and workbench descriptor in place, using the
-watchlist and -workbench paths. Existing files are left alone unless
-force is given.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.force, "force", false, "overwrite existing files")
}

func (c *initCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	files := []struct {
		path    string
		content string
	}{
		{*watchlistFile, starterWatchlist},
		{*workbenchFile, starterWorkbench},
	}

	for _, file := range files {
		if !c.force {
			if _, err := os.Stat(file.path); err == nil {
				fmt.Fprintf(os.Stderr, "Error: %q already exists, use -force to overwrite.\n", file.path)
				return subcommands.ExitFailure
			}
		}
		if err := os.WriteFile(file.path, []byte(file.content), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %q: %v\n", file.path, err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Wrote %s\n", file.path)
	}
	return subcommands.ExitSuccess
}
