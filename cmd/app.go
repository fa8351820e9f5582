// Package cmd implements the CLI application to provision the analysis
// workspace and maintain the local market data archive.
package cmd

import (
	"flag"

	stonks "github.com/H3cth0r/stonks-data"
	"github.com/H3cth0r/stonks-data/store"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package calls Register(), then Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&envCmd{}, "workspace")
	c.Register(&initCmd{}, "workspace")

	c.Register(&syncCmd{}, "archive")
	c.Register(&statusCmd{}, "archive")
	c.Register(&quoteCmd{}, "archive")

	c.Register(&topicCmd{}, "documentation")
	c.Register(c.HelpCommand(), "documentation")
	c.Register(c.FlagsCommand(), "documentation")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var watchlistFile = flag.String("watchlist", "tickers.txt", "Path to the watchlist file, one 'group: SYM1, SYM2' entry per line")
var dataDir = flag.String("data-dir", "data", "Path to the CSV archive directory")
var workbenchFile = flag.String("workbench", "workbench.yaml", "Path to the workspace descriptor file")

// LoadWatchlist reads the watchlist named by the -watchlist flag.
func LoadWatchlist() (stonks.Watchlist, error) {
	return stonks.LoadWatchlist(*watchlistFile)
}

// OpenStore returns the archive named by the -data-dir flag.
func OpenStore() *store.Store {
	return store.New(*dataDir)
}
