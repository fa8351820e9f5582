package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	stonks "github.com/H3cth0r/stonks-data"
	"github.com/google/subcommands"
)

type quoteCmd struct{}

func (*quoteCmd) Name() string     { return "quote" }
func (*quoteCmd) Synopsis() string { return "prints the latest traded price of symbols" }
func (*quoteCmd) Usage() string {
	return `stonks quote [symbol...]

Prints the latest traded price of each symbol in its trading currency.
Without arguments the whole watchlist is quoted.

Usage Examples:
$ stonks quote AAPL BTC-USD
`
}

func (c *quoteCmd) SetFlags(f *flag.FlagSet) {}

func (c *quoteCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	symbols := f.Args()
	if len(symbols) == 0 {
		watchlist, err := LoadWatchlist()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: could not load watchlist: %v\n", err)
			return subcommands.ExitFailure
		}
		symbols = watchlist.Symbols()
	}
	if len(symbols) == 0 {
		fmt.Fprintln(os.Stderr, "Error: nothing to quote, the watchlist is empty.")
		return subcommands.ExitUsageError
	}

	failed := 0
	for _, symbol := range symbols {
		m, err := stonks.FetchQuote(nil, symbol)
		if err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "Error quoting %s: %v\n", symbol, err)
			continue
		}
		fmt.Printf("%-12s %s\n", symbol, m)
	}
	if failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
