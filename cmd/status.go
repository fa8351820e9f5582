package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/H3cth0r/stonks-data/renderer"
	"github.com/google/subcommands"
)

type statusCmd struct{}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "shows what the archive holds for each symbol" }
func (*statusCmd) Usage() string {
	return `stonks status

Shows, for every symbol of the watchlist, how many CSV segments the
archive holds, their total size, and the timestamp of the last stored bar.
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {}

func (c *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	watchlist, err := LoadWatchlist()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load watchlist: %v\n", err)
		return subcommands.ExitFailure
	}

	db := OpenStore()
	report := renderer.Status{DataDir: *dataDir}
	for group, symbol := range watchlist.All() {
		st, err := db.Status(group, symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading archive for %s/%s: %v\n", group, symbol, err)
			return subcommands.ExitFailure
		}
		row := renderer.SymbolStatus{
			Group:    group,
			Symbol:   symbol,
			Segments: st.Segments,
			Bytes:    st.Bytes,
			Rows:     st.Rows,
		}
		if st.HasData {
			row.Last = st.Last.UTC().Format("2006-01-02 15:04:05")
		}
		report.Symbols = append(report.Symbols, row)
	}

	printMarkdown(renderer.StatusMarkdown(&report))
	return subcommands.ExitSuccess
}
