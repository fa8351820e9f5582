package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	stonks "github.com/H3cth0r/stonks-data"
	"github.com/google/subcommands"
)

type syncCmd struct {
	interval string
	window   time.Duration
	throttle time.Duration
}

func (*syncCmd) Name() string     { return "sync" }
func (*syncCmd) Synopsis() string { return "downloads new intraday bars into the archive" }
func (*syncCmd) Usage() string {
	return `stonks sync [symbol...]

Downloads intraday bars for every symbol of the watchlist and appends them
to the CSV archive. Each symbol resumes right after its last stored bar;
a symbol with no data yet is backfilled over the initial window.

With symbol arguments, only those watchlist symbols are synced.

Usage Examples:
# Sync the whole watchlist.
$ stonks sync

# Sync a single symbol with a deeper backfill.
$ stonks sync -window 168h BTC-USD
`
}

func (c *syncCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.interval, "interval", stonks.DefaultInterval, "bar interval requested from the provider")
	f.DurationVar(&c.window, "window", stonks.DefaultWindow, "backfill window for symbols with no data yet")
	f.DurationVar(&c.throttle, "throttle", stonks.DefaultThrottle, "pause between two symbols")
}

func (c *syncCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	watchlist, err := LoadWatchlist()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not load watchlist: %v\n", err)
		return subcommands.ExitFailure
	}
	if f.NArg() > 0 {
		if watchlist = filterWatchlist(watchlist, f.Args()); len(watchlist) == 0 {
			fmt.Fprintln(os.Stderr, "Error: none of the given symbols is in the watchlist.")
			return subcommands.ExitUsageError
		}
	}

	syncer := &stonks.Syncer{
		Store:    OpenStore(),
		Interval: c.interval,
		Window:   c.window,
		Throttle: c.throttle,
	}

	failed := 0
	for _, r := range syncer.Sync(ctx, watchlist) {
		switch {
		case r.Err != nil:
			failed++
			fmt.Fprintf(os.Stderr, "Error syncing %s/%s: %v\n", r.Group, r.Symbol, r.Err)
		case r.UpToDate:
			fmt.Printf("%s/%s is already up to date.\n", r.Group, r.Symbol)
		default:
			fmt.Printf("✅ %s/%s: appended %d new bars.\n", r.Group, r.Symbol, r.Appended)
		}
	}
	if failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// filterWatchlist keeps only the given symbols, preserving group structure.
func filterWatchlist(w stonks.Watchlist, symbols []string) stonks.Watchlist {
	keep := make(map[string]bool, len(symbols))
	for _, s := range symbols {
		keep[s] = true
	}

	var filtered stonks.Watchlist
	for _, g := range w {
		var kept []string
		for _, s := range g.Symbols {
			if keep[s] {
				kept = append(kept, s)
			}
		}
		if len(kept) > 0 {
			filtered = append(filtered, stonks.Group{Name: g.Name, Symbols: kept})
		}
	}
	return filtered
}
