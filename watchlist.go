package stonks

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"log"
	"os"
	"strings"
)

// Group associates a user-chosen category (e.g. "crypto", "tech") with the
// symbols tracked under it. The category becomes a directory level in the
// archive.
type Group struct {
	Name    string
	Symbols []string
}

// Watchlist is the ordered list of groups read from the watchlist file.
type Watchlist []Group

// ParseWatchlist reads a watchlist in its text form: one "group: SYM1, SYM2"
// entry per line. Blank lines and lines starting with '#' are ignored.
// Malformed lines are logged and skipped. Repeating a group name appends to
// the existing group.
func ParseWatchlist(r io.Reader) (Watchlist, error) {
	var list Watchlist
	index := make(map[string]int) // group name to position in list

	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		name, rest, found := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			log.Printf("warning: skipping malformed watchlist line %d: %q", n, line)
			continue
		}

		var symbols []string
		for _, s := range strings.Split(rest, ",") {
			if s = strings.TrimSpace(s); s != "" {
				symbols = append(symbols, s)
			}
		}
		if len(symbols) == 0 {
			log.Printf("warning: skipping watchlist line %d: group %q has no symbols", n, name)
			continue
		}

		if i, ok := index[name]; ok {
			list[i].Symbols = append(list[i].Symbols, symbols...)
			continue
		}
		index[name] = len(list)
		list = append(list, Group{Name: name, Symbols: symbols})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read watchlist: %w", err)
	}
	return list, nil
}

// LoadWatchlist reads the watchlist from a file.
func LoadWatchlist(path string) (Watchlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open watchlist %q: %w", path, err)
	}
	defer f.Close()
	return ParseWatchlist(f)
}

// All iterates over every (group, symbol) pair in file order.
func (w Watchlist) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, g := range w {
			for _, s := range g.Symbols {
				if !yield(g.Name, s) {
					return
				}
			}
		}
	}
}

// Has reports whether symbol appears in any group.
func (w Watchlist) Has(symbol string) bool {
	for _, s := range w.Symbols() {
		if s == symbol {
			return true
		}
	}
	return false
}

// Symbols returns every symbol in file order.
func (w Watchlist) Symbols() []string {
	var symbols []string
	for _, g := range w {
		symbols = append(symbols, g.Symbols...)
	}
	return symbols
}
