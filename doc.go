// Package stonks maintains a local archive of intraday market data.
//
// It reads a watchlist of symbols grouped by category, fetches intraday
// bars incrementally from Yahoo Finance, and appends them to size-rotated
// CSV files under a data directory. The companion envspec package
// provisions the reproducible analysis environment the archive is meant
// to feed.
//
// The stonks command (in the stonks/ directory) exposes all of it as a CLI.
package stonks
