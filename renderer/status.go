// Package renderer turns tool reports into markdown, ready for the
// terminal.
package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
)

// SymbolStatus is one row of the archive status report.
type SymbolStatus struct {
	Group, Symbol string
	Segments      int
	Bytes         int64
	Rows          int    // rows in the newest segment
	Last          string // last bar timestamp, "" when the symbol has no data
}

// Status is the archive status report.
type Status struct {
	DataDir string
	Symbols []SymbolStatus
}

// StatusMarkdown renders the archive status as a markdown document.
func StatusMarkdown(s *Status) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Archive status")
	doc.PlainText(fmt.Sprintf("Data directory: `%s`", s.DataDir))

	rows := make([][]string, 0, len(s.Symbols))
	for _, sym := range s.Symbols {
		last := sym.Last
		if last == "" {
			last = "never"
		}
		rows = append(rows, []string{
			sym.Group,
			sym.Symbol,
			fmt.Sprintf("%d", sym.Segments),
			HumanSize(sym.Bytes),
			fmt.Sprintf("%d", sym.Rows),
			last,
		})
	}
	doc.Table(md.TableSet{
		Header: []string{"Group", "Symbol", "Segments", "Size", "Rows (newest)", "Last bar (UTC)"},
		Rows:   rows,
	})

	return doc.String()
}

// HumanSize formats a byte count for display, e.g. "2.5 MiB".
func HumanSize(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
