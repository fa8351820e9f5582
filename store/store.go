// Package store persists intraday bars as size-rotated CSV files.
//
// The archive layout is one directory per watched symbol,
// <root>/<group>/<symbol>/, holding numbered segments data_0.csv,
// data_1.csv, ... A segment is append-only; once it would grow past the
// size limit a new segment is started. The files are plain CSV so the
// archive stays directly consumable by analysis tools.
package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMaxFileSize is the rotation threshold of a CSV segment.
const DefaultMaxFileSize = 50 << 20 // 50 MiB

// TimeFormat is the timestamp layout used in the CSV archive. Timestamps
// are always written in UTC.
const TimeFormat = "2006-01-02 15:04:05-0700"

const baseFilename = "data"

var header = []string{"time", "open", "high", "low", "close", "volume"}

var segmentRe = regexp.MustCompile(`^data_(\d+)\.csv$`)

// Bar is a single OHLCV point of the archive.
type Bar struct {
	Time   time.Time
	Open   decimal.Decimal
	High   decimal.Decimal
	Low    decimal.Decimal
	Close  decimal.Decimal
	Volume int64
}

// Store reads and appends bars under a root data directory.
type Store struct {
	Root string
	// MaxFileSize is the rotation threshold in bytes.
	// DefaultMaxFileSize when zero.
	MaxFileSize int64
}

// New returns a Store rooted at dir with the default rotation threshold.
func New(dir string) *Store { return &Store{Root: dir} }

func (s *Store) maxSize() int64 {
	if s.MaxFileSize <= 0 {
		return DefaultMaxFileSize
	}
	return s.MaxFileSize
}

// Dir returns the directory holding the segments of a symbol.
func (s *Store) Dir(group, symbol string) string {
	return filepath.Join(s.Root, group, symbol)
}

// segments returns the existing segment files of a symbol sorted by index.
// Sorting is numeric: data_10.csv comes after data_9.csv.
func (s *Store) segments(group, symbol string) ([]string, error) {
	entries, err := os.ReadDir(s.Dir(group, symbol))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cannot scan %q: %w", s.Dir(group, symbol), err)
	}

	type segment struct {
		index int
		name  string
	}
	var segs []segment
	for _, e := range entries {
		m := segmentRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		i, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		segs = append(segs, segment{i, e.Name()})
	}
	sort.Slice(segs, func(i, j int) bool { return segs[i].index < segs[j].index })

	names := make([]string, 0, len(segs))
	for _, seg := range segs {
		names = append(names, filepath.Join(s.Dir(group, symbol), seg.name))
	}
	return names, nil
}

// nextSegment returns the first unused segment filename in dir.
func nextSegment(dir string) string {
	for i := 0; ; i++ {
		name := filepath.Join(dir, fmt.Sprintf("%s_%d.csv", baseFilename, i))
		if _, err := os.Stat(name); os.IsNotExist(err) {
			return name
		}
	}
}

// LastTimestamp returns the greatest valid timestamp stored for a symbol.
// It scans only the newest segment, since segments are appended in time
// order. ok is false when the symbol has no data yet.
func (s *Store) LastTimestamp(group, symbol string) (last time.Time, ok bool, err error) {
	segs, err := s.segments(group, symbol)
	if err != nil || len(segs) == 0 {
		return time.Time{}, false, err
	}

	rows, err := readRows(segs[len(segs)-1])
	if err != nil {
		return time.Time{}, false, err
	}
	for _, row := range rows {
		if row.Time.After(last) {
			last, ok = row.Time, true
		}
	}
	return last, ok, nil
}

// readRows parses a segment, tolerating the header and malformed rows.
func readRows(filename string) ([]Bar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("cannot open segment %q: %w", filename, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var bars []Bar
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// a torn last line (e.g. interrupted write) is not fatal
			break
		}
		bar, ok := parseRow(record)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	return bars, nil
}

func parseRow(record []string) (Bar, bool) {
	if len(record) != len(header) {
		return Bar{}, false
	}
	on, err := time.Parse(TimeFormat, record[0])
	if err != nil {
		return Bar{}, false // header or corrupt row
	}
	var prices [4]decimal.Decimal
	for i := range prices {
		if prices[i], err = decimal.NewFromString(record[i+1]); err != nil {
			return Bar{}, false
		}
	}
	volume, err := strconv.ParseInt(record[5], 10, 64)
	if err != nil {
		return Bar{}, false
	}
	return Bar{
		Time:   on.UTC(),
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, true
}

// encodeRow renders a bar as a CSV line. Fields never contain separators so
// fine grained formatting is used instead of a csv writer; this keeps the
// output byte-stable.
func encodeRow(b Bar) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s,%d\n",
		b.Time.UTC().Format(TimeFormat), b.Open, b.High, b.Low, b.Close, b.Volume)
}

// Append writes bars at the end of the newest segment of a symbol, creating
// the directory and the segment as needed. A header line is written on new
// or empty segments, and a new segment is started whenever the current one
// would grow past the size limit.
func (s *Store) Append(group, symbol string, bars []Bar) error {
	if len(bars) == 0 {
		return nil
	}
	dir := s.Dir(group, symbol)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("cannot create %q: %w", dir, err)
	}

	segs, err := s.segments(group, symbol)
	if err != nil {
		return err
	}
	target := nextSegment(dir)
	if len(segs) > 0 {
		target = segs[len(segs)-1]
	}

	f, size, err := openSegment(target)
	if err != nil {
		return err
	}
	defer func() { f.Close() }()

	for _, bar := range bars {
		row := encodeRow(bar)
		if size > 0 && size+int64(len(row)) > s.maxSize() {
			// segment full: rotate.
			f.Close()
			target = nextSegment(dir)
			if f, size, err = openSegment(target); err != nil {
				return err
			}
		}
		if size == 0 {
			n, err := fmt.Fprintf(f, "%s,%s,%s,%s,%s,%s\n",
				header[0], header[1], header[2], header[3], header[4], header[5])
			if err != nil {
				return fmt.Errorf("cannot write header to %q: %w", target, err)
			}
			size += int64(n)
		}
		n, err := f.WriteString(row)
		if err != nil {
			return fmt.Errorf("cannot write to %q: %w", target, err)
		}
		size += int64(n)
	}
	return nil
}

// openSegment opens a segment for appending and returns its current size.
func openSegment(filename string) (*os.File, int64, error) {
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, 0, fmt.Errorf("cannot open segment %q: %w", filename, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, fmt.Errorf("cannot stat segment %q: %w", filename, err)
	}
	return f, info.Size(), nil
}

// Status summarizes what the archive holds for one symbol.
type Status struct {
	Segments int       // number of CSV segments
	Bytes    int64     // total size of all segments
	Rows     int       // valid rows in the newest segment
	Last     time.Time // greatest timestamp in the newest segment
	HasData  bool
}

// Status scans the archive of a symbol.
func (s *Store) Status(group, symbol string) (Status, error) {
	segs, err := s.segments(group, symbol)
	if err != nil || len(segs) == 0 {
		return Status{}, err
	}

	st := Status{Segments: len(segs)}
	for _, seg := range segs {
		info, err := os.Stat(seg)
		if err != nil {
			return Status{}, fmt.Errorf("cannot stat segment %q: %w", seg, err)
		}
		st.Bytes += info.Size()
	}

	rows, err := readRows(segs[len(segs)-1])
	if err != nil {
		return Status{}, err
	}
	st.Rows = len(rows)
	for _, row := range rows {
		if row.Time.After(st.Last) {
			st.Last, st.HasData = row.Time, true
		}
	}
	return st, nil
}
