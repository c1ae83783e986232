// Package ingest loads bar data into a BarSeries from CSV or JSON files and
// from the Alpaca market-data API. Validation of the source format lives
// here; the series container itself accepts whatever it is given.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"quantbt/internal/domain"
)

// Expected CSV column order.
const csvHeader = "timestamp,open,high,low,close,volume"

// FromCSV reads a 6-column CSV file (timestamp,open,high,low,close,volume)
// into a BarSeries. The timestamp column accepts epoch milliseconds or an
// ISO-8601 date-time. A leading header row is skipped. UTF-16 input with a
// BOM is decoded transparently.
func FromCSV(path string) (*domain.BarSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	series, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return series, nil
}

// ReadCSV parses CSV bar data from r into a BarSeries.
func ReadCSV(r io.Reader) (*domain.BarSeries, error) {
	br := bufio.NewReader(r)

	// Some vendor exports arrive as UTF-16 with a BOM; decode to UTF-8.
	if b, _ := br.Peek(2); len(b) == 2 && ((b[0] == 0xFF && b[1] == 0xFE) || (b[0] == 0xFE && b[1] == 0xFF)) {
		dec := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder()
		br = bufio.NewReader(transform.NewReader(br, dec))
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	series := &domain.BarSeries{}
	line := 0
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+1, err)
		}
		line++

		if len(record) == 1 && strings.TrimSpace(record[0]) == "" {
			continue
		}
		if line == 1 && isHeader(record) {
			continue
		}
		if len(record) != 6 {
			return nil, fmt.Errorf("line %d: want 6 fields, got %d", line, len(record))
		}

		bar, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		series.Add(bar)
	}
	return series, nil
}

func isHeader(record []string) bool {
	return len(record) > 0 && strings.EqualFold(strings.TrimSpace(record[0]), "timestamp")
}

func parseRecord(record []string) (domain.Bar, error) {
	ts, err := ParseTimestamp(strings.TrimSpace(record[0]))
	if err != nil {
		return domain.Bar{}, err
	}

	var vals [5]float64
	names := [5]string{"open", "high", "low", "close", "volume"}
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[i+1]), 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("parsing %s %q: %w", names[i], record[i+1], err)
		}
		vals[i] = v
	}

	return domain.Bar{
		Ts:     ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

// ParseTimestamp accepts epoch milliseconds or an ISO-8601 date-time and
// returns epoch milliseconds.
func ParseTimestamp(s string) (int64, error) {
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ms, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMilli(), nil
		}
	}
	return 0, fmt.Errorf("unrecognized timestamp %q", s)
}
