package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"quantbt/internal/domain"
)

// barJSON mirrors the export JSON shape; the timestamp may be a number
// (epoch ms) or an ISO-8601 string.
type barJSON struct {
	Timestamp json.RawMessage `json:"timestamp"`
	Open      float64         `json:"open"`
	High      float64         `json:"high"`
	Low       float64         `json:"low"`
	Close     float64         `json:"close"`
	Volume    float64         `json:"volume"`
}

// FromJSON reads a JSON array of bar objects into a BarSeries.
func FromJSON(path string) (*domain.BarSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	series, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return series, nil
}

// ReadJSON parses a JSON array of bar objects from r into a BarSeries.
func ReadJSON(r io.Reader) (*domain.BarSeries, error) {
	var rows []barJSON
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decoding bar array: %w", err)
	}

	series := &domain.BarSeries{}
	for i, row := range rows {
		ts, err := parseJSONTimestamp(row.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("bar %d: %w", i, err)
		}
		series.Add(domain.Bar{
			Ts:     ts,
			Open:   row.Open,
			High:   row.High,
			Low:    row.Low,
			Close:  row.Close,
			Volume: row.Volume,
		})
	}
	return series, nil
}

func parseJSONTimestamp(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 {
		return 0, fmt.Errorf("missing timestamp")
	}

	var ms int64
	if err := json.Unmarshal(raw, &ms); err == nil {
		return ms, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("timestamp must be a number or string: %s", raw)
	}
	return ParseTimestamp(s)
}
