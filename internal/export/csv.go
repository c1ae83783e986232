// Package export serializes bar series to flat CSV, JSON, and Parquet files
// for consumption outside the engine.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"

	"quantbt/internal/domain"
)

// Errors reported by the exporters.
var (
	ErrEmptyExport  = errors.New("export: series is empty")
	ErrInvalidRange = errors.New("export: invalid bar range")
)

// Header written at the top of CSV exports.
const Header = "timestamp,open,high,low,close,volume"

// CSVExporter writes bar data to a CSV file. With Append set, bars are added
// to an existing file and no header is written.
type CSVExporter struct {
	Path   string
	Append bool
}

// ExportSeries writes the whole series. An empty series is an error.
func (e *CSVExporter) ExportSeries(series *domain.BarSeries) error {
	if series.IsEmpty() {
		return ErrEmptyExport
	}
	return e.ExportRange(series, 0, series.Len())
}

// ExportRange writes the bars in [from, to). The range must be non-empty and
// within the series bounds.
func (e *CSVExporter) ExportRange(series *domain.BarSeries, from, to int) error {
	if series.IsEmpty() || from < 0 || from >= to || to > series.Len() {
		return ErrInvalidRange
	}

	flags := os.O_WRONLY | os.O_CREATE
	if e.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(e.Path, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", e.Path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if !e.Append {
		if err := w.Write([]string{"timestamp", "open", "high", "low", "close", "volume"}); err != nil {
			return err
		}
	}

	for _, bar := range series.Bars()[from:to] {
		record := []string{
			strconv.FormatInt(bar.Ts, 10),
			formatFloat(bar.Open),
			formatFloat(bar.High),
			formatFloat(bar.Low),
			formatFloat(bar.Close),
			formatFloat(bar.Volume),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
