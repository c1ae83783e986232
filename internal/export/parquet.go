package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"quantbt/internal/domain"
)

// BarRecord is the Parquet schema for exported bar data.
type BarRecord struct {
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// ToParquetFile writes the series to a Parquet file at the given path,
// creating parent directories as needed.
func ToParquetFile(path string, series *domain.BarSeries) error {
	if series.IsEmpty() {
		return ErrEmptyExport
	}

	records := make([]BarRecord, 0, series.Len())
	for _, bar := range series.Bars() {
		records = append(records, BarRecord{
			Timestamp: bar.Ts,
			Open:      bar.Open,
			High:      bar.High,
			Low:       bar.Low,
			Close:     bar.Close,
			Volume:    bar.Volume,
		})
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if err := parquet.WriteFile(path, records); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// FromParquetFile reads a Parquet file written by ToParquetFile back into a
// BarSeries.
func FromParquetFile(path string) (*domain.BarSeries, error) {
	records, err := parquet.ReadFile[BarRecord](path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	series := &domain.BarSeries{}
	for _, r := range records {
		series.Add(domain.Bar{
			Ts:     r.Timestamp,
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	return series, nil
}
