package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"quantbt/internal/domain"
)

// WriteJSON serializes the series as a JSON array of bar objects to w.
func WriteJSON(w io.Writer, series *domain.BarSeries) error {
	if series.IsEmpty() {
		return ErrEmptyExport
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(series.Bars())
}

// ToJSONFile writes the series as a JSON array to the given path.
func ToJSONFile(path string, series *domain.BarSeries) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	return WriteJSON(f, series)
}
