package ingest

import (
	"strings"
	"testing"
)

func TestReadJSONNumericTimestamps(t *testing.T) {
	in := strings.NewReader(`[
		{"timestamp": 1700000000000, "open": 100, "high": 101, "low": 99, "close": 100.5, "volume": 12345},
		{"timestamp": 1700000060000, "open": 100.5, "high": 102, "low": 100, "close": 101.5, "volume": 23456}
	]`)

	series, err := ReadJSON(in)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if series.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", series.Len())
	}

	b, _ := series.At(1)
	if b.Ts != 1700000060000 || b.Close != 101.5 {
		t.Errorf("bar = %+v, want Ts=1700000060000 Close=101.5", b)
	}
}

func TestReadJSONStringTimestamps(t *testing.T) {
	in := strings.NewReader(`[
		{"timestamp": "2024-01-02T00:00:00Z", "open": 185, "high": 186.5, "low": 184, "close": 185.5, "volume": 50000000}
	]`)

	series, err := ReadJSON(in)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}

	b, _ := series.At(0)
	if b.Ts != 1704153600000 {
		t.Errorf("Ts = %d, want 1704153600000", b.Ts)
	}
}

func TestReadJSONMalformed(t *testing.T) {
	cases := []struct {
		name string
		in   string
	}{
		{"not an array", `{"timestamp": 1}`},
		{"bad timestamp", `[{"timestamp": true, "open": 1, "high": 1, "low": 1, "close": 1, "volume": 1}]`},
		{"truncated", `[{"timestamp": 1700000000000,`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ReadJSON(strings.NewReader(tc.in)); err == nil {
				t.Error("ReadJSON accepted malformed input")
			}
		})
	}
}
