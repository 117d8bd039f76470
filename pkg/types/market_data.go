package types

import "time"

// OHLCV is a single price bar. Bar series are ordered oldest first;
// gaps are tolerated but never filled.
type OHLCV struct {
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    float64
	Timestamp time.Time
}

// Closes extracts the close column from a bar series.
func Closes(data []OHLCV) []float64 {
	out := make([]float64, len(data))
	for i, bar := range data {
		out[i] = bar.Close
	}
	return out
}
