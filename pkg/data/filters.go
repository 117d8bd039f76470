package data

import (
	"fmt"
	"sort"
	"time"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// DefaultSeriesFilter implements SeriesFilter for common operations
type DefaultSeriesFilter struct{}

// NewDefaultSeriesFilter creates a new default series filter
func NewDefaultSeriesFilter() *DefaultSeriesFilter {
	return &DefaultSeriesFilter{}
}

// FilterByPeriod trims data to the trailing period
func (f *DefaultSeriesFilter) FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV {
	if period <= 0 || len(data) == 0 {
		return data
	}

	latestTime := data[len(data)-1].Timestamp
	cutoffTime := latestTime.Add(-period)

	startIdx := 0
	for i, candle := range data {
		if !candle.Timestamp.Before(cutoffTime) {
			startIdx = i
			break
		}
	}
	return data[startIdx:]
}

// FilterByDateRange trims data to a specific date range, inclusive
func (f *DefaultSeriesFilter) FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV {
	if len(data) == 0 {
		return data
	}

	var filtered []types.OHLCV
	for _, candle := range data {
		if !candle.Timestamp.Before(start) && !candle.Timestamp.After(end) {
			filtered = append(filtered, candle)
		}
	}
	return filtered
}

// ValidateTimeSequence ensures data is in chronological order with no
// duplicate timestamps
func (f *DefaultSeriesFilter) ValidateTimeSequence(data []types.OHLCV) error {
	for i := 1; i < len(data); i++ {
		if data[i].Timestamp.Before(data[i-1].Timestamp) {
			return fmt.Errorf("data not in chronological order at index %d: %s comes after %s",
				i, data[i].Timestamp.Format(time.RFC3339), data[i-1].Timestamp.Format(time.RFC3339))
		}
		if data[i].Timestamp.Equal(data[i-1].Timestamp) {
			return fmt.Errorf("duplicate timestamp at index %d: %s",
				i, data[i].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// SortByTimestamp returns a copy of data sorted oldest-first
func (f *DefaultSeriesFilter) SortByTimestamp(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}
	sorted := make([]types.OHLCV, len(data))
	copy(sorted, data)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.Before(sorted[j].Timestamp)
	})
	return sorted
}

// RemoveDuplicates removes duplicate timestamps, keeping the first occurrence
func (f *DefaultSeriesFilter) RemoveDuplicates(data []types.OHLCV) []types.OHLCV {
	if len(data) <= 1 {
		return data
	}

	var filtered []types.OHLCV
	seen := make(map[int64]bool)
	for _, candle := range data {
		ts := candle.Timestamp.Unix()
		if !seen[ts] {
			seen[ts] = true
			filtered = append(filtered, candle)
		}
	}
	return filtered
}
