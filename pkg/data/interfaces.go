package data

import (
	"context"
	"time"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// Interval is a bar granularity understood by the history providers
type Interval string

const (
	IntervalDaily  Interval = "1d"
	IntervalWeekly Interval = "1wk"
	IntervalHourly Interval = "1h"
)

// HistoryProvider fetches chronological bar series for a ticker.
// Implementations must return bars oldest-first; an empty result is a
// valid answer for unknown tickers.
type HistoryProvider interface {
	// FetchHistory returns up to lookback bars at the given interval
	FetchHistory(ctx context.Context, symbol string, interval Interval, lookback int) ([]types.OHLCV, error)

	// FetchCurrentPrice returns the latest traded price
	FetchCurrentPrice(ctx context.Context, symbol string) (float64, error)

	// GetName returns the name of the history provider
	GetName() string
}

// HistoryCache caches fetched bar series with expiry
type HistoryCache interface {
	// Get retrieves data from cache if present and not expired
	Get(key string) ([]types.OHLCV, bool)

	// Set stores data in cache with the cache's TTL
	Set(key string, data []types.OHLCV)

	// Clear removes all cached data
	Clear()

	// Size returns the number of live cached entries
	Size() int
}

// SeriesFilter filters and validates fetched bar series
type SeriesFilter interface {
	// FilterByPeriod trims data to the trailing period
	FilterByPeriod(data []types.OHLCV, period time.Duration) []types.OHLCV

	// FilterByDateRange trims data to a specific date range
	FilterByDateRange(data []types.OHLCV, start, end time.Time) []types.OHLCV

	// ValidateTimeSequence ensures data is in chronological order
	ValidateTimeSequence(data []types.OHLCV) error
}
