package data

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// Default evaluation windows. Six months of daily bars covers every
// indicator's warm-up with room over the 60-bar level lookback.
const (
	DefaultDailyLookback  = 130
	DefaultWeeklyLookback = 60
	DefaultHourlyLookback = 80
)

// Manager bundles a history provider with series validation and knows
// which windows each part of an evaluation needs.
type Manager struct {
	provider HistoryProvider
	filter   *DefaultSeriesFilter
}

// NewManager creates a data manager around the given provider
func NewManager(provider HistoryProvider) *Manager {
	return &Manager{
		provider: provider,
		filter:   NewDefaultSeriesFilter(),
	}
}

// GetProvider returns the underlying history provider
func (m *Manager) GetProvider() HistoryProvider {
	return m.provider
}

// FetchEvaluationSeries fetches the daily series a position evaluation
// runs on, sorted, deduplicated, and order-checked.
func (m *Manager) FetchEvaluationSeries(ctx context.Context, ticker string) ([]types.OHLCV, error) {
	data, err := m.provider.FetchHistory(ctx, ticker, IntervalDaily, DefaultDailyLookback)
	if err != nil {
		return nil, fmt.Errorf("fetch %s daily history: %w", ticker, err)
	}

	data = m.filter.RemoveDuplicates(m.filter.SortByTimestamp(data))
	if err := m.filter.ValidateTimeSequence(data); err != nil {
		return nil, fmt.Errorf("%s series: %w", ticker, err)
	}
	return data, nil
}

// FetchTimeframes fetches the per-timeframe series for the alignment
// check. A timeframe that fails to fetch is logged and skipped; the
// aligner tolerates partial availability.
func (m *Manager) FetchTimeframes(ctx context.Context, ticker string) map[string][]types.OHLCV {
	requests := []struct {
		label    string
		interval Interval
		lookback int
	}{
		{"Daily", IntervalDaily, DefaultDailyLookback},
		{"Weekly", IntervalWeekly, DefaultWeeklyLookback},
		{"Hourly", IntervalHourly, DefaultHourlyLookback},
	}

	series := make(map[string][]types.OHLCV, len(requests))
	for _, req := range requests {
		data, err := m.provider.FetchHistory(ctx, ticker, req.interval, req.lookback)
		if err != nil {
			log.Printf("⚠️ %s %s timeframe fetch failed, skipping: %v", ticker, req.label, err)
			continue
		}
		if len(data) == 0 {
			continue
		}
		series[req.label] = m.filter.SortByTimestamp(data)
	}
	return series
}

// ParseTrailingPeriod parses period strings like "7d", "30d", "180d"
func ParseTrailingPeriod(s string) (time.Duration, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "days") {
		s = strings.TrimSuffix(s, "days") + "d"
	}
	if strings.HasSuffix(s, "d") {
		nStr := strings.TrimSuffix(s, "d")
		if nStr == "" {
			return 0, false
		}
		n, err := strconv.Atoi(nStr)
		if err != nil || n <= 0 {
			return 0, false
		}
		return time.Duration(n) * 24 * time.Hour, true
	}
	// allow raw durations too (e.g., 168h)
	if d, err := time.ParseDuration(s); err == nil {
		return d, true
	}
	return 0, false
}
