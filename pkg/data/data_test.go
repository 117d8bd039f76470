package data

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

func TestNormalizeSymbol(t *testing.T) {
	assert.Equal(t, "RELIANCE.NS", NormalizeSymbol("RELIANCE"))
	assert.Equal(t, "RELIANCE.NS", NormalizeSymbol("RELIANCE.NS"))
	assert.Equal(t, "SUZLON.BO", NormalizeSymbol("SUZLON.BO"))
}

func chartJSON(timestamps []int64, closes []string) string {
	ts := ""
	for i, v := range timestamps {
		if i > 0 {
			ts += ","
		}
		ts += fmt.Sprintf("%d", v)
	}
	quote := ""
	for i, v := range closes {
		if i > 0 {
			quote += ","
		}
		quote += v
	}
	return fmt.Sprintf(`{"chart":{"result":[{"timestamp":[%s],"indicators":{"quote":[{"open":[%s],"high":[%s],"low":[%s],"close":[%s],"volume":[%s]}]}}],"error":null}}`,
		ts, quote, quote, quote, quote, quote)
}

func TestYahooProviderFetchHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Second bar is a null placeholder that must be skipped
		fmt.Fprint(w, chartJSON(
			[]int64{1735689600, 1735776000, 1735862400},
			[]string{"100.5", "null", "102.25"},
		))
	}))
	defer server.Close()

	provider := NewYahooProviderWithBase(server.URL, server.Client())
	bars, err := provider.FetchHistory(context.Background(), "RELIANCE", IntervalDaily, 60)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, 100.5, bars[0].Close)
	assert.Equal(t, 102.25, bars[1].Close)
	assert.True(t, bars[0].Timestamp.Before(bars[1].Timestamp))
}

func TestYahooProviderMisalignedQuoteArrays(t *testing.T) {
	// Quote arrays shorter than the timestamp list must not crash the
	// fetch; a short volume array reads as 0 for the missing bars.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1735689600,1735776000],`+
			`"indicators":{"quote":[{"open":[100.0,101.0],"high":[102.0,103.0],`+
			`"low":[99.0,100.0],"close":[100.5,102.25],"volume":[1000]}]}}],"error":null}}`)
	}))
	defer server.Close()

	provider := NewYahooProviderWithBase(server.URL, server.Client())
	bars, err := provider.FetchHistory(context.Background(), "RELIANCE", IntervalDaily, 60)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, 1000.0, bars[0].Volume)
	assert.Equal(t, 0.0, bars[1].Volume)
	assert.Equal(t, 102.25, bars[1].Close)
}

func TestYahooProviderShortPriceArrays(t *testing.T) {
	// All price arrays one element short: the trailing timestamp has no
	// bar and is dropped like a null placeholder.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[{"timestamp":[1735689600,1735776000],`+
			`"indicators":{"quote":[{"open":[100.0],"high":[102.0],`+
			`"low":[99.0],"close":[100.5],"volume":[1000]}]}}],"error":null}}`)
	}))
	defer server.Close()

	provider := NewYahooProviderWithBase(server.URL, server.Client())
	bars, err := provider.FetchHistory(context.Background(), "RELIANCE.NS", IntervalDaily, 60)
	require.NoError(t, err)

	require.Len(t, bars, 1)
	assert.Equal(t, 100.5, bars[0].Close)
}

func TestYahooProviderBSEFallback(t *testing.T) {
	var requested []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = append(requested, r.URL.Path)
		if len(requested) == 1 {
			// NSE listing unknown
			fmt.Fprint(w, `{"chart":{"result":[],"error":null}}`)
			return
		}
		fmt.Fprint(w, chartJSON([]int64{1735689600}, []string{"250.0"}))
	}))
	defer server.Close()

	provider := NewYahooProviderWithBase(server.URL, server.Client())
	bars, err := provider.FetchHistory(context.Background(), "SUZLON", IntervalDaily, 30)
	require.NoError(t, err)

	require.Len(t, requested, 2)
	assert.Contains(t, requested[0], "SUZLON.NS")
	assert.Contains(t, requested[1], "SUZLON.BO")
	require.Len(t, bars, 1)
	assert.Equal(t, 250.0, bars[0].Close)
}

func TestYahooProviderAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"chart":{"result":[],"error":{"code":"Not Found","description":"No data found"}}}`)
	}))
	defer server.Close()

	provider := NewYahooProviderWithBase(server.URL, server.Client())
	_, err := provider.FetchHistory(context.Background(), "NOPE.BO", IntervalDaily, 30)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No data found")
}

func TestMemoryCacheTTL(t *testing.T) {
	cache := NewMemoryCache(5 * time.Minute)
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	bars := []types.OHLCV{{Close: 100, Timestamp: now}}
	cache.Set("RELIANCE|1d|60", bars)

	got, ok := cache.Get("RELIANCE|1d|60")
	require.True(t, ok)
	assert.Equal(t, 100.0, got[0].Close)
	assert.Equal(t, 1, cache.Size())

	now = now.Add(6 * time.Minute)
	_, ok = cache.Get("RELIANCE|1d|60")
	assert.False(t, ok)
	assert.Equal(t, 0, cache.Size())
}

// countingProvider records fetch calls for cache assertions
type countingProvider struct {
	calls int
	bars  []types.OHLCV
}

func (p *countingProvider) FetchHistory(context.Context, string, Interval, int) ([]types.OHLCV, error) {
	p.calls++
	return p.bars, nil
}

func (p *countingProvider) FetchCurrentPrice(context.Context, string) (float64, error) {
	return p.bars[len(p.bars)-1].Close, nil
}

func (p *countingProvider) GetName() string { return "counting" }

func TestCachedProviderHitsUpstreamOnce(t *testing.T) {
	upstream := &countingProvider{bars: []types.OHLCV{{Close: 42}}}
	provider := NewCachedProvider(upstream, time.Minute)

	for i := 0; i < 3; i++ {
		bars, err := provider.FetchHistory(context.Background(), "TCS", IntervalDaily, 60)
		require.NoError(t, err)
		require.Len(t, bars, 1)
	}
	assert.Equal(t, 1, upstream.calls)
	assert.Equal(t, 1, provider.GetCacheSize())

	// A different lookback is a different cache key
	_, err := provider.FetchHistory(context.Background(), "TCS", IntervalDaily, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, upstream.calls)
}

func TestCSVProviderLoadsAndSkipsBadRows(t *testing.T) {
	dir := t.TempDir()
	content := "Date,Open,High,Low,Close,Volume\n" +
		"2026-01-05,100,102,99,101,50000\n" +
		"bad-date,100,102,99,101,50000\n" +
		"2026-01-06,101,104,100,103,60000\n" +
		"2026-01-07,0,104,100,103,60000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "INFY.csv"), []byte(content), 0o644))

	provider := NewCSVProvider(dir)
	bars, err := provider.FetchHistory(context.Background(), "INFY", IntervalDaily, 0)
	require.NoError(t, err)

	require.Len(t, bars, 2)
	assert.Equal(t, 101.0, bars[0].Close)
	assert.Equal(t, 103.0, bars[1].Close)

	price, err := provider.FetchCurrentPrice(context.Background(), "INFY")
	require.NoError(t, err)
	assert.Equal(t, 103.0, price)
}

func TestSeriesFilterValidateTimeSequence(t *testing.T) {
	filter := NewDefaultSeriesFilter()
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	ordered := []types.OHLCV{
		{Timestamp: base},
		{Timestamp: base.AddDate(0, 0, 1)},
	}
	assert.NoError(t, filter.ValidateTimeSequence(ordered))

	unordered := []types.OHLCV{
		{Timestamp: base.AddDate(0, 0, 1)},
		{Timestamp: base},
	}
	assert.Error(t, filter.ValidateTimeSequence(unordered))

	duplicate := []types.OHLCV{{Timestamp: base}, {Timestamp: base}}
	assert.Error(t, filter.ValidateTimeSequence(duplicate))
}

func TestSeriesFilterSortAndDedup(t *testing.T) {
	filter := NewDefaultSeriesFilter()
	base := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

	data := []types.OHLCV{
		{Close: 3, Timestamp: base.AddDate(0, 0, 2)},
		{Close: 1, Timestamp: base},
		{Close: 2, Timestamp: base.AddDate(0, 0, 1)},
		{Close: 9, Timestamp: base},
	}

	sorted := filter.RemoveDuplicates(filter.SortByTimestamp(data))
	require.Len(t, sorted, 3)
	assert.Equal(t, 1.0, sorted[0].Close)
	assert.Equal(t, 3.0, sorted[2].Close)
}

func TestParseTrailingPeriod(t *testing.T) {
	d, ok := ParseTrailingPeriod("30d")
	require.True(t, ok)
	assert.Equal(t, 30*24*time.Hour, d)

	d, ok = ParseTrailingPeriod("168h")
	require.True(t, ok)
	assert.Equal(t, 168*time.Hour, d)

	_, ok = ParseTrailingPeriod("soon")
	assert.False(t, ok)
}
