package data

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// YahooProvider implements HistoryProvider against the Yahoo Finance
// chart API. Bare NSE tickers get a ".NS" suffix; when NSE returns
// nothing the fetch retries on the BSE listing (".BO").
type YahooProvider struct {
	client  *http.Client
	baseURL string
}

// NewYahooProvider creates a Yahoo Finance history provider
func NewYahooProvider() *YahooProvider {
	return &YahooProvider{
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://query1.finance.yahoo.com/v8/finance/chart",
	}
}

// NewYahooProviderWithBase creates a provider against a custom chart
// endpoint, used by tests to point at a local server.
func NewYahooProviderWithBase(baseURL string, client *http.Client) *YahooProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &YahooProvider{client: client, baseURL: baseURL}
}

// GetName returns the name of the history provider
func (p *YahooProvider) GetName() string {
	return "Yahoo Finance"
}

// NormalizeSymbol appends the NSE suffix to bare tickers
func NormalizeSymbol(ticker string) string {
	if strings.Contains(ticker, ".") {
		return ticker
	}
	return ticker + ".NS"
}

// FetchHistory returns up to lookback bars at the given interval,
// oldest first. NSE symbols that come back empty are retried on BSE.
func (p *YahooProvider) FetchHistory(ctx context.Context, symbol string, interval Interval, lookback int) ([]types.OHLCV, error) {
	symbol = NormalizeSymbol(symbol)

	bars, err := p.fetchChart(ctx, symbol, interval, rangeFor(interval, lookback))
	if (err != nil || len(bars) == 0) && strings.HasSuffix(symbol, ".NS") {
		fallback := strings.TrimSuffix(symbol, ".NS") + ".BO"
		if fbBars, fbErr := p.fetchChart(ctx, fallback, interval, rangeFor(interval, lookback)); fbErr == nil && len(fbBars) > 0 {
			bars, err = fbBars, nil
		}
	}
	if err != nil {
		return nil, err
	}

	if lookback > 0 && len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}
	return bars, nil
}

// FetchCurrentPrice returns the latest close from a one-day chart
func (p *YahooProvider) FetchCurrentPrice(ctx context.Context, symbol string) (float64, error) {
	bars, err := p.FetchHistory(ctx, symbol, IntervalDaily, 2)
	if err != nil {
		return 0, err
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("yahoo: no price data for %s", symbol)
	}
	return bars[len(bars)-1].Close, nil
}

// rangeFor picks the smallest Yahoo range string covering lookback bars
func rangeFor(interval Interval, lookback int) string {
	switch interval {
	case IntervalWeekly:
		switch {
		case lookback <= 26:
			return "6mo"
		case lookback <= 52:
			return "1y"
		default:
			return "2y"
		}
	case IntervalHourly:
		if lookback <= 7*7 { // ~7 trading hours per day
			return "5d"
		}
		return "1mo"
	default:
		switch {
		case lookback <= 30:
			return "3mo"
		case lookback <= 90:
			return "6mo"
		case lookback <= 250:
			return "1y"
		default:
			return "2y"
		}
	}
}

// yahooChart is the response structure from the Yahoo chart API
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

// floatAt reads one quote array entry. Yahoo occasionally returns
// quote arrays shorter than the timestamp list; a missing entry reads
// as 0 and falls into the null-bar skip.
func floatAt(vals []interface{}, i int) float64 {
	if i >= len(vals) {
		return 0
	}
	return toFloat(vals[i])
}

func (p *YahooProvider) fetchChart(ctx context.Context, symbol string, interval Interval, rng string) ([]types.OHLCV, error) {
	u := fmt.Sprintf("%s/%s?interval=%s&range=%s", p.baseURL, url.PathEscape(symbol), interval, rng)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("yahoo: status %d for %s", resp.StatusCode, symbol)
	}

	var chart yahooChart
	if err := json.Unmarshal(body, &chart); err != nil {
		return nil, fmt.Errorf("yahoo decode: %w", err)
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error for %s: %s", symbol, chart.Chart.Error.Description)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, nil
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]types.OHLCV, 0, len(result.Timestamp))

	for i, ts := range result.Timestamp {
		o := floatAt(quote.Open, i)
		h := floatAt(quote.High, i)
		l := floatAt(quote.Low, i)
		c := floatAt(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bar (holiday, halted session)
		}
		bars = append(bars, types.OHLCV{
			Timestamp: time.Unix(ts, 0),
			Open:      o,
			High:      h,
			Low:       l,
			Close:     c,
			Volume:    floatAt(quote.Volume, i),
		})
	}

	sort.Slice(bars, func(i, j int) bool { return bars[i].Timestamp.Before(bars[j].Timestamp) })
	return bars, nil
}
