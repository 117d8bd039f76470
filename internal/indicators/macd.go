package indicators

import "errors"

// MACD calculates Moving Average Convergence Divergence
type MACD struct {
	fastPeriod   int
	slowPeriod   int
	signalPeriod int
}

// NewMACD creates a new MACD instance with specified fast, slow, and signal periods
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{
		fastPeriod:   fast,
		slowPeriod:   slow,
		signalPeriod: signal,
	}
}

// Calculate computes the latest MACD line, signal line, and histogram values
func (m *MACD) Calculate(prices []float64) (macdLine, signalLine, histogram float64, err error) {
	macdSeries, signalSeries, histSeries, err := m.Series(prices)
	if err != nil {
		return 0, 0, 0, err
	}
	last := len(histSeries) - 1
	return macdSeries[last], signalSeries[last], histSeries[last], nil
}

// Series computes the full MACD, signal, and histogram series, one entry
// per input bar. Entries before the slow-EMA warm-up are indeterminate
// and must not be read by callers.
func (m *MACD) Series(prices []float64) (macdSeries, signalSeries, histSeries []float64, err error) {
	if len(prices) < m.slowPeriod {
		return nil, nil, nil, errors.New("insufficient data for MACD calculation")
	}

	fastEMA, _ := NewEMA(m.fastPeriod).Series(prices)
	slowEMA, _ := NewEMA(m.slowPeriod).Series(prices)

	macdSeries = make([]float64, len(prices))
	for i := range prices {
		macdSeries[i] = fastEMA[i] - slowEMA[i]
	}

	signalSeries, _ = NewEMA(m.signalPeriod).Series(macdSeries)

	histSeries = make([]float64, len(prices))
	for i := range prices {
		histSeries[i] = macdSeries[i] - signalSeries[i]
	}
	return macdSeries, signalSeries, histSeries, nil
}
