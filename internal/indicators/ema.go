package indicators

import "errors"

// EMA calculates the Exponential Moving Average using the standard
// alpha = 2/(period+1) recursion seeded from the first value.
type EMA struct {
	period int
}

// NewEMA creates a new EMA instance with the given period
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

// Calculate computes the latest EMA value over the full price history
func (e *EMA) Calculate(prices []float64) (float64, error) {
	series, err := e.Series(prices)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}

// Series computes the EMA for every bar. The leading entries before the
// warm-up window are seeded estimates and should not be read by callers.
func (e *EMA) Series(prices []float64) ([]float64, error) {
	if len(prices) == 0 {
		return nil, errors.New("insufficient data for EMA calculation")
	}

	alpha := 2.0 / float64(e.period+1)
	series := make([]float64, len(prices))
	series[0] = prices[0]
	for i := 1; i < len(prices); i++ {
		series[i] = alpha*prices[i] + (1-alpha)*series[i-1]
	}
	return series, nil
}
