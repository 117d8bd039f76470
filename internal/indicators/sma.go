package indicators

import "errors"

// SMA calculates the Simple Moving Average
type SMA struct {
	period int
}

// NewSMA creates a new SMA instance with the given period
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

// Calculate computes the SMA over the last period values
func (s *SMA) Calculate(prices []float64) (float64, error) {
	if len(prices) < s.period {
		return 0, errors.New("insufficient data for SMA calculation")
	}

	sum := 0.0
	for _, p := range prices[len(prices)-s.period:] {
		sum += p
	}
	return sum / float64(s.period), nil
}
