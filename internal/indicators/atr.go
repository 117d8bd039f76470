package indicators

import (
	"errors"
	"math"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// ATR calculates the Average True Range as a rolling mean of the true
// range, where true range = max(high-low, |high-prevClose|, |low-prevClose|).
type ATR struct {
	period int
}

// NewATR creates a new ATR instance with the given period
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

// Calculate computes the latest ATR value for the bar series
func (a *ATR) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < a.period+1 {
		return 0, errors.New("insufficient data for ATR calculation")
	}

	trueRanges := make([]float64, 0, a.period)
	for i := len(data) - a.period; i < len(data); i++ {
		bar := data[i]
		prevClose := data[i-1].Close
		tr := math.Max(bar.High-bar.Low,
			math.Max(math.Abs(bar.High-prevClose), math.Abs(bar.Low-prevClose)))
		trueRanges = append(trueRanges, tr)
	}

	sum := 0.0
	for _, tr := range trueRanges {
		sum += tr
	}
	return sum / float64(a.period), nil
}
