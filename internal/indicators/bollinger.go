package indicators

import (
	"errors"
	"math"
)

// BollingerBands calculates the middle SMA band with upper and lower
// bands at stdDev sample standard deviations.
type BollingerBands struct {
	period int
	stdDev float64
}

// NewBollingerBands creates a new BollingerBands instance
func NewBollingerBands(period int, stdDev float64) *BollingerBands {
	return &BollingerBands{
		period: period,
		stdDev: stdDev,
	}
}

// Calculate computes the upper, middle, and lower band values
func (b *BollingerBands) Calculate(prices []float64) (upper, middle, lower float64, err error) {
	if len(prices) < b.period {
		return 0, 0, 0, errors.New("insufficient data for Bollinger Bands calculation")
	}

	window := prices[len(prices)-b.period:]
	sum := 0.0
	for _, p := range window {
		sum += p
	}
	middle = sum / float64(b.period)

	// Sample standard deviation
	variance := 0.0
	for _, p := range window {
		variance += (p - middle) * (p - middle)
	}
	std := math.Sqrt(variance / float64(b.period-1))

	upper = middle + std*b.stdDev
	lower = middle - std*b.stdDev
	return upper, middle, lower, nil
}
