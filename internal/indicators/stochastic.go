package indicators

import (
	"errors"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// Stochastic calculates the stochastic oscillator %K and its %D SMA
type Stochastic struct {
	kPeriod int
	dPeriod int
}

// NewStochastic creates a new Stochastic instance
func NewStochastic(kPeriod, dPeriod int) *Stochastic {
	return &Stochastic{
		kPeriod: kPeriod,
		dPeriod: dPeriod,
	}
}

// Calculate computes the latest %K and %D values
func (s *Stochastic) Calculate(data []types.OHLCV) (k, d float64, err error) {
	if len(data) < s.kPeriod+s.dPeriod-1 {
		return 0, 0, errors.New("insufficient data for Stochastic calculation")
	}

	kValues := make([]float64, 0, s.dPeriod)
	for offset := s.dPeriod - 1; offset >= 0; offset-- {
		end := len(data) - offset
		kValues = append(kValues, s.percentK(data[:end]))
	}

	k = kValues[len(kValues)-1]
	sum := 0.0
	for _, v := range kValues {
		sum += v
	}
	d = sum / float64(s.dPeriod)
	return k, d, nil
}

func (s *Stochastic) percentK(data []types.OHLCV) float64 {
	window := data[len(data)-s.kPeriod:]
	highest := window[0].High
	lowest := window[0].Low
	for _, bar := range window[1:] {
		if bar.High > highest {
			highest = bar.High
		}
		if bar.Low < lowest {
			lowest = bar.Low
		}
	}
	if highest == lowest {
		return 50
	}
	return (data[len(data)-1].Close - lowest) / (highest - lowest) * 100
}
