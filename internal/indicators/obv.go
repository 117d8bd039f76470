package indicators

import (
	"errors"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// OBV calculates On-Balance Volume, a cumulative volume flow measure
type OBV struct{}

// NewOBV creates a new OBV instance
func NewOBV() *OBV {
	return &OBV{}
}

// Calculate computes the latest OBV value over the full series
func (o *OBV) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < 2 {
		return 0, errors.New("insufficient data for OBV calculation")
	}

	obv := 0.0
	for i := 1; i < len(data); i++ {
		switch {
		case data[i].Close > data[i-1].Close:
			obv += data[i].Volume
		case data[i].Close < data[i-1].Close:
			obv -= data[i].Volume
		}
	}
	return obv, nil
}
