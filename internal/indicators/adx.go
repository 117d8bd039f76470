package indicators

import (
	"errors"
	"math"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// ADX calculates the Average Directional Index, a 0-100 measure of
// trend strength regardless of direction.
type ADX struct {
	period int
}

// NewADX creates a new ADX instance with the given period
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

// Calculate computes the latest ADX value for the bar series
func (a *ADX) Calculate(data []types.OHLCV) (float64, error) {
	if len(data) < 2*a.period+1 {
		return 0, errors.New("insufficient data for ADX calculation")
	}

	var dxValues []float64
	plusDM, minusDM, trSum := 0.0, 0.0, 0.0

	for i := 1; i < len(data); i++ {
		upMove := data[i].High - data[i-1].High
		downMove := data[i-1].Low - data[i].Low

		var pdm, mdm float64
		if upMove > downMove && upMove > 0 {
			pdm = upMove
		}
		if downMove > upMove && downMove > 0 {
			mdm = downMove
		}

		tr := math.Max(data[i].High-data[i].Low,
			math.Max(math.Abs(data[i].High-data[i-1].Close), math.Abs(data[i].Low-data[i-1].Close)))

		// Wilder smoothing
		if i <= a.period {
			plusDM += pdm
			minusDM += mdm
			trSum += tr
			if i < a.period {
				continue
			}
		} else {
			plusDM = plusDM - plusDM/float64(a.period) + pdm
			minusDM = minusDM - minusDM/float64(a.period) + mdm
			trSum = trSum - trSum/float64(a.period) + tr
		}

		if trSum == 0 {
			dxValues = append(dxValues, 0)
			continue
		}
		plusDI := 100 * plusDM / trSum
		minusDI := 100 * minusDM / trSum
		if plusDI+minusDI == 0 {
			dxValues = append(dxValues, 0)
			continue
		}
		dxValues = append(dxValues, 100*math.Abs(plusDI-minusDI)/(plusDI+minusDI))
	}

	if len(dxValues) < a.period {
		return 0, errors.New("insufficient data for ADX calculation")
	}

	sum := 0.0
	for _, dx := range dxValues[len(dxValues)-a.period:] {
		sum += dx
	}
	return sum / float64(a.period), nil
}
