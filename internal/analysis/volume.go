package analysis

import (
	"fmt"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

const (
	volumeAvgWindow   = 20
	volumeTrendWindow = 5

	volumeStrongRatio = 1.5
	volumeWeakRatio   = 0.7
)

// AnalyzeVolume classifies the latest bar's volume relative to the
// 20-bar average and the latest price direction. Fewer than 20 bars,
// or a zero latest volume, yields NEUTRAL with ratio 1.0.
func AnalyzeVolume(data []types.OHLCV) VolumeReport {
	report := VolumeReport{
		Signal:      VolumeNeutral,
		Ratio:       1.0,
		Description: "Volume data not available",
		Trend:       "DECREASING",
	}

	if len(data) < volumeAvgWindow || data[len(data)-1].Volume == 0 {
		return report
	}

	avgVolume := trailingVolumeMean(data, volumeAvgWindow)
	if avgVolume > 0 {
		report.Ratio = data[len(data)-1].Volume / avgVolume
	}

	if trailingVolumeMean(data, volumeTrendWindow) > avgVolume {
		report.Trend = "INCREASING"
	}

	priceChange := data[len(data)-1].Close - data[len(data)-2].Close
	ratio := report.Ratio

	switch {
	case priceChange > 0 && ratio > volumeStrongRatio:
		report.Signal = VolumeStrongBuying
		report.Description = fmt.Sprintf("Strong buying pressure (%.1fx avg volume)", ratio)
	case priceChange > 0 && ratio > 1.0:
		report.Signal = VolumeBuying
		report.Description = fmt.Sprintf("Buying with good volume (%.1fx)", ratio)
	case priceChange > 0 && ratio < volumeWeakRatio:
		report.Signal = VolumeWeakBuying
		report.Description = fmt.Sprintf("Weak rally, low volume (%.1fx)", ratio)
	case priceChange < 0 && ratio > volumeStrongRatio:
		report.Signal = VolumeStrongSelling
		report.Description = fmt.Sprintf("Strong selling pressure (%.1fx avg volume)", ratio)
	case priceChange < 0 && ratio > 1.0:
		report.Signal = VolumeSelling
		report.Description = fmt.Sprintf("Selling with volume (%.1fx)", ratio)
	case priceChange < 0 && ratio < volumeWeakRatio:
		report.Signal = VolumeWeakSelling
		report.Description = fmt.Sprintf("Weak decline, low volume (%.1fx)", ratio)
	default:
		report.Signal = VolumeNeutral
		report.Description = fmt.Sprintf("Normal volume (%.1fx)", ratio)
	}

	return report
}

func trailingVolumeMean(data []types.OHLCV, window int) float64 {
	if window > len(data) {
		window = len(data)
	}
	sum := 0.0
	for _, bar := range data[len(data)-window:] {
		sum += bar.Volume
	}
	return sum / float64(window)
}

// opposesPosition reports whether the volume signal indicates
// confirmed flow against the given side.
func (v VolumeReport) opposesPosition(side types.Side) bool {
	if side == types.SideLong {
		return v.Signal == VolumeStrongSelling || v.Signal == VolumeSelling
	}
	return v.Signal == VolumeStrongBuying || v.Signal == VolumeBuying
}
