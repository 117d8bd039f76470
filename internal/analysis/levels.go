package analysis

import (
	"sort"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

const (
	srLookback        = 60
	srMinBars         = 10
	srClusterPct      = 1.0  // cluster pivots within 1% of each other
	srSyntheticOffset = 0.05 // synthetic levels at +/-5% of price

	srStrengthStrong   = "STRONG"
	srStrengthModerate = "MODERATE"
	srStrengthWeak     = "WEAK"
)

type srCluster struct {
	price   float64
	touches int
}

// FindSupportResistance scans the trailing lookback window for pivot
// highs/lows (2 bars each side), clusters them within 1%, and reports
// the nearest levels around the current price. Under 10 usable bars it
// returns synthetic levels at +/-5% with a WEAK marker.
func FindSupportResistance(data []types.OHLCV, lookback int) SRLevels {
	if lookback <= 0 {
		lookback = srLookback
	}
	if lookback > len(data) {
		lookback = len(data)
	}

	currentPrice := 0.0
	if len(data) > 0 {
		currentPrice = data[len(data)-1].Close
	}

	if lookback < srMinBars {
		return syntheticLevels(currentPrice)
	}

	window := data[len(data)-lookback:]

	var pivotHighs, pivotLows []float64
	for i := 2; i < len(window)-2; i++ {
		h := window[i].High
		if h > window[i-1].High && h > window[i-2].High && h > window[i+1].High && h > window[i+2].High {
			pivotHighs = append(pivotHighs, h)
		}
		l := window[i].Low
		if l < window[i-1].Low && l < window[i-2].Low && l < window[i+1].Low && l < window[i+2].Low {
			pivotLows = append(pivotLows, l)
		}
	}

	supports := clusterLevels(pivotLows)
	resistances := clusterLevels(pivotHighs)

	levels := SRLevels{
		SupportLevels:     clusterPrices(supports, 5),
		ResistanceLevels:  clusterPrices(resistances, 5),
		NearestSupport:    currentPrice * (1 - srSyntheticOffset),
		NearestResistance: currentPrice * (1 + srSyntheticOffset),
		Strength:          srStrengthWeak,
	}

	// Nearest support: highest clustered low below the current price
	bestTouches := 0
	found := false
	for _, c := range supports {
		if c.price < currentPrice && (!found || c.price > levels.NearestSupport) {
			levels.NearestSupport = c.price
			bestTouches = c.touches
			found = true
		}
	}
	// Nearest resistance: lowest clustered high above the current price
	resTouches := 0
	foundRes := false
	for _, c := range resistances {
		if c.price > currentPrice && (!foundRes || c.price < levels.NearestResistance) {
			levels.NearestResistance = c.price
			resTouches = c.touches
			foundRes = true
		}
	}

	if touches := max(bestTouches, resTouches); touches >= 3 {
		levels.Strength = srStrengthStrong
	} else if touches == 2 {
		levels.Strength = srStrengthModerate
	}

	if currentPrice > 0 {
		levels.DistanceToSupport = (currentPrice - levels.NearestSupport) / currentPrice * 100
		levels.DistanceToResistance = (levels.NearestResistance - currentPrice) / currentPrice * 100
	}
	return levels
}

func syntheticLevels(currentPrice float64) SRLevels {
	return SRLevels{
		NearestSupport:       currentPrice * (1 - srSyntheticOffset),
		NearestResistance:    currentPrice * (1 + srSyntheticOffset),
		DistanceToSupport:    srSyntheticOffset * 100,
		DistanceToResistance: srSyntheticOffset * 100,
		Strength:             srStrengthWeak,
	}
}

// clusterLevels merges sorted pivot prices whose difference from the
// cluster anchor is under 1%, averaging each cluster and counting its
// touches.
func clusterLevels(levels []float64) []srCluster {
	if len(levels) == 0 {
		return nil
	}
	sorted := append([]float64(nil), levels...)
	sort.Float64s(sorted)

	var clusters []srCluster
	anchor := sorted[0]
	sum := sorted[0]
	count := 1

	for _, level := range sorted[1:] {
		if (level-anchor)/anchor*100 < srClusterPct {
			sum += level
			count++
			continue
		}
		clusters = append(clusters, srCluster{price: sum / float64(count), touches: count})
		anchor = level
		sum = level
		count = 1
	}
	clusters = append(clusters, srCluster{price: sum / float64(count), touches: count})
	return clusters
}

func clusterPrices(clusters []srCluster, limit int) []float64 {
	prices := make([]float64, 0, len(clusters))
	for _, c := range clusters {
		prices = append(prices, c.price)
	}
	if len(prices) > limit {
		prices = prices[len(prices)-limit:]
	}
	return prices
}
