package analysis

import (
	"math"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// Momentum trend labels
const (
	TrendStrongBullish = "STRONG BULLISH"
	TrendBullish       = "BULLISH"
	TrendNeutral       = "NEUTRAL"
	TrendBearish       = "BEARISH"
	TrendStrongBearish = "STRONG BEARISH"
)

// Hand-tuned momentum contributions, preserved verbatim from the
// monitor's canonical scoring weights. Behavioral constants, not
// validated thresholds.
const (
	momRSIOverbought    = -10
	momRSIBullish       = 15
	momRSISlightBullish = 10
	momRSISlightBearish = -5
	momRSIBearish       = -15
	momRSIOversold      = 10

	momMACDExpanding   = 20
	momMACDContracting = 10

	momMAPoint = 5

	momROCWeight = 3.0
	momROCCap    = 15.0

	momTrendCap = 10.0
)

// CalculateMomentumScore combines RSI banding, MACD histogram
// direction, moving-average alignment, short-term rate of change, and
// a normalized trend-strength term into a 0-100 bullishness score.
// Series shorter than the 20-bar MA window score a neutral 50.
func CalculateMomentumScore(data []types.OHLCV) MomentumResult {
	if len(data) < sma20Size {
		return MomentumResult{Score: 50, Trend: TrendNeutral, Components: map[string]float64{}}
	}

	snap := NewSnapshot(data)
	closes := types.Closes(data)
	price := snap.Price

	score := 50.0
	components := make(map[string]float64, 5)

	// 1. RSI banding
	rsiScore := 0.0
	if snap.RSIOk {
		switch {
		case snap.RSI > 70:
			rsiScore = momRSIOverbought // might reverse
		case snap.RSI > 60:
			rsiScore = momRSIBullish
		case snap.RSI > 50:
			rsiScore = momRSISlightBullish
		case snap.RSI > 40:
			rsiScore = momRSISlightBearish
		case snap.RSI > 30:
			rsiScore = momRSIBearish
		default:
			rsiScore = momRSIOversold // might bounce
		}
	}
	score += rsiScore
	components["RSI"] = rsiScore

	// 2. MACD histogram direction and acceleration
	macdScore := 0.0
	if snap.MACDOk {
		if snap.MACDHist > 0 {
			if snap.MACDHist > snap.MACDHistPrev {
				macdScore = momMACDExpanding
			} else {
				macdScore = momMACDContracting
			}
		} else {
			if snap.MACDHist < snap.MACDHistPrev {
				macdScore = -momMACDExpanding
			} else {
				macdScore = -momMACDContracting
			}
		}
	}
	score += macdScore
	components["MACD"] = macdScore

	// 3. Moving-average stack alignment
	maScore := 0.0
	if snap.EMA9Ok {
		maScore += maPoint(price, snap.EMA9)
	}
	maScore += maPoint(price, snap.SMA20)
	maScore += maPoint(price, snap.SMA50)
	maScore += maPoint(snap.SMA20, snap.SMA50)
	score += maScore
	components["MA"] = maScore

	// 4. Short-term rate of change
	rocScore := 0.0
	if len(closes) > 6 {
		returns5d := (closes[len(closes)-1]/closes[len(closes)-6] - 1) * 100
		rocScore = math.Min(momROCCap, math.Max(-momROCCap, returns5d*momROCWeight))
	}
	score += rocScore
	components["Momentum"] = rocScore

	// 5. Trend strength from the normalized SMA spread
	trendScore := 0.0
	if snap.SMA50 > 0 {
		spread := math.Abs(snap.SMA20-snap.SMA50) / snap.SMA50 * 100
		trendScore = math.Min(momTrendCap, spread*2)
		if price < snap.SMA20 {
			trendScore = -trendScore
		}
	}
	score += trendScore
	components["Trend"] = trendScore

	final := clampScore(score)
	return MomentumResult{
		Score:      final,
		Trend:      momentumTrendLabel(final),
		Components: components,
	}
}

func maPoint(a, b float64) float64 {
	if a > b {
		return momMAPoint
	}
	if a < b {
		return -momMAPoint
	}
	return 0
}

func momentumTrendLabel(score int) string {
	switch {
	case score >= 70:
		return TrendStrongBullish
	case score >= 55:
		return TrendBullish
	case score >= 45:
		return TrendNeutral
	case score >= 30:
		return TrendBearish
	default:
		return TrendStrongBearish
	}
}

func clampScore(score float64) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return int(math.Round(score))
}
