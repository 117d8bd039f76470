package analysis

import (
	"fmt"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// Additive stop-loss risk points, each term independently capped.
// Preserved verbatim from the monitor's canonical scoring weights.
const (
	slRiskVeryClose   = 40 // under 1% from the stop
	slRiskClose       = 30 // under 2%
	slRiskApproaching = 15 // under 3%
	slRiskNearby      = 5  // under 5%

	slRiskBelowEMA9  = 8
	slRiskBelowSMA20 = 10
	slRiskBelowSMA50 = 7
	slRiskMACross    = 5

	slRiskMACDSign      = 8
	slRiskMACDDirection = 7

	slRiskRSIExtreme  = 10
	slRiskCandleRun   = 10
	slRiskVolumeFlow  = 10
	slRiskCandleCount = 3 // closing moves against the position
)

// PredictStopLossRisk estimates the likelihood (0-100) of the position
// hitting its stop loss. A breached stop short-circuits to 100. The
// priority bands above the fixed CRITICAL levels shift with the
// caller's alert threshold, so a risk-tolerance setting changes
// urgency without changing the numeric score.
func PredictStopLossRisk(data []types.OHLCV, pos types.PositionSpec, currentPrice float64, cfg Config) SLRiskResult {
	snap := NewSnapshot(data)
	volume := AnalyzeVolume(data)

	var distancePct float64
	if pos.Side == types.SideLong {
		distancePct = (currentPrice - pos.StopLoss) / currentPrice * 100
	} else {
		distancePct = (pos.StopLoss - currentPrice) / currentPrice * 100
	}

	result := SLRiskResult{
		DistanceToStopPct: distancePct,
		IsApproaching:     distancePct >= 0 && distancePct < cfg.SLApproachThresholdPct,
	}

	var reasons []string
	score := 0

	// 1. Distance to stop loss (dominant term)
	switch {
	case distancePct < 0:
		// Already breached: maximal risk regardless of everything else
		result.Score = 100
		result.Reasons = []string{"SL already breached!"}
		result.Recommendation, result.Priority = slRiskBands(100, cfg.SLAlertThreshold)
		return result
	case distancePct < 1:
		score += slRiskVeryClose
		reasons = append(reasons, fmt.Sprintf("Very close to SL (%.1f%% away)", distancePct))
	case distancePct < 2:
		score += slRiskClose
		reasons = append(reasons, fmt.Sprintf("Close to SL (%.1f%% away)", distancePct))
	case distancePct < 3:
		score += slRiskApproaching
		reasons = append(reasons, fmt.Sprintf("Approaching SL (%.1f%% away)", distancePct))
	case distancePct < 5:
		score += slRiskNearby
	}

	// 2. Trend against position
	if pos.Side == types.SideLong {
		if snap.EMA9Ok && currentPrice < snap.EMA9 {
			score += slRiskBelowEMA9
			reasons = append(reasons, "Below EMA 9")
		}
		if snap.SMA20Ok && currentPrice < snap.SMA20 {
			score += slRiskBelowSMA20
			reasons = append(reasons, "Below SMA 20")
		}
		if snap.SMA20Ok && currentPrice < snap.SMA50 {
			score += slRiskBelowSMA50
			reasons = append(reasons, "Below SMA 50")
		}
		if snap.SMA50Ok && snap.SMA20 < snap.SMA50 {
			score += slRiskMACross
			reasons = append(reasons, "Death cross forming")
		}
	} else {
		if snap.EMA9Ok && currentPrice > snap.EMA9 {
			score += slRiskBelowEMA9
			reasons = append(reasons, "Above EMA 9")
		}
		if snap.SMA20Ok && currentPrice > snap.SMA20 {
			score += slRiskBelowSMA20
			reasons = append(reasons, "Above SMA 20")
		}
		if snap.SMA20Ok && currentPrice > snap.SMA50 {
			score += slRiskBelowSMA50
			reasons = append(reasons, "Above SMA 50")
		}
		if snap.SMA50Ok && snap.SMA20 > snap.SMA50 {
			score += slRiskMACross
			reasons = append(reasons, "Golden cross forming")
		}
	}

	// 3. MACD against position
	if snap.MACDOk {
		if pos.Side == types.SideLong {
			if snap.MACDHist < 0 {
				score += slRiskMACDSign
				reasons = append(reasons, "MACD bearish")
			}
			if snap.MACDHist < snap.MACDHistPrev {
				score += slRiskMACDDirection
				reasons = append(reasons, "MACD declining")
			}
		} else {
			if snap.MACDHist > 0 {
				score += slRiskMACDSign
				reasons = append(reasons, "MACD bullish")
			}
			if snap.MACDHist > snap.MACDHistPrev {
				score += slRiskMACDDirection
				reasons = append(reasons, "MACD rising")
			}
		}
	}

	// 4. RSI exhaustion against the position
	if snap.RSIOk {
		if pos.Side == types.SideLong && snap.RSI < 35 {
			score += slRiskRSIExtreme
			reasons = append(reasons, fmt.Sprintf("RSI weak (%.0f)", snap.RSI))
		} else if pos.Side == types.SideShort && snap.RSI > 65 {
			score += slRiskRSIExtreme
			reasons = append(reasons, fmt.Sprintf("RSI strong (%.0f)", snap.RSI))
		}
	}

	// 5. Consecutive closes against the position
	if run, against := consecutiveRun(data, pos.Side); against && run >= slRiskCandleCount {
		score += slRiskCandleRun
		if pos.Side == types.SideLong {
			reasons = append(reasons, "3 consecutive red candles")
		} else {
			reasons = append(reasons, "3 consecutive green candles")
		}
	}

	// 6. Volume flow against the position
	if volume.opposesPosition(pos.Side) {
		score += slRiskVolumeFlow
		if pos.Side == types.SideLong {
			reasons = append(reasons, fmt.Sprintf("Selling volume (%.1fx)", volume.Ratio))
		} else {
			reasons = append(reasons, fmt.Sprintf("Buying volume (%.1fx)", volume.Ratio))
		}
	}

	if score > 100 {
		score = 100
	}

	result.Score = score
	result.Reasons = reasons
	result.Recommendation, result.Priority = slRiskBands(score, cfg.SLAlertThreshold)
	return result
}

// consecutiveRun counts how many of the last three close-to-close
// moves ran against the position, and whether all of them did.
func consecutiveRun(data []types.OHLCV, side types.Side) (int, bool) {
	if len(data) < slRiskCandleCount+1 {
		return 0, false
	}
	run := 0
	for i := len(data) - slRiskCandleCount; i < len(data); i++ {
		diff := data[i].Close - data[i-1].Close
		if (side == types.SideLong && diff < 0) || (side == types.SideShort && diff > 0) {
			run++
		}
	}
	return run, run == slRiskCandleCount
}

// slRiskBands maps a risk score to a recommendation and priority. The
// two top bands are fixed; the rest are relative to the caller's alert
// threshold.
func slRiskBands(score, threshold int) (string, Priority) {
	switch {
	case score >= 90:
		return "EXIT NOW - Very high risk", PriorityCritical
	case score >= 75:
		return "EXIT SOON - High risk", PriorityCritical
	case score >= threshold+20:
		return "CONSIDER EXIT - Elevated risk", PriorityHigh
	case score >= threshold:
		return "WATCH CLOSELY - Moderate risk", PriorityMedium
	case score >= 20:
		return "MONITOR - Low risk", PriorityLow
	default:
		return "SAFE - Very low risk", PrioritySafe
	}
}
