package analysis

import (
	"fmt"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

const (
	upsideBaseline = 50

	upsideStrongMomentum = 25
	upsideGoodMomentum   = 15
	upsideWeakMomentum   = 20

	upsideRSIRoom     = 15
	upsideRSIExtreme  = 25
	upsideRSIStretch  = 10
	upsideVolumeBoost = 15
	upsideLowVolume   = 10
	upsideBBRoom      = 10
	upsideBBExhausted = 15
	upsideNewTarget   = 10

	upsideATRMultiple  = 3.0
	upsideMinGainPct   = 5.0
	upsideHoldScore    = 70
	upsidePartialScore = 50
)

// PredictUpsidePotential scores (0-100) whether a position that has
// already reached its first target is worth holding for more. Starts
// from a neutral baseline and shifts on momentum, RSI headroom, volume
// confirmation, Bollinger position, and the implied gain to a freshly
// computed target.
func PredictUpsidePotential(data []types.OHLCV, currentPrice float64, side types.Side) UpsideResult {
	score := upsideBaseline
	var reasons []string

	momentum := CalculateMomentumScore(data)
	if side == types.SideLong {
		switch {
		case momentum.Score >= 70:
			score += upsideStrongMomentum
			reasons = append(reasons, fmt.Sprintf("Strong momentum (%d)", momentum.Score))
		case momentum.Score >= 55:
			score += upsideGoodMomentum
			reasons = append(reasons, fmt.Sprintf("Good momentum (%d)", momentum.Score))
		case momentum.Score <= 40:
			score -= upsideWeakMomentum
			reasons = append(reasons, fmt.Sprintf("Weak momentum (%d)", momentum.Score))
		}
	} else {
		switch {
		case momentum.Score <= 30:
			score += upsideStrongMomentum
			reasons = append(reasons, fmt.Sprintf("Strong bearish momentum (%d)", momentum.Score))
		case momentum.Score <= 45:
			score += upsideGoodMomentum
			reasons = append(reasons, fmt.Sprintf("Good bearish momentum (%d)", momentum.Score))
		case momentum.Score >= 60:
			score -= upsideWeakMomentum
			reasons = append(reasons, fmt.Sprintf("Bullish reversal (%d)", momentum.Score))
		}
	}

	snap := NewSnapshot(data)
	if snap.RSIOk {
		if side == types.SideLong {
			switch {
			case snap.RSI < 60:
				score += upsideRSIRoom
				reasons = append(reasons, fmt.Sprintf("RSI has room (%.0f)", snap.RSI))
			case snap.RSI > 75:
				score -= upsideRSIExtreme
				reasons = append(reasons, fmt.Sprintf("RSI overbought (%.0f)", snap.RSI))
			case snap.RSI > 65:
				score -= upsideRSIStretch
				reasons = append(reasons, fmt.Sprintf("RSI getting high (%.0f)", snap.RSI))
			}
		} else {
			switch {
			case snap.RSI > 40:
				score += upsideRSIRoom
				reasons = append(reasons, fmt.Sprintf("RSI has room (%.0f)", snap.RSI))
			case snap.RSI < 25:
				score -= upsideRSIExtreme
				reasons = append(reasons, fmt.Sprintf("RSI oversold (%.0f)", snap.RSI))
			}
		}
	}

	volume := AnalyzeVolume(data)
	switch {
	case side == types.SideLong && (volume.Signal == VolumeStrongBuying || volume.Signal == VolumeBuying):
		score += upsideVolumeBoost
		reasons = append(reasons, fmt.Sprintf("Buying volume (%.1fx)", volume.Ratio))
	case side == types.SideShort && (volume.Signal == VolumeStrongSelling || volume.Signal == VolumeSelling):
		score += upsideVolumeBoost
		reasons = append(reasons, fmt.Sprintf("Selling volume (%.1fx)", volume.Ratio))
	case volume.Ratio < volumeWeakRatio:
		score -= upsideLowVolume
		reasons = append(reasons, "Low volume")
	}

	if snap.BBOk && snap.BBUpper > snap.BBLower {
		bbPosition := (currentPrice - snap.BBLower) / (snap.BBUpper - snap.BBLower)
		if side == types.SideLong {
			if bbPosition < 0.7 {
				score += upsideBBRoom
				reasons = append(reasons, "Room to upper band")
			} else if bbPosition > 0.95 {
				score -= upsideBBExhausted
				reasons = append(reasons, "At upper band")
			}
		} else {
			if bbPosition > 0.3 {
				score += upsideBBRoom
				reasons = append(reasons, "Room to lower band")
			} else if bbPosition < 0.05 {
				score -= upsideBBExhausted
				reasons = append(reasons, "At lower band")
			}
		}
	}

	// New target: 3x ATR projection, capped by the nearest level beyond price
	sr := FindSupportResistance(data, srLookback)
	var newTarget, potentialGain float64
	if side == types.SideLong {
		newTarget = currentPrice + snap.ATR*upsideATRMultiple
		if sr.NearestResistance > currentPrice && sr.NearestResistance < newTarget {
			newTarget = sr.NearestResistance
		}
		potentialGain = (newTarget - currentPrice) / currentPrice * 100
	} else {
		newTarget = currentPrice - snap.ATR*upsideATRMultiple
		if sr.NearestSupport < currentPrice && sr.NearestSupport > newTarget {
			newTarget = sr.NearestSupport
		}
		potentialGain = (currentPrice - newTarget) / currentPrice * 100
	}
	if potentialGain > upsideMinGainPct {
		score += upsideNewTarget
		reasons = append(reasons, fmt.Sprintf("%.1f%% more potential", potentialGain))
	}

	if score < 0 {
		score = 0
	} else if score > 100 {
		score = 100
	}

	result := UpsideResult{NewTarget: newTarget}
	result.Score = score
	result.Reasons = reasons
	switch {
	case score >= upsideHoldScore:
		result.Recommendation = "HOLD"
		result.Action = fmt.Sprintf("Strong upside - New target: %.2f", newTarget)
	case score >= upsidePartialScore:
		result.Recommendation = "PARTIAL_EXIT"
		result.Action = fmt.Sprintf("Book 50%%, hold rest for %.2f", newTarget)
	default:
		result.Recommendation = "EXIT"
		result.Action = "Book full profits now"
	}
	return result
}
