package analysis

import "github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"

// Target ladder multiples of ATR. The outer tier is additionally
// capped by the nearest resistance (support for SHORT).
const (
	targetNearATR = 1.5
	targetMidATR  = 3.0
	targetFarATR  = 5.0
)

// Trailing tiers, from deepest profit to shallowest. Each tier arms at
// pnl >= trigger * multiple and trails at currentPrice -/+ atrOffset * ATR,
// never below its floor.
var trailTiers = []struct {
	triggerMultiple float64
	atrOffset       float64
}{
	{4.0, 1.0},
	{3.0, 1.5},
	{2.0, 2.0},
	{1.0, 2.5},
	{0.5, 3.0},
}

// CalculateDynamicLevels derives an ATR-scaled target ladder plus a
// profit-tiered trailing-stop candidate. The trail ratchets from "keep
// original stop" through breakeven to profit-locking floors as the
// position's profit crosses multiples of the trail trigger; the
// candidate is only flagged when it is strictly tighter than the
// existing stop.
func CalculateDynamicLevels(data []types.OHLCV, pos types.PositionSpec, currentPrice, pnlPercent, trailTrigger float64) DynamicLevels {
	snap := NewSnapshot(data)
	sr := FindSupportResistance(data, srLookback)

	levels := DynamicLevels{
		ATR:        snap.ATR,
		Support:    sr.NearestSupport,
		Resistance: sr.NearestResistance,
	}

	if pos.Side == types.SideLong {
		levels.Target1 = currentPrice + snap.ATR*targetNearATR
		levels.Target2 = currentPrice + snap.ATR*targetMidATR
		levels.Target3 = currentPrice + snap.ATR*targetFarATR
		if sr.NearestResistance < levels.Target3 {
			levels.Target3 = sr.NearestResistance
		}
		levels.TrailStop = trailStopLong(snap.ATR, pos.EntryPrice, currentPrice, pos.StopLoss, pnlPercent, trailTrigger)
		levels.ShouldTrail = levels.TrailStop > pos.StopLoss
	} else {
		levels.Target1 = currentPrice - snap.ATR*targetNearATR
		levels.Target2 = currentPrice - snap.ATR*targetMidATR
		levels.Target3 = currentPrice - snap.ATR*targetFarATR
		if sr.NearestSupport > levels.Target3 {
			levels.Target3 = sr.NearestSupport
		}
		levels.TrailStop = trailStopShort(snap.ATR, pos.EntryPrice, currentPrice, pos.StopLoss, pnlPercent, trailTrigger)
		levels.ShouldTrail = levels.TrailStop < pos.StopLoss
	}

	return levels
}

func trailStopLong(atr, entry, current, stop, pnlPercent, trigger float64) float64 {
	floors := []float64{
		entry * 1.05, // lock 5% profit
		entry * 1.02, // lock 2%
		entry,        // breakeven
		stop,
		stop,
	}
	for i, tier := range trailTiers {
		if pnlPercent >= trigger*tier.triggerMultiple {
			candidate := current - atr*tier.atrOffset
			if candidate < floors[i] {
				candidate = floors[i]
			}
			return candidate
		}
	}
	return stop
}

func trailStopShort(atr, entry, current, stop, pnlPercent, trigger float64) float64 {
	floors := []float64{
		entry * 0.95,
		entry * 0.98,
		entry,
		stop,
		stop,
	}
	for i, tier := range trailTiers {
		if pnlPercent >= trigger*tier.triggerMultiple {
			candidate := current + atr*tier.atrOffset
			if candidate > floors[i] {
				candidate = floors[i]
			}
			return candidate
		}
	}
	return stop
}
