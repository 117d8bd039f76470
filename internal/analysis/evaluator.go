package analysis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// ErrNoData is returned when a position's price series is empty.
// Every other degenerate input degrades to documented fallbacks.
var ErrNoData = errors.New("no price data")

const (
	upsideHoldBranch      = 60 // upside score that turns a target1 hit into HOLD_EXTEND
	alignmentWarningScore = 40 // alignment below this while in loss triggers a watch
)

// EvaluatePosition runs the full scoring pipeline for one position:
// volume, support/resistance, momentum, stop-loss risk, conditional
// upside, dynamic levels, optional multi-timeframe alignment, then a
// fixed priority ladder that picks the overall status and action. The
// first matching ladder condition wins; a low-priority volume warning
// may be appended on top of whatever the ladder decided.
func EvaluatePosition(pos types.PositionSpec, series []types.OHLCV, timeframes map[string][]types.OHLCV, cfg Config) (*EvaluationResult, error) {
	if len(series) == 0 {
		return nil, fmt.Errorf("evaluate %s: %w", pos.Ticker, ErrNoData)
	}

	currentPrice := series[len(series)-1].Close
	result := &EvaluationResult{
		Position:     pos,
		CurrentPrice: currentPrice,
		PnLPercent:   pos.PnLPercent(currentPrice),
		PnLAmount:    pos.PnLAmount(currentPrice),
	}

	snap := NewSnapshot(series)
	result.RSI = snap.RSI
	result.MACDHist = snap.MACDHist
	if snap.MACDHist > 0 {
		result.MACDSignal = TrendBullish
	} else {
		result.MACDSignal = TrendBearish
	}

	result.Momentum = CalculateMomentumScore(series)
	result.Volume = AnalyzeVolume(series)
	result.Levels = FindSupportResistance(series, srLookback)
	result.SLRisk = PredictStopLossRisk(series, pos, currentPrice, cfg)

	if pos.Side == types.SideLong {
		result.Target1Hit = currentPrice >= pos.Target1
		result.Target2Hit = currentPrice >= pos.Target2
		result.StopHit = currentPrice <= pos.StopLoss
	} else {
		result.Target1Hit = currentPrice <= pos.Target1
		result.Target2Hit = currentPrice <= pos.Target2
		result.StopHit = currentPrice >= pos.StopLoss
	}

	if result.Target1Hit && !result.StopHit {
		upside := PredictUpsidePotential(series, currentPrice, pos.Side)
		result.Upside = &upside
	}

	result.Dynamic = CalculateDynamicLevels(series, pos, currentPrice, result.PnLPercent, cfg.TrailTrigger)

	if cfg.EnableMultiTimeframe && len(timeframes) > 0 {
		alignment := CheckTimeframeAlignment(timeframes, pos.Side)
		result.Alignment = &alignment
	}

	applyPriorityLadder(result, cfg)
	return result, nil
}

// applyPriorityLadder evaluates the ordered alert conditions. Exactly
// one ladder branch sets the overall status and action; the volume
// warning at the end is additive.
func applyPriorityLadder(r *EvaluationResult, cfg Config) {
	pos := r.Position
	switch {
	case r.StopHit:
		r.Alerts = append(r.Alerts, Alert{
			Priority: PriorityCritical,
			Type:     "🚨 STOP LOSS HIT",
			Message:  fmt.Sprintf("Price %.2f breached SL %.2f", r.CurrentPrice, pos.StopLoss),
			Action:   "EXIT IMMEDIATELY",
		})
		r.OverallStatus = StatusCritical
		r.OverallAction = ActionExit

	case r.SLRisk.Score >= cfg.SLAlertThreshold+20:
		r.Alerts = append(r.Alerts, Alert{
			Priority: PriorityCritical,
			Type:     "⚠️ HIGH SL RISK",
			Message:  fmt.Sprintf("Risk Score: %d%% - %s", r.SLRisk.Score, topReasons(r.SLRisk.Reasons)),
			Action:   r.SLRisk.Recommendation,
		})
		r.OverallStatus = StatusCritical
		r.OverallAction = ActionExitEarly

	case r.SLRisk.Score >= cfg.SLAlertThreshold:
		r.Alerts = append(r.Alerts, Alert{
			Priority: PriorityHigh,
			Type:     "⚠️ MODERATE SL RISK",
			Message:  fmt.Sprintf("Risk Score: %d%% - %s", r.SLRisk.Score, topReasons(r.SLRisk.Reasons)),
			Action:   r.SLRisk.Recommendation,
		})
		r.OverallStatus = StatusWarning
		r.OverallAction = ActionWatch

	case r.Target2Hit:
		r.Alerts = append(r.Alerts, Alert{
			Priority: PriorityHigh,
			Type:     "🎯 TARGET 2 HIT",
			Message:  fmt.Sprintf("Both targets achieved! P&L: %+.2f%%", r.PnLPercent),
			Action:   "BOOK FULL PROFITS",
		})
		r.OverallStatus = StatusSuccess
		r.OverallAction = ActionBookProfits

	case r.Target1Hit:
		if r.Upside != nil && r.Upside.Score >= upsideHoldBranch {
			r.Alerts = append(r.Alerts, Alert{
				Priority: PriorityInfo,
				Type:     "🎯 TARGET HIT - HOLD",
				Message:  fmt.Sprintf("Upside Score: %d%% - %s", r.Upside.Score, topReasons(r.Upside.Reasons)),
				Action:   r.Upside.Action,
			})
			r.OverallStatus = StatusOpportunity
			r.OverallAction = ActionHoldExtend
		} else {
			upsideScore := 0
			if r.Upside != nil {
				upsideScore = r.Upside.Score
			}
			r.Alerts = append(r.Alerts, Alert{
				Priority: PriorityHigh,
				Type:     "🎯 TARGET HIT - EXIT",
				Message:  fmt.Sprintf("Limited upside (%d%%). Book profits.", upsideScore),
				Action:   "BOOK PROFITS",
			})
			r.OverallStatus = StatusSuccess
			r.OverallAction = ActionBookProfits
		}

	case r.Dynamic.ShouldTrail && r.PnLPercent >= cfg.TrailTrigger:
		r.Alerts = append(r.Alerts, Alert{
			Priority: PriorityMedium,
			Type:     "📈 TRAIL STOP LOSS",
			Message:  fmt.Sprintf("Lock profits! Move SL from %.2f to %.2f", pos.StopLoss, r.Dynamic.TrailStop),
			Action:   fmt.Sprintf("New SL: %.2f", r.Dynamic.TrailStop),
		})
		r.OverallStatus = StatusGood
		r.OverallAction = ActionTrailSL

	case r.Alignment != nil && r.Alignment.Score < alignmentWarningScore && r.PnLPercent < 0:
		r.Alerts = append(r.Alerts, Alert{
			Priority: PriorityMedium,
			Type:     "⏱️ TIMEFRAMES MISALIGNED",
			Message:  fmt.Sprintf("Only %d%% of timeframes favor the position", r.Alignment.Score),
			Action:   r.Alignment.Recommendation,
		})
		r.OverallStatus = StatusWarning
		r.OverallAction = ActionWatch

	default:
		r.OverallStatus = StatusOK
		r.OverallAction = ActionHold
	}

	// Supplementary warning: strong volume against the position while
	// risk is still under the alert threshold
	strongOpposing := (pos.Side == types.SideLong && r.Volume.Signal == VolumeStrongSelling) ||
		(pos.Side == types.SideShort && r.Volume.Signal == VolumeStrongBuying)
	if strongOpposing && r.SLRisk.Score < cfg.SLAlertThreshold {
		r.Alerts = append(r.Alerts, Alert{
			Priority: PriorityLow,
			Type:     "📊 VOLUME WARNING",
			Message:  r.Volume.Description,
			Action:   "Monitor closely",
		})
	}
}

// topReasons joins the first two reasons for a compact alert message
func topReasons(reasons []string) string {
	if len(reasons) > 2 {
		reasons = reasons[:2]
	}
	return strings.Join(reasons, ", ")
}
