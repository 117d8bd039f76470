package analysis

import (
	"fmt"
	"sort"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// voteTimeframe runs the lightweight four-point direction vote on one
// timeframe's series: RSI above midline, price above SMA 20, price
// above EMA 9, MACD histogram positive. Returns false when the series
// is too short to vote.
func voteTimeframe(label string, data []types.OHLCV) (TimeframeVote, bool) {
	if len(data) < sma20Size {
		return TimeframeVote{}, false
	}

	snap := NewSnapshot(data)
	price := data[len(data)-1].Close
	vote := TimeframeVote{Label: label}

	point := func(bullish bool) {
		if bullish {
			vote.BullPoints++
		} else {
			vote.BearPoints++
		}
	}
	if snap.RSIOk {
		point(snap.RSI > 50)
	}
	if snap.SMA20Ok {
		point(price > snap.SMA20)
	}
	if snap.EMA9Ok {
		point(price > snap.EMA9)
	}
	if snap.MACDOk {
		point(snap.MACDHist > 0)
	}

	total := vote.BullPoints + vote.BearPoints
	if total == 0 {
		return TimeframeVote{}, false
	}

	switch {
	case vote.BullPoints > vote.BearPoints:
		vote.Classification = TrendBullish
	case vote.BearPoints > vote.BullPoints:
		vote.Classification = TrendBearish
	default:
		vote.Classification = TrendNeutral
	}
	if vote.BullPoints == total || vote.BearPoints == total {
		vote.Strength = "STRONG"
	} else {
		vote.Strength = "MODERATE"
	}
	return vote, true
}

// CheckTimeframeAlignment votes each supplied timeframe independently
// and reports what fraction agrees with the position's favorable
// direction. Timeframes that fail to compute simply don't contribute;
// with none usable the result is a neutral 50.
func CheckTimeframeAlignment(series map[string][]types.OHLCV, side types.Side) AlignmentResult {
	favorable := TrendBullish
	if side == types.SideShort {
		favorable = TrendBearish
	}

	labels := make([]string, 0, len(series))
	for label := range series {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	var votes []TimeframeVote
	matching := 0
	for _, label := range labels {
		vote, ok := voteTimeframe(label, series[label])
		if !ok {
			continue
		}
		votes = append(votes, vote)
		if vote.Classification == favorable {
			matching++
		}
	}

	if len(votes) == 0 {
		return AlignmentResult{
			Score:          50,
			Recommendation: "No timeframe data available - neutral",
		}
	}

	score := int(float64(matching) / float64(len(votes)) * 100)
	result := AlignmentResult{Score: score, Votes: votes}
	switch {
	case score >= 75:
		result.Recommendation = fmt.Sprintf("Strong alignment (%d/%d timeframes)", matching, len(votes))
	case score >= 50:
		result.Recommendation = fmt.Sprintf("Moderate alignment (%d/%d timeframes)", matching, len(votes))
	case score >= 25:
		result.Recommendation = fmt.Sprintf("Weak alignment (%d/%d timeframes)", matching, len(votes))
	default:
		result.Recommendation = "Timeframes oppose position"
	}
	return result
}
