package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// trendSeries builds count bars whose closes walk linearly from start
// by step, with a constant 2-point bar range and flat volume.
func trendSeries(count int, start, step float64) []types.OHLCV {
	data := make([]types.OHLCV, count)
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		close := start + step*float64(i)
		data[i] = types.OHLCV{
			Open:      close - step/2,
			High:      close + 1.0,
			Low:       close - 1.0,
			Close:     close,
			Volume:    1000,
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	return data
}

func flatSeries(count int, price float64) []types.OHLCV {
	return trendSeries(count, price, 0)
}

// climbSeries rises in down/up pairs so the RSI stays moderate while
// the trend holds. The half-point bar range keeps the ATR small and
// the final bar closes up on elevated volume.
func climbSeries(count int, start float64) []types.OHLCV {
	data := make([]types.OHLCV, count)
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	close := start
	for i := 0; i < count; i++ {
		if i%2 == 0 {
			close -= 0.5
		} else {
			close += 0.7
		}
		volume := 1000.0
		if i == count-1 {
			volume = 1500
		}
		data[i] = types.OHLCV{
			Open:      close,
			High:      close + 0.5,
			Low:       close - 0.5,
			Close:     close,
			Volume:    volume,
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	return data
}

// waveSeries oscillates around 100 so pivot highs and lows exist
func waveSeries(count int) []types.OHLCV {
	data := make([]types.OHLCV, count)
	base := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < count; i++ {
		close := 100.0 + 5.0*math.Sin(float64(i)/3.0)
		data[i] = types.OHLCV{
			Open:      close,
			High:      close + 1.0,
			Low:       close - 1.0,
			Close:     close,
			Volume:    1000 + float64(i%4)*200,
			Timestamp: base.Add(time.Duration(i) * 24 * time.Hour),
		}
	}
	return data
}

func TestAnalyzeVolumeClassification(t *testing.T) {
	tests := []struct {
		name         string
		lastVolume   float64
		priceChange  float64
		expectSignal VolumeSignal
	}{
		{"strong buying", 2000, 1.0, VolumeStrongBuying},
		{"buying", 1200, 1.0, VolumeBuying},
		{"weak buying", 500, 1.0, VolumeWeakBuying},
		{"strong selling", 2000, -1.0, VolumeStrongSelling},
		{"selling", 1200, -1.0, VolumeSelling},
		{"weak selling", 500, -1.0, VolumeWeakSelling},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := flatSeries(25, 100)
			last := len(data) - 1
			data[last].Close += tt.priceChange
			data[last].Volume = tt.lastVolume

			report := AnalyzeVolume(data)
			if report.Signal != tt.expectSignal {
				t.Errorf("signal = %s, want %s (ratio %.2f)", report.Signal, tt.expectSignal, report.Ratio)
			}
		})
	}
}

func TestAnalyzeVolumeShortSeries(t *testing.T) {
	report := AnalyzeVolume(flatSeries(10, 100))
	if report.Signal != VolumeNeutral {
		t.Errorf("signal = %s, want NEUTRAL", report.Signal)
	}
	if report.Ratio != 1.0 {
		t.Errorf("ratio = %.2f, want 1.0", report.Ratio)
	}
}

func TestAnalyzeVolumeTrend(t *testing.T) {
	data := flatSeries(25, 100)
	for i := len(data) - 5; i < len(data); i++ {
		data[i].Volume = 3000
	}
	report := AnalyzeVolume(data)
	assert.Equal(t, "INCREASING", report.Trend)
}

func TestFindSupportResistanceSynthetic(t *testing.T) {
	levels := FindSupportResistance(flatSeries(5, 100), srLookback)

	assert.InDelta(t, 95.0, levels.NearestSupport, 1e-9)
	assert.InDelta(t, 105.0, levels.NearestResistance, 1e-9)
	assert.Equal(t, "WEAK", levels.Strength)
}

func TestFindSupportResistanceBracketsPrice(t *testing.T) {
	data := waveSeries(60)
	current := data[len(data)-1].Close

	levels := FindSupportResistance(data, srLookback)

	require.Less(t, levels.NearestSupport, current)
	require.Greater(t, levels.NearestResistance, current)
	assert.Greater(t, levels.DistanceToSupport, 0.0)
	assert.Greater(t, levels.DistanceToResistance, 0.0)
}

func TestClusterLevelsMergesNearbyPivots(t *testing.T) {
	clusters := clusterLevels([]float64{100.0, 100.5, 100.8, 110.0})

	require.Len(t, clusters, 2)
	assert.Equal(t, 3, clusters[0].touches)
	assert.InDelta(t, 100.433, clusters[0].price, 0.01)
	assert.Equal(t, 1, clusters[1].touches)
}

func TestMomentumScoreUptrend(t *testing.T) {
	result := CalculateMomentumScore(trendSeries(60, 80, 0.5))
	if result.Score < 70 {
		t.Errorf("uptrend momentum = %d, want >= 70", result.Score)
	}
	if result.Trend != TrendStrongBullish {
		t.Errorf("trend = %s, want %s", result.Trend, TrendStrongBullish)
	}
}

func TestMomentumScoreDowntrend(t *testing.T) {
	result := CalculateMomentumScore(trendSeries(60, 120, -0.5))
	if result.Score > 35 {
		t.Errorf("downtrend momentum = %d, want <= 35", result.Score)
	}
}

func TestMomentumScoreShortSeries(t *testing.T) {
	result := CalculateMomentumScore(flatSeries(10, 100))
	if result.Score != 50 {
		t.Errorf("score = %d, want neutral 50", result.Score)
	}
	if result.Trend != TrendNeutral {
		t.Errorf("trend = %s, want NEUTRAL", result.Trend)
	}
}

func TestMomentumScoreBounded(t *testing.T) {
	for _, data := range [][]types.OHLCV{
		trendSeries(60, 80, 0.5),
		trendSeries(60, 120, -0.5),
		flatSeries(60, 100),
		waveSeries(60),
		flatSeries(5, 100),
	} {
		result := CalculateMomentumScore(data)
		require.GreaterOrEqual(t, result.Score, 0)
		require.LessOrEqual(t, result.Score, 100)
	}
}

func TestPredictStopLossRiskBreach(t *testing.T) {
	pos := types.PositionSpec{Ticker: "TEST", Side: types.SideLong, EntryPrice: 105, StopLoss: 101, Target1: 110, Target2: 115}
	result := PredictStopLossRisk(flatSeries(60, 100), pos, 100, DefaultConfig())

	assert.Equal(t, 100, result.Score)
	assert.Equal(t, PriorityCritical, result.Priority)
	require.NotEmpty(t, result.Reasons)
	assert.Equal(t, "SL already breached!", result.Reasons[0])
	assert.Less(t, result.DistanceToStopPct, 0.0)
}

func TestPredictStopLossRiskDistanceBand(t *testing.T) {
	// Flat series, stop 0.5% below price: only the distance term fires
	pos := types.PositionSpec{Ticker: "TEST", Side: types.SideLong, EntryPrice: 105, StopLoss: 99.5, Target1: 110, Target2: 115}
	result := PredictStopLossRisk(flatSeries(60, 100), pos, 100, DefaultConfig())

	assert.Equal(t, 40, result.Score)
	assert.Equal(t, PriorityLow, result.Priority)
	assert.True(t, result.IsApproaching)
}

func TestPredictStopLossRiskDowntrend(t *testing.T) {
	// Falling price near the stop stacks distance, trend, MACD, and
	// candle-run terms
	data := trendSeries(60, 120, -0.5)
	current := data[len(data)-1].Close
	pos := types.PositionSpec{Ticker: "TEST", Side: types.SideLong, EntryPrice: 100, StopLoss: current * 0.995, Target1: 110, Target2: 115}

	result := PredictStopLossRisk(data, pos, current, DefaultConfig())

	assert.GreaterOrEqual(t, result.Score, 75)
	assert.Equal(t, PriorityCritical, result.Priority)
}

func TestSLRiskBands(t *testing.T) {
	threshold := 50
	tests := []struct {
		score    int
		priority Priority
	}{
		{95, PriorityCritical},
		{80, PriorityCritical},
		{70, PriorityHigh},
		{55, PriorityMedium},
		{30, PriorityLow},
		{5, PrioritySafe},
	}
	for _, tt := range tests {
		_, priority := slRiskBands(tt.score, threshold)
		if priority != tt.priority {
			t.Errorf("score %d: priority = %s, want %s", tt.score, priority, tt.priority)
		}
	}
}

func TestPredictUpsidePotentialBounded(t *testing.T) {
	for _, data := range [][]types.OHLCV{
		trendSeries(60, 80, 0.5),
		trendSeries(60, 120, -0.5),
		waveSeries(60),
	} {
		for _, side := range []types.Side{types.SideLong, types.SideShort} {
			result := PredictUpsidePotential(data, data[len(data)-1].Close, side)
			require.GreaterOrEqual(t, result.Score, 0)
			require.LessOrEqual(t, result.Score, 100)
			require.Contains(t, []string{"HOLD", "PARTIAL_EXIT", "EXIT"}, result.Recommendation)
		}
	}
}

func TestPredictUpsidePotentialNewTarget(t *testing.T) {
	data := trendSeries(60, 80, 0.5)
	current := data[len(data)-1].Close

	long := PredictUpsidePotential(data, current, types.SideLong)
	assert.Greater(t, long.NewTarget, current)

	short := PredictUpsidePotential(data, current, types.SideShort)
	assert.Less(t, short.NewTarget, current)
}
