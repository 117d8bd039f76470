package analysis

import (
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/internal/indicators"
	"github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"
)

// Indicator windows shared across the scorers
const (
	rsiPeriod  = 14
	atrPeriod  = 14
	bbPeriod   = 20
	bbStdDev   = 2.0
	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9
	ema9Period = 9
	sma20Size  = 20
	sma50Size  = 50
)

// atrFallbackPct is the ATR stand-in (as a fraction of price) when the
// series is too short for a real ATR.
const atrFallbackPct = 0.02

// Snapshot holds the latest-bar indicator values for one series,
// recomputed on every evaluation. Each value carries a neutral
// fallback when the series is too short, chosen so that comparisons
// against it contribute nothing to the scorers; the Ok flags let
// scorers skip such terms entirely.
type Snapshot struct {
	Price float64

	RSI   float64
	RSIOk bool

	MACDHist     float64
	MACDHistPrev float64
	MACDOk       bool

	SMA20   float64
	SMA20Ok bool
	SMA50   float64 // falls back to SMA20 under 50 bars, as the 20-bar mean does for shorter series
	SMA50Ok bool
	EMA9    float64
	EMA9Ok  bool

	ATR   float64
	ATROk bool

	BBUpper  float64
	BBMiddle float64
	BBLower  float64
	BBOk     bool
}

// NewSnapshot derives the indicator snapshot for a non-empty series
func NewSnapshot(data []types.OHLCV) Snapshot {
	closes := types.Closes(data)
	price := closes[len(closes)-1]

	snap := Snapshot{
		Price: price,
		RSI:   50,
		SMA20: price,
		SMA50: price,
		EMA9:  price,
		ATR:   price * atrFallbackPct,
	}

	if rsi, err := indicators.NewRSI(rsiPeriod).Calculate(closes); err == nil {
		snap.RSI = rsi
		snap.RSIOk = true
	}

	if _, _, hist, err := indicators.NewMACD(macdFast, macdSlow, macdSignal).Series(closes); err == nil {
		snap.MACDHist = hist[len(hist)-1]
		if len(hist) > 1 {
			snap.MACDHistPrev = hist[len(hist)-2]
		}
		snap.MACDOk = true
	}

	if sma, err := indicators.NewSMA(sma20Size).Calculate(closes); err == nil {
		snap.SMA20 = sma
		snap.SMA20Ok = true
		snap.SMA50 = sma
	}
	if sma, err := indicators.NewSMA(sma50Size).Calculate(closes); err == nil {
		snap.SMA50 = sma
		snap.SMA50Ok = true
	}
	if len(closes) >= ema9Period {
		if ema, err := indicators.NewEMA(ema9Period).Calculate(closes); err == nil {
			snap.EMA9 = ema
			snap.EMA9Ok = true
		}
	}

	if atr, err := indicators.NewATR(atrPeriod).Calculate(data); err == nil {
		snap.ATR = atr
		snap.ATROk = true
	}

	if upper, middle, lower, err := indicators.NewBollingerBands(bbPeriod, bbStdDev).Calculate(closes); err == nil {
		snap.BBUpper = upper
		snap.BBMiddle = middle
		snap.BBLower = lower
		snap.BBOk = true
	}

	return snap
}
