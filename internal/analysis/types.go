package analysis

import "github.com/shyamsunderpatri-5/Portfolio-Monitor/pkg/types"

// Priority ranks alerts and score recommendations
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
	PriorityLow      Priority = "LOW"
	PriorityInfo     Priority = "INFO"
	PrioritySafe     Priority = "SAFE"
)

// VolumeSignal classifies the latest bar's volume against price direction
type VolumeSignal string

const (
	VolumeStrongBuying  VolumeSignal = "STRONG_BUYING"
	VolumeBuying        VolumeSignal = "BUYING"
	VolumeWeakBuying    VolumeSignal = "WEAK_BUYING"
	VolumeStrongSelling VolumeSignal = "STRONG_SELLING"
	VolumeSelling       VolumeSignal = "SELLING"
	VolumeWeakSelling   VolumeSignal = "WEAK_SELLING"
	VolumeNeutral       VolumeSignal = "NEUTRAL"
)

// Overall position status produced by the evaluator's priority ladder
const (
	StatusCritical    = "CRITICAL"
	StatusWarning     = "WARNING"
	StatusSuccess     = "SUCCESS"
	StatusOpportunity = "OPPORTUNITY"
	StatusGood        = "GOOD"
	StatusOK          = "OK"
)

// Overall recommended action
const (
	ActionExit        = "EXIT"
	ActionExitEarly   = "EXIT_EARLY"
	ActionWatch       = "WATCH"
	ActionBookProfits = "BOOK_PROFITS"
	ActionHoldExtend  = "HOLD_EXTEND"
	ActionTrailSL     = "TRAIL_SL"
	ActionHold        = "HOLD"
)

// ScoreResult is the common shape every scorer produces: a bounded
// 0-100 score, ordered human-readable reasons, and a recommendation.
type ScoreResult struct {
	Score          int
	Reasons        []string
	Recommendation string
	Priority       Priority
}

// Alert is one structured recommendation record for the alert sink
type Alert struct {
	Priority Priority
	Type     string
	Message  string
	Action   string
}

// VolumeReport is the Volume Analyzer output
type VolumeReport struct {
	Signal      VolumeSignal
	Ratio       float64
	Description string
	Trend       string // INCREASING or DECREASING
}

// SRLevels holds clustered support/resistance levels around the
// current price. Strength reflects the touch count of the nearest
// levels: STRONG (3+), MODERATE (2), WEAK (1 or synthetic).
type SRLevels struct {
	SupportLevels        []float64
	ResistanceLevels     []float64
	NearestSupport       float64
	NearestResistance    float64
	DistanceToSupport    float64 // percent below current price
	DistanceToResistance float64 // percent above current price
	Strength             string
}

// MomentumResult is the bullishness score with its trend label and
// per-signal contributions.
type MomentumResult struct {
	Score      int
	Trend      string
	Components map[string]float64
}

// SLRiskResult extends ScoreResult with stop-distance details
type SLRiskResult struct {
	ScoreResult
	DistanceToStopPct float64
	IsApproaching     bool
}

// UpsideResult extends ScoreResult with the recomputed target
type UpsideResult struct {
	ScoreResult
	NewTarget float64
	Action    string
}

// DynamicLevels holds the ATR-scaled target ladder and trailing-stop
// candidate. ShouldTrail is true only when TrailStop is strictly more
// favorable than the position's existing stop.
type DynamicLevels struct {
	Target1     float64
	Target2     float64
	Target3     float64
	TrailStop   float64
	ShouldTrail bool
	ATR         float64
	Support     float64
	Resistance  float64
}

// TimeframeVote is one timeframe's bullish/bearish classification
type TimeframeVote struct {
	Label          string
	Classification string // BULLISH, BEARISH, or NEUTRAL
	BullPoints     int
	BearPoints     int
	Strength       string // STRONG or MODERATE
}

// AlignmentResult reports the fraction of timeframes agreeing with the
// position's favorable direction.
type AlignmentResult struct {
	Score          int
	Votes          []TimeframeVote
	Recommendation string
}

// Config carries the caller-supplied evaluation settings
type Config struct {
	TrailTrigger           float64 // profit percent that arms trailing
	SLAlertThreshold       int     // 0-100 risk score alert threshold
	SLApproachThresholdPct float64 // stop distance percent considered "approaching"
	EnableMultiTimeframe   bool
}

// DefaultConfig mirrors the monitor's stock settings
func DefaultConfig() Config {
	return Config{
		TrailTrigger:           3.0,
		SLAlertThreshold:       50,
		SLApproachThresholdPct: 2.0,
		EnableMultiTimeframe:   false,
	}
}

// EvaluationResult aggregates everything the pipeline derives for one
// position. It is the sole externally consumed output of the core.
type EvaluationResult struct {
	Position     types.PositionSpec
	CurrentPrice float64
	PnLPercent   float64
	PnLAmount    float64

	RSI        float64
	MACDHist   float64
	MACDSignal string // BULLISH or BEARISH

	Momentum  MomentumResult
	Volume    VolumeReport
	Levels    SRLevels
	SLRisk    SLRiskResult
	Upside    *UpsideResult // nil unless target1 hit with stop intact
	Dynamic   DynamicLevels
	Alignment *AlignmentResult // nil unless multi-timeframe enabled

	Target1Hit bool
	Target2Hit bool
	StopHit    bool

	Alerts        []Alert
	OverallStatus string
	OverallAction string
}
