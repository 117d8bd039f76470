package types

// Side is the direction of a position.
type Side string

const (
	SideLong  Side = "LONG"
	SideShort Side = "SHORT"
)

// PositionSpec describes one monitored position as loaded from the
// portfolio source. Target1/Target2 must sit on the profit side of the
// entry (above for LONG, below for SHORT); the scoring core does not
// validate this, it is a precondition on the loader.
type PositionSpec struct {
	Ticker     string
	Side       Side
	EntryPrice float64
	Quantity   int
	StopLoss   float64
	Target1    float64
	Target2    float64
}

// PnLPercent returns the unrealized profit percentage at the given price.
func (p PositionSpec) PnLPercent(currentPrice float64) float64 {
	if p.EntryPrice == 0 {
		return 0
	}
	if p.Side == SideShort {
		return (p.EntryPrice - currentPrice) / p.EntryPrice * 100
	}
	return (currentPrice - p.EntryPrice) / p.EntryPrice * 100
}

// PnLAmount returns the unrealized profit in currency units.
func (p PositionSpec) PnLAmount(currentPrice float64) float64 {
	qty := float64(p.Quantity)
	if p.Side == SideShort {
		return (p.EntryPrice - currentPrice) * qty
	}
	return (currentPrice - p.EntryPrice) * qty
}
