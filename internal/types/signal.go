package types

import "time"

type SignalType string

const (
	// SignalTypeBuy means the fast average is above the slow one.
	SignalTypeBuy SignalType = "buy"
	// SignalTypeSell means the fast average is at or below the slow one.
	SignalTypeSell SignalType = "sell"
	// SignalTypeHold means no decision: indicators undefined or ordering not yet confirmed.
	SignalTypeHold SignalType = "hold"
)

// Direction is the market exposure a signal asks for. Positions are long-only, so Buy is 1 and
// Sell, like Hold, is out of the market.
func (s SignalType) Direction() float64 {
	if s == SignalTypeBuy {
		return 1
	}

	return 0
}

type Signal struct {
	// Time is the bar the signal belongs to
	Time time.Time
	// Type is the signal value for the bar
	Type SignalType
	// PositionChange is true when Type differs from the previous bar's Type
	PositionChange bool
}
