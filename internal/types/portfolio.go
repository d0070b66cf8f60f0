package types

import (
	"time"

	"github.com/moznion/go-optional"
)

type PositionState string

const (
	// PositionStateFlat holds no shares.
	PositionStateFlat PositionState = "flat_cash"
	// PositionStatePartial holds shares and some cash (fractional sizing only).
	PositionStatePartial PositionState = "partially_invested"
	// PositionStateFull holds shares and no cash.
	PositionStateFull PositionState = "fully_invested"
)

// PortfolioState is the single-asset ledger at the close of one bar.
// TotalValue == Cash + HoldingsValue and HoldingsValue == Shares * price, exactly.
type PortfolioState struct {
	Time          time.Time
	Cash          float64
	Shares        float64
	HoldingsValue float64
	TotalValue    float64
	State         PositionState
}

// BarRecord is one row of the simulation trajectory.
type BarRecord struct {
	Index          int
	Time           time.Time
	Price          float64
	Fast           optional.Option[float64]
	Slow           optional.Option[float64]
	Signal         SignalType
	PositionChange bool
	// Action is the trade executed at this bar's close, if any.
	Action    TradeAction
	Portfolio PortfolioState
	// DailyReturn is price[i]/price[i-1]-1; None on the first bar.
	DailyReturn optional.Option[float64]
	// StrategyReturn is the previous bar's signal direction times DailyReturn.
	StrategyReturn optional.Option[float64]
	// PortfolioReturn is the percentage change of TotalValue from the previous bar.
	PortfolioReturn optional.Option[float64]
}

// SimulationResult is everything one replay produces.
type SimulationResult struct {
	Trajectory []BarRecord
	Trades     []Trade
	Summary    PerformanceSummary
}
