package simulator

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// ledger is the cash/share holding carried from one bar to the next. Steps return a new
// value; a ledger is never modified in place.
type ledger struct {
	cash   float64
	shares float64
}

// state values the ledger at price.
func (l ledger) state(bar types.PricePoint) types.PortfolioState {
	holdings := l.shares * bar.Price

	return types.PortfolioState{
		Time:          bar.Time,
		Cash:          l.cash,
		Shares:        l.shares,
		HoldingsValue: holdings,
		TotalValue:    l.cash + holdings,
		State:         l.position(),
	}
}

func (l ledger) position() types.PositionState {
	switch {
	case l.shares == 0:
		return types.PositionStateFlat
	case l.cash == 0:
		return types.PositionStateFull
	default:
		return types.PositionStatePartial
	}
}

// step applies signal at the bar's close. Only position-change bars trade; a Buy while fully
// invested and a Sell while flat are no-ops.
func (l ledger) step(bar types.PricePoint, signal types.Signal, sizing Sizing) (ledger, types.TradeAction, *types.Trade) {
	if !signal.PositionChange {
		return l, types.TradeActionNone, nil
	}

	switch signal.Type {
	case types.SignalTypeBuy:
		if l.cash == 0 {
			return l, types.TradeActionNone, nil
		}

		spend := sizing.Allocate(l.cash)
		if spend <= 0 {
			return l, types.TradeActionNone, nil
		}

		shares := spend / bar.Price
		next := ledger{cash: l.cash - spend, shares: l.shares + shares}

		if spend == l.cash {
			next.cash = 0
		}

		return next, types.TradeActionBuy, &types.Trade{
			Time:      bar.Time,
			Action:    types.TradeActionBuy,
			Price:     bar.Price,
			Shares:    shares,
			Value:     spend,
			CashAfter: next.cash,
		}
	case types.SignalTypeSell:
		if l.shares == 0 {
			return l, types.TradeActionNone, nil
		}

		proceeds := l.shares * bar.Price
		next := ledger{cash: l.cash + proceeds, shares: 0}

		return next, types.TradeActionSell, &types.Trade{
			Time:      bar.Time,
			Action:    types.TradeActionSell,
			Price:     bar.Price,
			Shares:    l.shares,
			Value:     proceeds,
			CashAfter: next.cash,
		}
	default:
		return l, types.TradeActionNone, nil
	}
}
