package types

import "time"

type TradeAction string

const (
	TradeActionNone TradeAction = "none"
	TradeActionBuy  TradeAction = "buy"
	TradeActionSell TradeAction = "sell"
)

// Trade is a fill at a bar's closing price. There are no fees or slippage.
type Trade struct {
	Time   time.Time
	Action TradeAction
	Price  float64
	Shares float64
	// Value is the cash exchanged: spent on a buy, received on a sell.
	Value float64
	// CashAfter is the cash balance once the fill settles.
	CashAfter float64
}
