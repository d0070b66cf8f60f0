// Package simulator replays crossover signals against a single-asset cash/share ledger.
//
// Trades fill at the closing price of the bar that produced the signal. There is no
// next-bar delay, no slippage and no commission.
package simulator

import (
	"math"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Config holds the explicit parameters of one replay.
type Config struct {
	// InitialInvestment is the starting cash, which must be positive.
	InitialInvestment float64
	Sizing            Sizing
}

func (c Config) validate() error {
	if math.IsNaN(c.InitialInvestment) || math.IsInf(c.InitialInvestment, 0) || c.InitialInvestment <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "initial investment must be positive, got %v", c.InitialInvestment)
	}

	if c.Sizing == nil {
		return errors.New(errors.ErrCodeInvalidParameter, "sizing policy is required")
	}

	return nil
}

// Simulate folds signals over prices and returns the trajectory, trade log and summary.
// It is a pure function of its inputs: nothing is retained between calls and no partial
// result is returned on failure.
func Simulate(prices types.PriceSeries, fast, slow types.IndicatorSeries, signals []types.Signal, cfg Config) (*types.SimulationResult, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	if prices.Len() < 2 {
		return nil, errors.Newf(errors.ErrCodeEmptySeries,
			"at least 2 price points are required to compute a return, got %d", prices.Len())
	}

	if err := checkPrices(prices); err != nil {
		return nil, err
	}

	if err := checkAligned(prices, fast, slow, signals); err != nil {
		return nil, err
	}

	points := prices.Points()
	trajectory := make([]types.BarRecord, 0, len(points))
	trades := make([]types.Trade, 0)
	book := ledger{cash: cfg.InitialInvestment}

	for i, bar := range points {
		next, action, trade := book.step(bar, signals[i], cfg.Sizing)
		if trade != nil {
			trades = append(trades, *trade)
		}

		record := types.BarRecord{
			Index:           i,
			Time:            bar.Time,
			Price:           bar.Price,
			Fast:            fast.Values[i],
			Slow:            slow.Values[i],
			Signal:          signals[i].Type,
			PositionChange:  signals[i].PositionChange,
			Action:          action,
			Portfolio:       next.state(bar),
			DailyReturn:     optional.None[float64](),
			StrategyReturn:  optional.None[float64](),
			PortfolioReturn: optional.None[float64](),
		}

		if i > 0 {
			prev := trajectory[i-1]
			daily := bar.Price/prev.Price - 1
			record.DailyReturn = optional.Some(daily)
			record.StrategyReturn = optional.Some(prev.Signal.Direction() * daily)
			record.PortfolioReturn = optional.Some((record.Portfolio.TotalValue/prev.Portfolio.TotalValue - 1) * 100)
		}

		trajectory = append(trajectory, record)
		book = next
	}

	return &types.SimulationResult{
		Trajectory: trajectory,
		Trades:     trades,
		Summary:    Summarize(prices.Symbol, trajectory, len(trades), cfg.InitialInvestment),
	}, nil
}

// checkPrices rejects prices that would poison a return. Zero is a division fault; negative,
// NaN and infinite prices are data-quality faults.
func checkPrices(prices types.PriceSeries) error {
	for i := 0; i < prices.Len(); i++ {
		price := prices.At(i).Price

		switch {
		case price == 0:
			return errors.Newf(errors.ErrCodeDivisionByZero, "price at index %d is zero", i)
		case math.IsNaN(price) || math.IsInf(price, 0) || price < 0:
			return errors.Newf(errors.ErrCodeInvalidParameter, "price at index %d is invalid: %v", i, price)
		}
	}

	return nil
}

func checkAligned(prices types.PriceSeries, fast, slow types.IndicatorSeries, signals []types.Signal) error {
	times := prices.Times()

	if err := fast.CheckAligned(times); err != nil {
		return err
	}

	if err := slow.CheckAligned(times); err != nil {
		return err
	}

	if len(signals) != len(times) {
		return errors.Newf(errors.ErrCodeMisalignedSeries,
			"got %d signals for %d price points", len(signals), len(times))
	}

	for i, signal := range signals {
		if !signal.Time.Equal(times[i]) {
			return errors.Newf(errors.ErrCodeMisalignedSeries, "signal timestamp at index %d does not match the price series", i)
		}
	}

	return nil
}
