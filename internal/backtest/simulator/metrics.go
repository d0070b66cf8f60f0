package simulator

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// Summarize derives the performance summary from a finished trajectory.
// Engine-level fields (run id, strategy, engine version) are left for the caller.
func Summarize(symbol string, trajectory []types.BarRecord, numberOfTrades int, initialInvestment float64) types.PerformanceSummary {
	summary := types.PerformanceSummary{
		Symbol:            symbol,
		Bars:              len(trajectory),
		InitialInvestment: initialInvestment,
		NumberOfTrades:    numberOfTrades,
	}

	if len(trajectory) == 0 {
		return summary
	}

	first := trajectory[0]
	last := trajectory[len(trajectory)-1]

	summary.StartTime = first.Time
	summary.EndTime = last.Time
	summary.FinalValue = last.Portfolio.TotalValue
	summary.TotalReturnPct = (summary.FinalValue/initialInvestment - 1) * 100
	summary.WinningBars, summary.ActiveBars, summary.WinRatio = WinRatio(trajectory)
	summary.BuyAndHoldValue = BuyAndHold(first.Price, last.Price, initialInvestment)
	summary.Outperformed = summary.FinalValue > summary.BuyAndHoldValue
	summary.MaxDrawdown = MaxDrawdown(trajectory)

	return summary
}

// WinRatio counts bars whose prior signal held a position (a Buy) and, among them, those with a
// positive strategy return. The ratio is a percentage and is 0 when no bar was active.
func WinRatio(trajectory []types.BarRecord) (wins int, active int, ratio float64) {
	for i := 1; i < len(trajectory); i++ {
		if trajectory[i-1].Signal.Direction() == 0 {
			continue
		}

		active++

		if r := trajectory[i].StrategyReturn; r.IsSome() && r.Unwrap() > 0 {
			wins++
		}
	}

	if active == 0 {
		return 0, 0, 0
	}

	return wins, active, float64(wins) / float64(active) * 100
}

// BuyAndHold values the initial investment held from the first price to the last.
func BuyAndHold(initialPrice, finalPrice, initialInvestment float64) float64 {
	return finalPrice / initialPrice * initialInvestment
}

// MaxDrawdown is the largest fall from a running peak of total value, as a fraction of that peak.
func MaxDrawdown(trajectory []types.BarRecord) float64 {
	peak := 0.0
	worst := 0.0

	for _, record := range trajectory {
		value := record.Portfolio.TotalValue
		if value > peak {
			peak = value
		}

		if peak > 0 {
			if drawdown := (peak - value) / peak; drawdown > worst {
				worst = drawdown
			}
		}
	}

	return worst
}
