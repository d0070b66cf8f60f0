package simulator

import (
	"math"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

const epsilon = 1e-9

type SimulateTestSuite struct {
	suite.Suite
	start time.Time
}

func TestSimulateSuite(t *testing.T) {
	suite.Run(t, new(SimulateTestSuite))
}

func (suite *SimulateTestSuite) SetupTest() {
	suite.start = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
}

type fixture struct {
	prices  types.PriceSeries
	fast    types.IndicatorSeries
	slow    types.IndicatorSeries
	signals []types.Signal
}

func (suite *SimulateTestSuite) priceSeries(prices ...float64) types.PriceSeries {
	points := make([]types.PricePoint, len(prices))
	for i, p := range prices {
		points[i] = types.PricePoint{Time: suite.start.AddDate(0, 0, i), Price: p}
	}

	series, err := types.NewPriceSeries("TEST", points)
	suite.Require().NoError(err)

	return series
}

// pipeline computes fast and slow SMAs and the crossover signals over prices.
func (suite *SimulateTestSuite) pipeline(prices []float64, fastWindow, slowWindow, lookback int) fixture {
	return suite.pipelineWith(prices, averageSpec{types.IndicatorTypeSMA, fastWindow}, averageSpec{types.IndicatorTypeSMA, slowWindow}, lookback)
}

type averageSpec struct {
	kind   types.IndicatorType
	period int
}

func (suite *SimulateTestSuite) pipelineWith(prices []float64, fastSpec, slowSpec averageSpec, lookback int) fixture {
	series := suite.priceSeries(prices...)
	registry := indicator.NewDefaultIndicatorRegistry()

	fast, err := registry.NewIndicator(fastSpec.kind, fastSpec.period)
	suite.Require().NoError(err)
	slow, err := registry.NewIndicator(slowSpec.kind, slowSpec.period)
	suite.Require().NoError(err)

	out, err := indicator.ComputeAll(series, fast, slow)
	suite.Require().NoError(err)

	crossover, err := strategy.NewCrossoverStrategy(lookback)
	suite.Require().NoError(err)

	signals, err := crossover.GenerateSignals(out[0], out[1])
	suite.Require().NoError(err)

	return fixture{prices: series, fast: out[0], slow: out[1], signals: signals}
}

func (suite *SimulateTestSuite) allIn(initial float64) Config {
	return Config{InitialInvestment: initial, Sizing: NewAllInSizing()}
}

func (suite *SimulateTestSuite) assertLedgerInvariant(result *types.SimulationResult) {
	for _, record := range result.Trajectory {
		p := record.Portfolio
		suite.GreaterOrEqual(p.Cash, 0.0, "bar %d", record.Index)
		suite.GreaterOrEqual(p.Shares, 0.0, "bar %d", record.Index)
		suite.InDelta(p.Shares*record.Price, p.HoldingsValue, epsilon, "bar %d", record.Index)
		suite.InDelta(p.Cash+p.Shares*record.Price, p.TotalValue, epsilon, "bar %d", record.Index)
		suite.Equal(p.Cash+p.HoldingsValue, p.TotalValue, "bar %d", record.Index)
	}
}

func (suite *SimulateTestSuite) TestExactScenario() {
	f := suite.pipeline([]float64{100, 101, 99, 105, 110}, 2, 3, 1)

	result, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(1000))
	suite.Require().NoError(err)
	suite.Require().Len(result.Trajectory, 5)

	t := result.Trajectory
	shares := 1000.0 / 105

	suite.Equal([]optional.Option[float64]{
		optional.None[float64](), optional.Some(100.5), optional.Some(100.0), optional.Some(102.0), optional.Some(107.5),
	}, []optional.Option[float64]{t[0].Fast, t[1].Fast, t[2].Fast, t[3].Fast, t[4].Fast})
	suite.True(t[0].Slow.IsNone())
	suite.True(t[1].Slow.IsNone())
	suite.Equal(100.0, t[2].Slow.Unwrap())
	suite.InDelta(101.6666666667, t[3].Slow.Unwrap(), epsilon)
	suite.InDelta(104.6666666667, t[4].Slow.Unwrap(), epsilon)

	suite.Equal(
		[]types.SignalType{types.SignalTypeHold, types.SignalTypeHold, types.SignalTypeSell, types.SignalTypeBuy, types.SignalTypeBuy},
		[]types.SignalType{t[0].Signal, t[1].Signal, t[2].Signal, t[3].Signal, t[4].Signal},
	)
	// the tie at index 2 flips Hold to Sell, which is a no-op while flat
	suite.Equal(
		[]types.TradeAction{types.TradeActionNone, types.TradeActionNone, types.TradeActionNone, types.TradeActionBuy, types.TradeActionNone},
		[]types.TradeAction{t[0].Action, t[1].Action, t[2].Action, t[3].Action, t[4].Action},
	)

	for i := 0; i < 3; i++ {
		suite.Equal(1000.0, t[i].Portfolio.Cash)
		suite.Equal(0.0, t[i].Portfolio.Shares)
		suite.Equal(1000.0, t[i].Portfolio.TotalValue)
		suite.Equal(types.PositionStateFlat, t[i].Portfolio.State)
	}

	suite.Equal(0.0, t[3].Portfolio.Cash)
	suite.Equal(shares, t[3].Portfolio.Shares)
	suite.InDelta(1000.0, t[3].Portfolio.TotalValue, epsilon)
	suite.Equal(types.PositionStateFull, t[3].Portfolio.State)
	suite.Equal(shares*110, t[4].Portfolio.TotalValue)
	suite.InDelta(1047.6190476190, t[4].Portfolio.TotalValue, 1e-6)

	suite.True(t[0].DailyReturn.IsNone())
	suite.True(t[0].StrategyReturn.IsNone())
	suite.InDelta(0.01, t[1].DailyReturn.Unwrap(), epsilon)
	suite.InDelta(99.0/101-1, t[2].DailyReturn.Unwrap(), epsilon)
	suite.InDelta(105.0/99-1, t[3].DailyReturn.Unwrap(), epsilon)
	suite.InDelta(110.0/105-1, t[4].DailyReturn.Unwrap(), epsilon)

	// returns are attributed to the previous bar's signal
	suite.InDelta(0, t[1].StrategyReturn.Unwrap(), epsilon)
	suite.InDelta(0, t[2].StrategyReturn.Unwrap(), epsilon)
	// a Sell is out of the market, never short
	suite.InDelta(0, t[3].StrategyReturn.Unwrap(), epsilon)
	suite.InDelta(110.0/105-1, t[4].StrategyReturn.Unwrap(), epsilon)
	suite.InDelta((110.0/105-1)*100, t[4].PortfolioReturn.Unwrap(), 1e-6)

	suite.Require().Len(result.Trades, 1)
	suite.Equal(types.Trade{
		Time:      suite.start.AddDate(0, 0, 3),
		Action:    types.TradeActionBuy,
		Price:     105,
		Shares:    shares,
		Value:     1000,
		CashAfter: 0,
	}, result.Trades[0])

	summary := result.Summary
	suite.Equal("TEST", summary.Symbol)
	suite.Equal(5, summary.Bars)
	suite.Equal(suite.start, summary.StartTime)
	suite.Equal(suite.start.AddDate(0, 0, 4), summary.EndTime)
	suite.Equal(1000.0, summary.InitialInvestment)
	suite.InDelta(1047.6190476190, summary.FinalValue, 1e-6)
	suite.InDelta(4.7619047619, summary.TotalReturnPct, 1e-6)
	suite.Equal(1, summary.ActiveBars)
	suite.Equal(1, summary.WinningBars)
	suite.Equal(100.0, summary.WinRatio)
	suite.InDelta(1100.0, summary.BuyAndHoldValue, epsilon)
	suite.False(summary.Outperformed)
	suite.Equal(1, summary.NumberOfTrades)
	suite.InDelta(0, summary.MaxDrawdown, epsilon)

	suite.assertLedgerInvariant(result)
}

func (suite *SimulateTestSuite) TestIdempotent() {
	prices := []float64{50, 52, 51, 49, 47, 48, 53, 55, 54, 58, 57, 52, 50, 51, 56}
	f := suite.pipeline(prices, 2, 5, 1)

	first, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(2500))
	suite.Require().NoError(err)
	second, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(2500))
	suite.Require().NoError(err)

	suite.Equal(first, second)
	suite.assertLedgerInvariant(first)
}

func (suite *SimulateTestSuite) TestMonotonicRiseNeverSells() {
	prices := make([]float64, 40)
	for i := range prices {
		prices[i] = 100 * math.Pow(1.01, float64(i))
	}

	sma := func(period int) averageSpec { return averageSpec{types.IndicatorTypeSMA, period} }
	ema := func(period int) averageSpec { return averageSpec{types.IndicatorTypeEMA, period} }

	tests := []struct {
		name       string
		fast, slow averageSpec
		lookback   int
	}{
		{"sma 2 x sma 3", sma(2), sma(3), 1},
		{"sma 3 x sma 10", sma(3), sma(10), 1},
		{"sma 5 x sma 20", sma(5), sma(20), 1},
		{"sma 1 x sma 40", sma(1), sma(40), 1},
		// both EMAs start at prices[0], so bar 0 is a tie resolving to Sell
		{"ema 3 x ema 8", ema(3), ema(8), 1},
		{"ema 12 x ema 26", ema(12), ema(26), 1},
		{"ema 3 x ema 8 confirmed", ema(3), ema(8), 3},
		{"ema 3 x sma 10", ema(3), sma(10), 1},
		{"sma 5 x ema 20", sma(5), ema(20), 1},
		{"slow above fast", ema(8), ema(3), 1},
	}

	for _, tt := range tests {
		f := suite.pipelineWith(prices, tt.fast, tt.slow, tt.lookback)

		result, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(1000))
		suite.Require().NoError(err, tt.name)

		invested := false

		for _, record := range result.Trajectory {
			suite.NotEqual(types.TradeActionSell, record.Action, tt.name)

			if record.Action == types.TradeActionBuy {
				invested = true
			}

			if invested {
				suite.Equal(types.PositionStateFull, record.Portfolio.State, tt.name)
			}
		}

		if result.Summary.ActiveBars > 0 {
			suite.Equal(100.0, result.Summary.WinRatio, tt.name)
		} else {
			suite.Equal(0.0, result.Summary.WinRatio, tt.name)
		}

		suite.assertLedgerInvariant(result)
	}
}

func (suite *SimulateTestSuite) TestEMATieAtFirstBarIsNotScored() {
	prices := make([]float64, 20)
	for i := range prices {
		prices[i] = 100 * math.Pow(1.01, float64(i))
	}

	f := suite.pipelineWith(prices, averageSpec{types.IndicatorTypeEMA, 3}, averageSpec{types.IndicatorTypeEMA, 8}, 1)
	suite.Equal(types.SignalTypeSell, f.signals[0].Type)

	result, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(1000))
	suite.Require().NoError(err)

	suite.InDelta(0, result.Trajectory[1].StrategyReturn.Unwrap(), epsilon)
	suite.Equal(18, result.Summary.ActiveBars)
	suite.Equal(18, result.Summary.WinningBars)
	suite.Equal(100.0, result.Summary.WinRatio)
}

func (suite *SimulateTestSuite) TestMonotonicRiseWithoutActiveBars() {
	// the slow average is only defined on the final bar, so no return follows a decision
	f := suite.pipeline([]float64{1, 2, 3, 4}, 2, 4, 1)

	result, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(1000))
	suite.Require().NoError(err)
	suite.Equal(0, result.Summary.ActiveBars)
	suite.Equal(0.0, result.Summary.WinRatio)
	suite.False(math.IsNaN(result.Summary.WinRatio))
}

func (suite *SimulateTestSuite) TestFlatSeries() {
	prices := []float64{42, 42, 42, 42, 42, 42, 42, 42}

	for lookback := 1; lookback <= 3; lookback++ {
		f := suite.pipeline(prices, 2, 4, lookback)

		result, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(1000))
		suite.Require().NoError(err)

		suite.Equal(0.0, result.Summary.WinRatio)
		suite.Equal(1000.0, result.Summary.BuyAndHoldValue)
		suite.Equal(1000.0, result.Summary.FinalValue)
		suite.False(result.Summary.Outperformed)
		suite.Empty(result.Trades)
	}
}

func (suite *SimulateTestSuite) TestFractionalScaleIn() {
	series := suite.priceSeries(10, 10, 10, 10, 20, 20)
	times := series.Times()
	build := func(values ...float64) types.IndicatorSeries {
		opts := make([]optional.Option[float64], len(values))
		for i, v := range values {
			opts[i] = optional.Some(v)
		}

		return types.IndicatorSeries{Name: "test", Times: times, Values: opts}
	}

	// bullish, bullish, bearish, bullish, bullish, bullish with a two bar confirmation
	fast := build(2, 2, 1, 2, 2, 2)
	slow := build(1, 1, 2, 1, 1, 1)

	crossover, err := strategy.NewCrossoverStrategy(2)
	suite.Require().NoError(err)
	signals, err := crossover.GenerateSignals(fast, slow)
	suite.Require().NoError(err)

	sizing, err := NewFractionalSizing(50)
	suite.Require().NoError(err)

	result, err := Simulate(series, fast, slow, signals, Config{InitialInvestment: 1000, Sizing: sizing})
	suite.Require().NoError(err)

	suite.Require().Len(result.Trades, 2)
	suite.Equal(50.0, result.Trades[0].Shares)
	suite.Equal(12.5, result.Trades[1].Shares)

	last := result.Trajectory[5].Portfolio
	suite.Equal(250.0, last.Cash)
	suite.Equal(62.5, last.Shares)
	suite.Equal(1500.0, last.TotalValue)
	suite.Equal(types.PositionStatePartial, last.State)
	suite.Equal(types.PositionStatePartial, result.Trajectory[1].Portfolio.State)
	suite.assertLedgerInvariant(result)
}

func (suite *SimulateTestSuite) TestSellLiquidatesAndDrawdown() {
	f := suite.pipeline([]float64{10, 11, 12, 13, 9, 8, 7, 9, 12, 14}, 1, 3, 1)

	result, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(1000))
	suite.Require().NoError(err)

	sawSell := false

	for _, record := range result.Trajectory {
		if record.Action == types.TradeActionSell {
			sawSell = true

			suite.Equal(0.0, record.Portfolio.Shares)
			suite.Equal(types.PositionStateFlat, record.Portfolio.State)
		}
	}

	suite.True(sawSell)
	suite.Greater(result.Summary.MaxDrawdown, 0.0)
	suite.Equal(len(result.Trades), result.Summary.NumberOfTrades)
	suite.assertLedgerInvariant(result)
}

func (suite *SimulateTestSuite) TestBoundaryLengths() {
	single := suite.priceSeries(100)
	_, err := Simulate(single, types.IndicatorSeries{}, types.IndicatorSeries{}, nil, suite.allIn(1000))
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))

	f := suite.pipeline([]float64{10, 12}, 1, 2, 1)
	result, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(1000))
	suite.Require().NoError(err)

	defined := 0

	for _, record := range result.Trajectory {
		if record.DailyReturn.IsSome() {
			defined++
		}
	}

	suite.Equal(1, defined)
	suite.InDelta(0.2, result.Trajectory[1].DailyReturn.Unwrap(), epsilon)
}

func (suite *SimulateTestSuite) TestRejectsBadPrices() {
	tests := []struct {
		name   string
		prices []float64
		code   errors.ErrorCode
	}{
		{"zero price", []float64{10, 0, 12}, errors.ErrCodeDivisionByZero},
		{"negative price", []float64{10, -1, 12}, errors.ErrCodeInvalidParameter},
		{"nan price", []float64{10, math.NaN(), 12}, errors.ErrCodeInvalidParameter},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			f := suite.pipeline(tc.prices, 1, 2, 1)

			result, err := Simulate(f.prices, f.fast, f.slow, f.signals, suite.allIn(1000))
			suite.Nil(result)
			suite.True(errors.HasCode(err, tc.code), "got %v", err)
		})
	}
}

func (suite *SimulateTestSuite) TestRejectsMisalignedInputs() {
	f := suite.pipeline([]float64{10, 11, 12, 13}, 1, 2, 1)
	other := suite.pipeline([]float64{10, 11, 12}, 1, 2, 1)

	_, err := Simulate(f.prices, other.fast, f.slow, f.signals, suite.allIn(1000))
	suite.True(errors.HasCode(err, errors.ErrCodeMisalignedSeries))

	_, err = Simulate(f.prices, f.fast, other.slow, f.signals, suite.allIn(1000))
	suite.True(errors.HasCode(err, errors.ErrCodeMisalignedSeries))

	_, err = Simulate(f.prices, f.fast, f.slow, other.signals, suite.allIn(1000))
	suite.True(errors.HasCode(err, errors.ErrCodeMisalignedSeries))

	shifted := make([]types.Signal, len(f.signals))
	copy(shifted, f.signals)
	shifted[1].Time = shifted[1].Time.Add(time.Hour)
	_, err = Simulate(f.prices, f.fast, f.slow, shifted, suite.allIn(1000))
	suite.True(errors.HasCode(err, errors.ErrCodeMisalignedSeries))
}

func (suite *SimulateTestSuite) TestRejectsInvalidConfig() {
	f := suite.pipeline([]float64{10, 11, 12}, 1, 2, 1)

	_, err := Simulate(f.prices, f.fast, f.slow, f.signals, Config{InitialInvestment: 0, Sizing: NewAllInSizing()})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))

	_, err = Simulate(f.prices, f.fast, f.slow, f.signals, Config{InitialInvestment: 100})
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}
