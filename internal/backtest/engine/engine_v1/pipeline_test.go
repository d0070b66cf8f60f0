package engine

import (
	"fmt"
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/internal/backtest/simulator"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/mocks"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type PipelineTestSuite struct {
	suite.Suite
	series    types.PriceSeries
	simConfig simulator.Config
}

func TestPipelineSuite(t *testing.T) {
	suite.Run(t, new(PipelineTestSuite))
}

func (suite *PipelineTestSuite) SetupTest() {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	prices := []float64{100, 102, 101, 105, 110}
	points := make([]types.PricePoint, len(prices))

	for i, p := range prices {
		points[i] = types.PricePoint{Time: start.AddDate(0, 0, i), Price: p}
	}

	series, err := types.NewPriceSeries("TEST", points)
	suite.Require().NoError(err)

	suite.series = series
	suite.simConfig = simulator.Config{InitialInvestment: 1000, Sizing: simulator.NewAllInSizing()}
}

func (suite *PipelineTestSuite) config(fast, slow, lookback int) CrossoverConfig {
	return CrossoverConfig{
		Fast:     IndicatorConfig{Type: types.IndicatorTypeSMA, Period: fast},
		Slow:     IndicatorConfig{Type: types.IndicatorTypeSMA, Period: slow},
		Lookback: lookback,
	}
}

func (suite *PipelineTestSuite) TestRunPipeline() {
	result, err := RunPipeline(suite.series, indicator.NewDefaultIndicatorRegistry(), suite.config(2, 3, 1), suite.simConfig)
	suite.Require().NoError(err)

	suite.Len(result.Trajectory, 5)
	suite.Len(result.Trades, 1)
	suite.Equal(types.TradeActionBuy, result.Trades[0].Action)
	suite.Equal(105.0, result.Trades[0].Price)

	suite.Equal("TEST", result.Summary.Symbol)
	suite.Equal("crossover sma(2)_x_sma(3)", result.Summary.Strategy)
	suite.InDelta(1000.0/105*110, result.Summary.FinalValue, 1e-9)
	suite.InDelta(1100.0, result.Summary.BuyAndHoldValue, 1e-9)
	suite.False(result.Summary.Outperformed)
	suite.Equal(100.0, result.Summary.WinRatio)
}

func (suite *PipelineTestSuite) TestRunPipelineWithLookback() {
	result, err := RunPipeline(suite.series, indicator.NewDefaultIndicatorRegistry(), suite.config(2, 3, 2), suite.simConfig)
	suite.Require().NoError(err)

	suite.Equal("crossover_confirm2 sma(2)_x_sma(3)_k2", result.Summary.Strategy)
	suite.Equal(types.SignalTypeBuy, result.Trajectory[4].Signal)
	suite.Len(result.Trades, 1)
	suite.Equal(110.0, result.Trades[0].Price)
}

func (suite *PipelineTestSuite) TestWindowLongerThanSeries() {
	_, err := RunPipeline(suite.series, indicator.NewDefaultIndicatorRegistry(), suite.config(2, 20, 1), suite.simConfig)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *PipelineTestSuite) TestRegistryFailure() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	registry := mocks.NewMockIndicatorRegistry(ctrl)
	registry.EXPECT().NewIndicator(types.IndicatorTypeSMA, 2).Return(nil, fmt.Errorf("boom"))

	_, err := RunPipeline(suite.series, registry, suite.config(2, 3, 1), suite.simConfig)
	suite.Error(err)
	suite.Contains(err.Error(), "fast indicator")
}

func (suite *PipelineTestSuite) TestIndicatorsComeFromRegistry() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	defaults := indicator.NewDefaultIndicatorRegistry()
	fast, err := defaults.NewIndicator(types.IndicatorTypeEMA, 2)
	suite.Require().NoError(err)
	slow, err := defaults.NewIndicator(types.IndicatorTypeSMA, 3)
	suite.Require().NoError(err)

	registry := mocks.NewMockIndicatorRegistry(ctrl)
	registry.EXPECT().NewIndicator(types.IndicatorTypeEMA, 2).Return(fast, nil)
	registry.EXPECT().NewIndicator(types.IndicatorTypeSMA, 3).Return(slow, nil)

	config := suite.config(2, 3, 1)
	config.Fast.Type = types.IndicatorTypeEMA

	result, err := RunPipeline(suite.series, registry, config, suite.simConfig)
	suite.Require().NoError(err)
	suite.Equal("crossover ema(2)_x_sma(3)", result.Summary.Strategy)
	suite.True(result.Trajectory[0].Fast.IsSome())
	suite.True(result.Trajectory[1].Slow.IsNone())
}

func (suite *PipelineTestSuite) TestIndicatorComputeFailure() {
	ctrl := gomock.NewController(suite.T())
	defer ctrl.Finish()

	computeErr := errors.New(errors.ErrCodeEmptySeries, "no prices to average")

	fast := mocks.NewMockIndicator(ctrl)
	fast.EXPECT().Compute(suite.series).Return(types.IndicatorSeries{}, computeErr)

	slow, err := indicator.NewDefaultIndicatorRegistry().NewIndicator(types.IndicatorTypeSMA, 3)
	suite.Require().NoError(err)

	registry := mocks.NewMockIndicatorRegistry(ctrl)
	registry.EXPECT().NewIndicator(types.IndicatorTypeSMA, 2).Return(fast, nil)
	registry.EXPECT().NewIndicator(types.IndicatorTypeSMA, 3).Return(slow, nil)

	result, err := RunPipeline(suite.series, registry, suite.config(2, 3, 1), suite.simConfig)
	suite.Nil(result)
	suite.ErrorIs(err, computeErr)
	suite.True(errors.HasCode(err, errors.ErrCodeEmptySeries))
}
