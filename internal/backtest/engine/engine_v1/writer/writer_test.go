package writer

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type WriterTestSuite struct {
	suite.Suite
	folder string
	result *types.SimulationResult
}

func TestWriterSuite(t *testing.T) {
	suite.Run(t, new(WriterTestSuite))
}

func (suite *WriterTestSuite) SetupTest() {
	suite.folder = filepath.Join(suite.T().TempDir(), "crossover", "sma(2)_x_sma(3)", "AAPL")
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	suite.result = &types.SimulationResult{
		Trajectory: []types.BarRecord{
			{
				Index:           0,
				Time:            start,
				Price:           100,
				Fast:            optional.None[float64](),
				Slow:            optional.None[float64](),
				Signal:          types.SignalTypeHold,
				Action:          types.TradeActionNone,
				Portfolio:       types.PortfolioState{Time: start, Cash: 1000, TotalValue: 1000, State: types.PositionStateFlat},
				DailyReturn:     optional.None[float64](),
				StrategyReturn:  optional.None[float64](),
				PortfolioReturn: optional.None[float64](),
			},
			{
				Index:          1,
				Time:           start.AddDate(0, 0, 1),
				Price:          125,
				Fast:           optional.Some(112.5),
				Slow:           optional.Some(110.0),
				Signal:         types.SignalTypeBuy,
				PositionChange: true,
				Action:         types.TradeActionBuy,
				Portfolio: types.PortfolioState{
					Time: start.AddDate(0, 0, 1), Cash: 0, Shares: 8, HoldingsValue: 1000, TotalValue: 1000,
					State: types.PositionStateFull,
				},
				DailyReturn:     optional.Some(0.25),
				StrategyReturn:  optional.Some(0.0),
				PortfolioReturn: optional.Some(0.0),
			},
		},
		Trades: []types.Trade{
			{Time: start.AddDate(0, 0, 1), Action: types.TradeActionBuy, Price: 125, Shares: 8, Value: 1000, CashAfter: 0},
		},
		Summary: types.PerformanceSummary{
			RunID:             "run-1",
			Symbol:            "AAPL",
			Strategy:          "crossover",
			Bars:              2,
			InitialInvestment: 1000,
			FinalValue:        1000,
			BuyAndHoldValue:   1250,
			NumberOfTrades:    1,
		},
	}
}

func (suite *WriterTestSuite) TestWriteAndReadBack() {
	w := NewResultWriter(suite.folder, 2)
	suite.Equal(suite.folder, w.Folder())
	suite.Require().NoError(w.Write(suite.result))

	for _, name := range []string{StatsFileName, TrajectoryFileName, TradesFileName} {
		_, err := os.Stat(filepath.Join(suite.folder, name))
		suite.NoError(err, name)
	}

	summary, err := ReadSummary(suite.folder)
	suite.Require().NoError(err)
	suite.Equal("run-1", summary.RunID)
	suite.Equal(1250.0, summary.BuyAndHoldValue)

	rows, err := ReadTrajectory(suite.folder)
	suite.Require().NoError(err)
	suite.Require().Len(rows, 2)
	suite.Equal("", rows[0].Fast)
	suite.Equal("", rows[0].DailyReturn)
	suite.Equal("100.00", rows[0].Price)
	suite.Equal("1000.00", rows[0].Cash)
	suite.Equal("flat_cash", rows[0].State)
	suite.Equal("112.50", rows[1].Fast)
	suite.Equal("buy", rows[1].Signal)
	suite.True(rows[1].PositionChange)
	suite.Equal("8", rows[1].Shares)
	suite.Equal("0.250000", rows[1].DailyReturn)
	suite.Equal("2024-01-03T00:00:00Z", rows[1].Time)

	trades, err := ReadTrades(suite.folder)
	suite.Require().NoError(err)
	suite.Equal([]TradeRow{{
		Time:      "2024-01-03T00:00:00Z",
		Action:    "buy",
		Price:     "125.00",
		Shares:    "8",
		Value:     "1000.00",
		CashAfter: "0.00",
	}}, trades)
}

func (suite *WriterTestSuite) TestEmptyTradeLog() {
	suite.result.Trades = nil

	w := NewResultWriter(suite.folder, 2)
	suite.Require().NoError(w.Write(suite.result))

	trades, err := ReadTrades(suite.folder)
	suite.NoError(err)
	suite.Empty(trades)
}

func (suite *WriterTestSuite) TestFindResultFolders() {
	root := suite.T().TempDir()
	first := filepath.Join(root, "crossover", "a", "AAPL")
	second := filepath.Join(root, "crossover", "b", "MSFT")

	suite.Require().NoError(NewResultWriter(first, 2).Write(suite.result))
	suite.Require().NoError(NewResultWriter(second, 2).Write(suite.result))

	folders, err := FindResultFolders(root)
	suite.NoError(err)
	suite.ElementsMatch([]string{first, second}, folders)
}

func (suite *WriterTestSuite) TestReadMissingFolder() {
	_, err := ReadTrajectory(filepath.Join(suite.T().TempDir(), "nope"))
	suite.True(errors.HasCode(err, errors.ErrCodeResultReadFailed))

	_, err = ReadSummary(filepath.Join(suite.T().TempDir(), "nope"))
	suite.True(errors.HasCode(err, errors.ErrCodeResultReadFailed))
}
