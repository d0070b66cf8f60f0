package testhelper

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine"
	v1 "github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/writer"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	marketwriter "github.com/rxtech-lab/argo-crossover/pkg/marketdata/writer"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// E2ETestSuite is a base test suite for E2E tests
type E2ETestSuite struct {
	suite.Suite
	Backtest engine.Engine
}

// SetupTest initializes the backtest engine over an in-memory DuckDB data source
func (s *E2ETestSuite) SetupTest(engineConfig string) {
	l := logger.NewNopLogger()

	backtest := v1.NewBacktestEngineV1WithLogger(l)
	s.Require().NoError(backtest.Initialize(engineConfig))

	dataSource, err := datasource.NewDataSource(":memory:", l)
	s.Require().NoError(err)

	s.Require().NoError(backtest.SetDataSource(dataSource))

	s.Backtest = backtest
}

// WriteParquet writes bars to dir/name.parquet and returns the path
func WriteParquet(s *E2ETestSuite, dir string, name string, bars []types.MarketData) string {
	require.NoError(s.T(), os.MkdirAll(dir, 0755))

	path, err := marketwriter.WriteAll(marketwriter.NewDuckDBWriter(filepath.Join(dir, name+".parquet"), nil), bars)
	require.NoError(s.T(), err)

	return path
}

// RunCrossoverTest writes each strategy config to a config folder, runs the engine against dataPath
// and returns the results folder
func RunCrossoverTest(s *E2ETestSuite, strategyConfigs map[string]string, dataPath string) (resultPath string) {
	tmpFolder := s.T().TempDir()
	configDir := filepath.Join(tmpFolder, "config")
	resultPath = filepath.Join(tmpFolder, "results")

	require.NoError(s.T(), os.MkdirAll(configDir, 0755))

	for name, content := range strategyConfigs {
		err := os.WriteFile(filepath.Join(configDir, name+".yaml"), []byte(content), 0644)
		require.NoError(s.T(), err)
	}

	require.NoError(s.T(), s.Backtest.SetConfigPath(filepath.Join(configDir, "*.yaml")))
	require.NoError(s.T(), s.Backtest.SetDataPath(dataPath))
	require.NoError(s.T(), s.Backtest.SetResultsFolder(resultPath))

	require.NoError(s.T(), s.Backtest.Run(context.Background(), engine.LifecycleCallbacks{}))

	return resultPath
}

// Run holds everything written for one strategy config and data file
type Run struct {
	Folder     string
	Summary    types.PerformanceSummary
	Trajectory []writer.TrajectoryRow
	Trades     []writer.TradeRow
}

// ReadRuns reads every result folder under resultPath, sorted by folder
func ReadRuns(s *E2ETestSuite, resultPath string) []Run {
	folders, err := writer.FindResultFolders(resultPath)
	require.NoError(s.T(), err)

	sort.Strings(folders)

	runs := make([]Run, 0, len(folders))

	for _, folder := range folders {
		summary, err := writer.ReadSummary(folder)
		require.NoError(s.T(), err)

		trajectory, err := writer.ReadTrajectory(folder)
		require.NoError(s.T(), err)

		trades, err := writer.ReadTrades(folder)
		require.NoError(s.T(), err)

		runs = append(runs, Run{Folder: folder, Summary: summary, Trajectory: trajectory, Trades: trades})
	}

	return runs
}

// ParseFloat parses a decimal cell written by the result writer
func ParseFloat(s *E2ETestSuite, value string) float64 {
	f, err := strconv.ParseFloat(value, 64)
	require.NoError(s.T(), err)

	return f
}
