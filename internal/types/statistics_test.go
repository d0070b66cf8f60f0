package types

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"gopkg.in/yaml.v3"
)

type StatisticsTestSuite struct {
	suite.Suite
	tempDir string
}

func TestStatisticsSuite(t *testing.T) {
	suite.Run(t, new(StatisticsTestSuite))
}

func (suite *StatisticsTestSuite) SetupTest() {
	suite.tempDir = suite.T().TempDir()
}

func (suite *StatisticsTestSuite) TestWriteSummary() {
	summary := PerformanceSummary{
		RunID:             "run-1",
		Symbol:            "F",
		Strategy:          "sma(20)/sma(50)",
		StartTime:         time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
		EndTime:           time.Date(2023, 10, 12, 0, 0, 0, 0, time.UTC),
		Bars:              950,
		InitialInvestment: 5000,
		FinalValue:        5400,
		TotalReturnPct:    8,
		WinRatio:          52.5,
		WinningBars:       420,
		ActiveBars:        800,
		BuyAndHoldValue:   5200,
		Outperformed:      true,
		NumberOfTrades:    12,
		MaxDrawdown:       0.18,
	}

	path := filepath.Join(suite.tempDir, "stats.yaml")
	suite.Require().NoError(WriteSummary(path, summary))

	raw, err := os.ReadFile(path)
	suite.Require().NoError(err)

	var fields map[string]any
	suite.Require().NoError(yaml.Unmarshal(raw, &fields))
	suite.Equal("F", fields["symbol"])
	suite.Equal(52.5, fields["win_ratio"])
	suite.Equal(true, fields["outperformed"])

	loaded, err := ReadSummary(path)
	suite.Require().NoError(err)
	suite.Equal(summary, loaded)
}

func (suite *StatisticsTestSuite) TestWriteSummaryInvalidPath() {
	err := WriteSummary(filepath.Join(suite.tempDir, "missing", "stats.yaml"), PerformanceSummary{})
	suite.Error(err)
}

func (suite *StatisticsTestSuite) TestReadSummaryMissingFile() {
	_, err := ReadSummary(filepath.Join(suite.tempDir, "nope.yaml"))
	suite.Error(err)
}
