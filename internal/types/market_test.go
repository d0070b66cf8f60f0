package types

import (
	"testing"
	"time"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
	start time.Time
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) SetupTest() {
	suite.start = time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *MarketTestSuite) day(i int) time.Time {
	return suite.start.AddDate(0, 0, i)
}

func (suite *MarketTestSuite) TestNewPriceSeries() {
	series, err := NewPriceSeries("TSM", []PricePoint{
		{Time: suite.day(0), Price: 100},
		{Time: suite.day(1), Price: 101},
		{Time: suite.day(4), Price: 99},
	})
	suite.Require().NoError(err)

	suite.Equal("TSM", series.Symbol)
	suite.Equal(3, series.Len())
	suite.Equal([]float64{100, 101, 99}, series.Prices())
	suite.Equal([]time.Time{suite.day(0), suite.day(1), suite.day(4)}, series.Times())
	suite.Equal(101.0, series.At(1).Price)
}

func (suite *MarketTestSuite) TestNewPriceSeriesRejectsUnorderedTimestamps() {
	tests := []struct {
		name   string
		points []PricePoint
	}{
		{
			name: "duplicate timestamp",
			points: []PricePoint{
				{Time: suite.day(0), Price: 100},
				{Time: suite.day(0), Price: 101},
			},
		},
		{
			name: "decreasing timestamp",
			points: []PricePoint{
				{Time: suite.day(2), Price: 100},
				{Time: suite.day(1), Price: 101},
			},
		},
	}

	for _, tc := range tests {
		suite.Run(tc.name, func() {
			_, err := NewPriceSeries("TSM", tc.points)
			suite.Error(err)
			suite.True(errors.HasCode(err, errors.ErrCodeUnorderedSeries))
		})
	}
}

func (suite *MarketTestSuite) TestPriceSeriesOwnsItsPoints() {
	points := []PricePoint{
		{Time: suite.day(0), Price: 100},
		{Time: suite.day(1), Price: 101},
	}

	series, err := NewPriceSeries("F", points)
	suite.Require().NoError(err)

	points[0].Price = 1
	suite.Equal(100.0, series.At(0).Price)

	copied := series.Points()
	copied[1].Price = 2
	suite.Equal(101.0, series.At(1).Price)
}

func (suite *MarketTestSuite) TestNewPriceSeriesFromMarketData() {
	series, err := NewPriceSeriesFromMarketData("AAPL", []MarketData{
		{Symbol: "AAPL", Time: suite.day(0), Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 10},
		{Symbol: "AAPL", Time: suite.day(1), Open: 1.5, High: 2.5, Low: 1, Close: 2, Volume: 20},
	})
	suite.Require().NoError(err)
	suite.Equal([]float64{1.5, 2}, series.Prices())
}

func (suite *MarketTestSuite) TestEmptySeriesIsValid() {
	series, err := NewPriceSeries("EMPTY", nil)
	suite.NoError(err)
	suite.Equal(0, series.Len())
}
