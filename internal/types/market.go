package types

import (
	"time"

	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// MarketData is a single OHLCV bar as yielded by a data source.
type MarketData struct {
	Symbol string    `csv:"symbol"`
	Time   time.Time `csv:"time"`
	Open   float64   `csv:"open"`
	High   float64   `csv:"high"`
	Low    float64   `csv:"low"`
	Close  float64   `csv:"close"`
	Volume float64   `csv:"volume"`
}

// PricePoint is one (timestamp, price) observation.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSeries is an ordered, single-instrument price sequence with strictly
// increasing timestamps. Treat it as immutable once built.
type PriceSeries struct {
	Symbol string
	points []PricePoint
}

// NewPriceSeries validates ordering and returns a series holding a private copy of points.
func NewPriceSeries(symbol string, points []PricePoint) (PriceSeries, error) {
	for i := 1; i < len(points); i++ {
		if !points[i].Time.After(points[i-1].Time) {
			return PriceSeries{}, errors.Newf(errors.ErrCodeUnorderedSeries,
				"timestamps must be strictly increasing: index %d (%s) is not after index %d (%s)",
				i, points[i].Time.Format(time.RFC3339), i-1, points[i-1].Time.Format(time.RFC3339))
		}
	}

	owned := make([]PricePoint, len(points))
	copy(owned, points)

	return PriceSeries{Symbol: symbol, points: owned}, nil
}

// NewPriceSeriesFromMarketData builds a close-price series from bars.
func NewPriceSeriesFromMarketData(symbol string, bars []MarketData) (PriceSeries, error) {
	points := make([]PricePoint, len(bars))
	for i, bar := range bars {
		points[i] = PricePoint{Time: bar.Time, Price: bar.Close}
	}

	return NewPriceSeries(symbol, points)
}

// Len returns the number of points.
func (s PriceSeries) Len() int {
	return len(s.points)
}

// At returns the point at index i.
func (s PriceSeries) At(i int) PricePoint {
	return s.points[i]
}

// Points returns a copy of the underlying points.
func (s PriceSeries) Points() []PricePoint {
	out := make([]PricePoint, len(s.points))
	copy(out, s.points)

	return out
}

// Prices returns the price column.
func (s PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.points))
	for i, p := range s.points {
		out[i] = p.Price
	}

	return out
}

// Times returns the timestamp column.
func (s PriceSeries) Times() []time.Time {
	out := make([]time.Time, len(s.points))
	for i, p := range s.points {
		out[i] = p.Time
	}

	return out
}
