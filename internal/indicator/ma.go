package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// MA indicator implements Simple Moving Average calculation.
type MA struct {
	period int
}

// NewMA creates a new MA indicator with default configuration.
func NewMA() Indicator {
	return &MA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (m *MA) Name() types.IndicatorType {
	return types.IndicatorTypeSMA
}

// Period returns the window length.
func (m *MA) Period() int {
	return m.period
}

// Config sets the window. Expected parameters: period (int).
func (m *MA) Config(params ...any) error {
	period, err := parsePeriod(params)
	if err != nil {
		return err
	}

	m.period = period

	return nil
}

// Compute implements Indicator.
func (m *MA) Compute(series types.PriceSeries) (types.IndicatorSeries, error) {
	values, err := SimpleMovingAverage(series.Prices(), m.period)
	if err != nil {
		return types.IndicatorSeries{}, wrapCompute(m.Name(), m.period, err)
	}

	return newSeries(m.Name(), m.period, series, values), nil
}

// SimpleMovingAverage returns, for each index i >= window-1, the arithmetic mean of
// prices[i-window+1..i]; earlier indices are None.
// Each window is summed oldest-first so results do not depend on a running total.
func SimpleMovingAverage(prices []float64, window int) ([]optional.Option[float64], error) {
	if err := checkPeriod("window", window, len(prices)); err != nil {
		return nil, err
	}

	values := make([]optional.Option[float64], len(prices))

	for i := range prices {
		if i < window-1 {
			values[i] = optional.None[float64]()

			continue
		}

		sum := 0.0
		for _, p := range prices[i-window+1 : i+1] {
			sum += p
		}

		values[i] = optional.Some(sum / float64(window))
	}

	return values, nil
}
