package indicator

import (
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// EMA indicator implements Exponential Moving Average calculation.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator with default configuration.
func NewEMA() Indicator {
	return &EMA{
		period: 20, // Default period
	}
}

// Name returns the name of the indicator.
func (e *EMA) Name() types.IndicatorType {
	return types.IndicatorTypeEMA
}

// Period returns the span.
func (e *EMA) Period() int {
	return e.period
}

// Config configures the EMA indicator. Expected parameters: period (int).
func (e *EMA) Config(params ...any) error {
	period, err := parsePeriod(params)
	if err != nil {
		return err
	}

	e.period = period

	return nil
}

// Compute implements Indicator.
func (e *EMA) Compute(series types.PriceSeries) (types.IndicatorSeries, error) {
	values, err := ExponentialMovingAverage(series.Prices(), e.period)
	if err != nil {
		return types.IndicatorSeries{}, wrapCompute(e.Name(), e.period, err)
	}

	return newSeries(e.Name(), e.period, series, values), nil
}

// ExponentialMovingAverage uses the recursive form with alpha = 2/(span+1):
//
//	ema[0] = prices[0]
//	ema[i] = alpha*prices[i] + (1-alpha)*ema[i-1]
//
// This is pandas ewm(span, adjust=False). It is defined at every index and is not seeded
// with an SMA, so it differs from the weighted-history form during the first span samples.
func ExponentialMovingAverage(prices []float64, span int) ([]optional.Option[float64], error) {
	if err := checkPeriod("span", span, len(prices)); err != nil {
		return nil, err
	}

	alpha := 2.0 / float64(span+1)
	values := make([]optional.Option[float64], len(prices))

	ema := prices[0]
	values[0] = optional.Some(ema)

	for i := 1; i < len(prices); i++ {
		ema = alpha*prices[i] + (1-alpha)*ema
		values[i] = optional.Some(ema)
	}

	return values, nil
}
