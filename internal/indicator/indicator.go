package indicator

import (
	"fmt"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Indicator derives a series aligned with a price series.
// Implementations are pure: Compute never mutates its input and keeps no state between calls.
type Indicator interface {
	// Name returns the indicator type
	Name() types.IndicatorType
	// Period returns the configured window or span
	Period() int
	// Config sets the period. Expected parameters: period (int or float64).
	Config(params ...any) error
	// Compute derives the indicator series for the given prices
	Compute(series types.PriceSeries) (types.IndicatorSeries, error)
}

// parsePeriod accepts the period as int or float64, the way YAML and JSON decoders hand it over.
func parsePeriod(params []any) (int, error) {
	if len(params) != 1 {
		return 0, errors.New(errors.ErrCodeInvalidParameter, "Config expects 1 parameter: period (int)")
	}

	var period int

	switch p := params[0].(type) {
	case int:
		period = p
	case float64:
		period = int(p)
	default:
		return 0, errors.New(errors.ErrCodeInvalidParameter, "invalid type for period parameter, expected int or float")
	}

	if period <= 0 {
		return 0, errors.Newf(errors.ErrCodeInvalidParameter, "period must be a positive integer, got %d", period)
	}

	return period, nil
}

// checkPeriod enforces 0 < period <= n. An oversized period is an error, not an all-None series.
func checkPeriod(kind string, period int, n int) error {
	if n == 0 {
		return errors.Newf(errors.ErrCodeEmptySeries, "cannot compute %s over an empty price series", kind)
	}

	if period <= 0 {
		return errors.Newf(errors.ErrCodeInvalidParameter, "%s must be a positive integer, got %d", kind, period)
	}

	if period > n {
		return errors.Newf(errors.ErrCodeInvalidParameter,
			"%s %d exceeds the %d available price points", kind, period, n)
	}

	return nil
}

func newSeries(indicatorType types.IndicatorType, period int, series types.PriceSeries, values []optional.Option[float64]) types.IndicatorSeries {
	return types.IndicatorSeries{
		Name:   types.SeriesName(indicatorType, period),
		Type:   indicatorType,
		Period: period,
		Times:  series.Times(),
		Values: values,
	}
}

func wrapCompute(name types.IndicatorType, period int, err error) error {
	return fmt.Errorf("failed to calculate %s: %w", types.SeriesName(name, period), err)
}
