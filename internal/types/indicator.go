package types

import (
	"fmt"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

type IndicatorType string

const (
	// IndicatorTypeSMA is the simple moving average.
	IndicatorTypeSMA IndicatorType = "sma"
	// IndicatorTypeEMA is the recursive (adjust=false) exponential moving average.
	IndicatorTypeEMA IndicatorType = "ema"
)

// AllIndicatorTypes is used for schema enums.
var AllIndicatorTypes = []any{
	IndicatorTypeSMA,
	IndicatorTypeEMA,
}

// IndicatorSeries is a derived series aligned index-for-index with its price series.
// Warm-up entries are None, never zero.
type IndicatorSeries struct {
	// Name is a display label such as "sma(20)".
	Name   string
	Type   IndicatorType
	Period int
	Times  []time.Time
	Values []optional.Option[float64]
}

// SeriesName returns the display label for an indicator of the given type and period.
func SeriesName(indicatorType IndicatorType, period int) string {
	return fmt.Sprintf("%s(%d)", indicatorType, period)
}

// Len returns the number of entries.
func (s IndicatorSeries) Len() int {
	return len(s.Values)
}

// DefinedFrom returns the first index holding a defined value, or -1.
func (s IndicatorSeries) DefinedFrom() int {
	for i, v := range s.Values {
		if v.IsSome() {
			return i
		}
	}

	return -1
}

// CheckAligned reports ErrCodeMisalignedSeries unless s matches times in length and timestamps.
func (s IndicatorSeries) CheckAligned(times []time.Time) error {
	if len(s.Values) != len(times) || len(s.Times) != len(times) {
		return errors.Newf(errors.ErrCodeMisalignedSeries,
			"%s has %d values but the price series has %d points", s.Name, len(s.Values), len(times))
	}

	for i := range times {
		if !s.Times[i].Equal(times[i]) {
			return errors.Newf(errors.ErrCodeMisalignedSeries,
				"%s timestamp at index %d does not match the price series", s.Name, i)
		}
	}

	return nil
}
