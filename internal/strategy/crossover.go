// Package strategy turns a pair of moving averages into discrete trade signals.
package strategy

import (
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// Strategy converts aligned indicator series into one signal per bar.
type Strategy interface {
	// Name returns a display label for reports and result folders.
	Name() string
	// GenerateSignals returns a signal sequence of the same length as the inputs.
	GenerateSignals(fast, slow types.IndicatorSeries) ([]types.Signal, error)
}

// CrossoverStrategy emits Buy while the fast average is above the slow one and Sell otherwise.
// A tie resolves to Sell.
//
// With a lookback of k the ordering must have held for k consecutive bars, all with both
// averages defined, before Buy or Sell is emitted; any other bar is Hold. A lookback of 1 is
// the unconfirmed baseline.
type CrossoverStrategy struct {
	lookback int
}

// NewCrossoverStrategy returns a crossover strategy requiring lookback consecutive bars of agreement.
func NewCrossoverStrategy(lookback int) (*CrossoverStrategy, error) {
	if lookback < 1 {
		return nil, errors.Newf(errors.ErrCodeInvalidParameter, "lookback must be at least 1, got %d", lookback)
	}

	return &CrossoverStrategy{lookback: lookback}, nil
}

// Name implements Strategy.
func (s *CrossoverStrategy) Name() string {
	if s.lookback == 1 {
		return "crossover"
	}

	return fmt.Sprintf("crossover_confirm%d", s.lookback)
}

// Lookback returns the confirmation length.
func (s *CrossoverStrategy) Lookback() int {
	return s.lookback
}

type ordering int

const (
	orderingUndefined ordering = iota
	orderingBullish
	orderingBearish
)

func classify(fast, slow types.IndicatorSeries, i int) ordering {
	if fast.Values[i].IsNone() || slow.Values[i].IsNone() {
		return orderingUndefined
	}

	if fast.Values[i].Unwrap() > slow.Values[i].Unwrap() {
		return orderingBullish
	}

	return orderingBearish
}

// GenerateSignals implements Strategy.
func (s *CrossoverStrategy) GenerateSignals(fast, slow types.IndicatorSeries) ([]types.Signal, error) {
	if err := fast.CheckAligned(slow.Times); err != nil {
		return nil, err
	}

	if err := slow.CheckAligned(fast.Times); err != nil {
		return nil, err
	}

	n := fast.Len()
	orderings := make([]ordering, n)

	for i := range orderings {
		orderings[i] = classify(fast, slow, i)
	}

	signals := make([]types.Signal, n)

	for i := range signals {
		signalType := s.confirmed(orderings, i)
		signals[i] = types.Signal{
			Time:           fast.Times[i],
			Type:           signalType,
			PositionChange: i > 0 && signalType != signals[i-1].Type,
		}
	}

	return signals, nil
}

// confirmed returns the signal for bar i given the per-bar orderings.
func (s *CrossoverStrategy) confirmed(orderings []ordering, i int) types.SignalType {
	first := i - s.lookback + 1
	if first < 0 {
		return types.SignalTypeHold
	}

	current := orderings[i]
	if current == orderingUndefined {
		return types.SignalTypeHold
	}

	for j := first; j < i; j++ {
		if orderings[j] != current {
			return types.SignalTypeHold
		}
	}

	if current == orderingBullish {
		return types.SignalTypeBuy
	}

	return types.SignalTypeSell
}
