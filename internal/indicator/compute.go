package indicator

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"golang.org/x/sync/errgroup"
)

// ComputeAll computes each indicator over series concurrently, one goroutine per indicator.
// Each series is still computed sequentially, so results are identical to calling Compute
// one by one. The output is in the same order as indicators; the first error wins.
func ComputeAll(series types.PriceSeries, indicators ...Indicator) ([]types.IndicatorSeries, error) {
	results := make([]types.IndicatorSeries, len(indicators))

	var group errgroup.Group

	for i, ind := range indicators {
		group.Go(func() error {
			out, err := ind.Compute(series)
			if err != nil {
				return err
			}

			results[i] = out

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}
