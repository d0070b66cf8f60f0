package engine

import (
	"fmt"

	"github.com/rxtech-lab/argo-crossover/internal/backtest/simulator"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// RunPipeline runs prices through indicators, signals and the simulator for one parameter set.
// The fast and slow averages are computed concurrently; everything after is sequential.
func RunPipeline(series types.PriceSeries, registry indicator.IndicatorRegistry, config CrossoverConfig, simConfig simulator.Config) (*types.SimulationResult, error) {
	fast, err := registry.NewIndicator(config.Fast.Type, config.Fast.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to create fast indicator: %w", err)
	}

	slow, err := registry.NewIndicator(config.Slow.Type, config.Slow.Period)
	if err != nil {
		return nil, fmt.Errorf("failed to create slow indicator: %w", err)
	}

	averages, err := indicator.ComputeAll(series, fast, slow)
	if err != nil {
		return nil, err
	}

	crossover, err := strategy.NewCrossoverStrategy(config.Lookback)
	if err != nil {
		return nil, err
	}

	signals, err := crossover.GenerateSignals(averages[0], averages[1])
	if err != nil {
		return nil, fmt.Errorf("failed to generate signals: %w", err)
	}

	result, err := simulator.Simulate(series, averages[0], averages[1], signals, simConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate: %w", err)
	}

	result.Summary.Strategy = fmt.Sprintf("%s %s", crossover.Name(), config.Describe())

	return result, nil
}
