package mocks

//go:generate mockgen -destination=./mock_datasource.go -package=mocks github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/datasource DataSource
//go:generate mockgen -destination=./mock_indicator_registry.go -package=mocks github.com/rxtech-lab/argo-crossover/internal/indicator IndicatorRegistry
//go:generate mockgen -destination=./mock_indicator.go -package=mocks github.com/rxtech-lab/argo-crossover/internal/indicator Indicator
