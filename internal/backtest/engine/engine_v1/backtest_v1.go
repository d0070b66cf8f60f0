package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/writer"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/simulator"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/strategy"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/internal/version"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

// moneyPrecision is the number of decimal places used for money columns in result files.
const moneyPrecision = 2

type BacktestEngineV1 struct {
	config              BacktestEngineV1Config
	strategyConfigPaths []string
	strategyConfigs     []string
	dataPaths           []string
	resultsFolder       string
	log                 *logger.Logger
	indicatorRegistry   indicator.IndicatorRegistry
	datasource          datasource.DataSource
	simulatorConfig     simulator.Config
	initialized         bool
}

func NewBacktestEngineV1() engine.Engine {
	log, err := logger.NewLogger()
	if err != nil {
		log = logger.NewNopLogger()
	}

	return NewBacktestEngineV1WithLogger(log)
}

// NewBacktestEngineV1WithLogger creates an engine that logs to log.
func NewBacktestEngineV1WithLogger(log *logger.Logger) engine.Engine {
	return &BacktestEngineV1{
		config:              EmptyConfig(),
		strategyConfigPaths: nil,
		strategyConfigs:     nil,
		dataPaths:           nil,
		resultsFolder:       "",
		log:                 log,
		indicatorRegistry:   indicator.NewDefaultIndicatorRegistry(),
		datasource:          nil,
		simulatorConfig:     simulator.Config{},
		initialized:         false,
	}
}

// Initialize implements engine.Engine.
func (b *BacktestEngineV1) Initialize(config string) error {
	if err := yaml.Unmarshal([]byte(config), &b.config); err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to parse backtest config", err)
	}

	if err := b.config.Validate(); err != nil {
		return err
	}

	if err := version.CheckVersionCompatibility(version.GetVersion(), b.config.EngineVersion); err != nil {
		return err
	}

	simulatorConfig, err := b.config.SimulatorConfig()
	if err != nil {
		return errors.Wrap(errors.ErrCodeBacktestConfigError, "failed to build simulator config", err)
	}

	b.simulatorConfig = simulatorConfig
	b.initialized = true

	b.log.Debug("Backtest engine initialized",
		zap.Float64("initial_investment", b.config.InitialInvestment),
		zap.String("sizing", simulatorConfig.Sizing.Name()),
		zap.String("engine_version", version.GetVersion()),
	)

	return nil
}

// SetConfigPath implements engine.Engine.
func (b *BacktestEngineV1) SetConfigPath(path string) error {
	// use glob to get all the files that match the path
	files, err := filepath.Glob(path)
	if err != nil {
		b.log.Error("Failed to set config path",
			zap.String("path", path),
			zap.Error(err),
		)

		return err
	}

	b.strategyConfigPaths = files
	b.strategyConfigs = nil
	b.log.Debug("Config paths set",
		zap.Strings("files", files),
	)

	return nil
}

// SetConfigContent implements engine.Engine.
func (b *BacktestEngineV1) SetConfigContent(configs []string) error {
	b.strategyConfigs = configs
	b.strategyConfigPaths = nil
	b.log.Debug("Config content set",
		zap.Int("count", len(configs)),
	)

	return nil
}

// SetDataPath implements engine.Engine.
func (b *BacktestEngineV1) SetDataPath(path string) error {
	// use glob to get all the files that match the path
	files, err := filepath.Glob(path)
	if err != nil {
		b.log.Error("Failed to set data path",
			zap.String("path", path),
			zap.Error(err),
		)

		return err
	}

	absolutePaths := make([]string, len(files))

	for i, file := range files {
		absPath, err := filepath.Abs(file)
		if err != nil {
			b.log.Error("Failed to get absolute path",
				zap.String("path", file),
				zap.Error(err),
			)

			return err
		}

		absolutePaths[i] = absPath
	}

	b.dataPaths = absolutePaths
	b.log.Debug("Data paths set",
		zap.Strings("files", absolutePaths),
	)

	return nil
}

// SetResultsFolder implements engine.Engine.
func (b *BacktestEngineV1) SetResultsFolder(folder string) error {
	b.resultsFolder = folder
	b.log.Debug("Results folder set",
		zap.String("folder", folder),
	)

	return nil
}

func (b *BacktestEngineV1) SetDataSource(datasource datasource.DataSource) error {
	b.datasource = datasource

	return nil
}

type configItem struct {
	name string
	// folder is the result folder name of the config, unique within one run
	folder string
	config CrossoverConfig
}

// Run implements engine.Engine.
func (b *BacktestEngineV1) Run(ctx context.Context, callbacks engine.LifecycleCallbacks) (err error) {
	defer func() {
		if callbacks.OnBacktestEnd != nil {
			(*callbacks.OnBacktestEnd)(err)
		}
	}()

	if err := b.preRunCheck(); err != nil {
		return err
	}

	configs, err := b.loadConfigs()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(b.resultsFolder, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create results folder", err)
	}

	if callbacks.OnBacktestStart != nil {
		if err := (*callbacks.OnBacktestStart)(len(configs), len(b.dataPaths)); err != nil {
			return err
		}
	}

	dataFolders := uniqueStems(b.dataPaths)

	for strategyIndex, cfg := range configs {
		crossover, err := strategy.NewCrossoverStrategy(cfg.config.Lookback)
		if err != nil {
			return err
		}

		if callbacks.OnStrategyStart != nil {
			if err := (*callbacks.OnStrategyStart)(strategyIndex, crossover.Name(), len(configs)); err != nil {
				return err
			}
		}

		for dataIndex, dataPath := range b.dataPaths {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := b.runOne(ctx, callbacks, strategyIndex, crossover.Name(), cfg, dataIndex, dataPath, dataFolders[dataIndex]); err != nil {
				return err
			}
		}

		if callbacks.OnStrategyEnd != nil {
			(*callbacks.OnStrategyEnd)(strategyIndex, crossover.Name())
		}
	}

	return nil
}

// runOne replays one strategy config against one data file and writes its results.
func (b *BacktestEngineV1) runOne(ctx context.Context, callbacks engine.LifecycleCallbacks, strategyIndex int, strategyName string, cfg configItem, dataIndex int, dataPath string, dataFolder string) error {
	if err := b.datasource.Initialize(dataPath); err != nil {
		return fmt.Errorf("failed to initialize data source: %w", err)
	}

	symbol, err := datasource.ResolveSymbol(b.datasource, b.config.Symbol)
	if err != nil {
		return fmt.Errorf("failed to pick a symbol in %s: %w", dataPath, err)
	}

	count, err := b.datasource.Count(b.config.StartTime, b.config.EndTime)
	if err != nil {
		return fmt.Errorf("failed to get data count: %w", err)
	}

	runID := uuid.New().String()
	resultFolderPath := getResultFolder(cfg.folder, dataFolder, b, strategyName)

	b.log.Debug("Running strategy",
		zap.String("run_id", runID),
		zap.String("strategy", strategyName),
		zap.String("config", cfg.name),
		zap.String("data", dataPath),
		zap.String("result", resultFolderPath),
	)

	if callbacks.OnRunStart != nil {
		if err := (*callbacks.OnRunStart)(runID, strategyIndex, cfg.name, dataIndex, dataPath, count); err != nil {
			return err
		}
	}

	series, err := b.loadSeries(ctx, callbacks, dataPath, symbol, count)
	if err != nil {
		return err
	}

	result, err := RunPipeline(series, b.indicatorRegistry, cfg.config, b.simulatorConfig)
	if err != nil {
		return fmt.Errorf("failed to run %s on %s: %w", cfg.name, dataPath, err)
	}

	result.Summary.RunID = runID
	result.Summary.EngineVersion = version.GetVersion()

	if err := writer.NewResultWriter(resultFolderPath, moneyPrecision).Write(result); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	b.log.Info("Backtest run finished",
		zap.String("run_id", runID),
		zap.String("symbol", result.Summary.Symbol),
		zap.String("strategy", result.Summary.Strategy),
		zap.Float64("final_value", result.Summary.FinalValue),
		zap.Float64("buy_and_hold_value", result.Summary.BuyAndHoldValue),
		zap.Float64("win_ratio", result.Summary.WinRatio),
	)

	if callbacks.OnRunEnd != nil {
		(*callbacks.OnRunEnd)(strategyIndex, cfg.name, dataIndex, dataPath, resultFolderPath)
	}

	return nil
}

// loadSeries materialises the close prices of symbol before the replay starts.
func (b *BacktestEngineV1) loadSeries(ctx context.Context, callbacks engine.LifecycleCallbacks, dataPath string, symbol string, count int) (types.PriceSeries, error) {
	var bars []types.MarketData

	current := 0

	for data, err := range b.datasource.ReadAll(b.config.StartTime, b.config.EndTime) {
		if err != nil {
			return types.PriceSeries{}, fmt.Errorf("failed to read data: %w", err)
		}

		if err := ctx.Err(); err != nil {
			return types.PriceSeries{}, err
		}

		current++

		if callbacks.OnProcessData != nil {
			if err := (*callbacks.OnProcessData)(current, count); err != nil {
				return types.PriceSeries{}, err
			}
		}

		if data.Symbol != symbol {
			continue
		}

		bars = append(bars, data)
	}

	if len(bars) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no market data in %s for the configured period", dataPath)
	}

	return types.NewPriceSeriesFromMarketData(symbol, bars)
}

func (b *BacktestEngineV1) loadConfigs() ([]configItem, error) {
	var configs []configItem

	if len(b.strategyConfigs) > 0 {
		for i, content := range b.strategyConfigs {
			config, err := ParseCrossoverConfig(content)
			if err != nil {
				return nil, err
			}

			name := fmt.Sprintf("config_%d", i)
			configs = append(configs, configItem{
				name:   name,
				folder: name,
				config: config,
			})
		}

		return configs, nil
	}

	folders := uniqueStems(b.strategyConfigPaths)

	for i, configPath := range b.strategyConfigPaths {
		content, err := os.ReadFile(configPath)
		if err != nil {
			b.log.Error("Failed to read config",
				zap.String("config", configPath),
				zap.Error(err),
			)

			return nil, err
		}

		config, err := ParseCrossoverConfig(string(content))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}

		configs = append(configs, configItem{
			name:   configPath,
			folder: folders[i],
			config: config,
		})
	}

	return configs, nil
}

func (b *BacktestEngineV1) GetConfigSchema() (string, error) {
	config := b.config

	schema, err := config.GenerateSchemaJSON()
	if err != nil {
		return "", fmt.Errorf("failed to generate schema: %w", err)
	}

	return schema, nil
}

func (b *BacktestEngineV1) preRunCheck() error {
	if !b.initialized {
		b.log.Error("Engine not initialized")

		return errors.New(errors.ErrCodeBacktestInitFailed, "engine not initialized")
	}

	if len(b.strategyConfigPaths) == 0 && len(b.strategyConfigs) == 0 {
		b.log.Error("No strategy configs loaded")

		return errors.New(errors.ErrCodeBacktestConfigError, "no strategy configs loaded")
	}

	if len(b.dataPaths) == 0 {
		b.log.Error("No data paths loaded")

		return errors.New(errors.ErrCodeBacktestNoDataPaths, "no data paths loaded")
	}

	if b.resultsFolder == "" {
		b.log.Error("No results folder set")

		return errors.New(errors.ErrCodeBacktestNoResultsDir, "no results folder set")
	}

	if b.datasource == nil {
		b.log.Error("No datasource set")

		return errors.New(errors.ErrCodeBacktestNoDatasource, "no datasource set")
	}

	return nil
}
