package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine"
	enginev1 "github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/writer"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	dataSourceDuckDB = "duckdb"
	dataSourceCSV    = "csv"
)

func newDataSource(kind string, log *logger.Logger) (datasource.DataSource, error) {
	switch kind {
	case dataSourceDuckDB:
		return datasource.NewDataSource(":memory:", log)
	case dataSourceCSV:
		return datasource.NewCSVDataSource(log), nil
	default:
		return nil, fmt.Errorf("unknown data source %q, expected %s or %s", kind, dataSourceDuckDB, dataSourceCSV)
	}
}

func backtestAction(ctx context.Context, cmd *cli.Command) error {
	level := zapcore.WarnLevel
	if cmd.Bool("verbose") {
		level = zapcore.DebugLevel
	}

	appLog, err := logger.NewLoggerWithLevel(level)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLog.Sync() //nolint:errcheck

	config, err := os.ReadFile(cmd.String("config"))
	if err != nil {
		return fmt.Errorf("failed to read backtest config: %w", err)
	}

	source, err := newDataSource(cmd.String("datasource"), appLog)
	if err != nil {
		return err
	}
	defer source.Close()

	backtester := enginev1.NewBacktestEngineV1WithLogger(appLog)

	if err := backtester.Initialize(string(config)); err != nil {
		return fmt.Errorf("failed to initialize backtest engine: %w", err)
	}

	if err := backtester.SetDataSource(source); err != nil {
		return err
	}

	if err := backtester.SetConfigPath(cmd.String("strategy")); err != nil {
		return err
	}

	if err := backtester.SetDataPath(cmd.String("data")); err != nil {
		return err
	}

	if err := backtester.SetResultsFolder(cmd.String("results")); err != nil {
		return err
	}

	var bar *progressbar.ProgressBar

	onRunStart := engine.OnRunStartCallback(func(runID string, strategyIndex int, strategyName string, dataFileIndex int, dataFilePath string, totalDataPoints int) error {
		bar = progressbar.NewOptions(totalDataPoints,
			progressbar.OptionSetDescription(fmt.Sprintf("%s on %s", strategyName, dataFilePath)),
			progressbar.OptionShowCount(),
		)

		return nil
	})
	onProcessData := engine.OnProcessDataCallback(func(current int, total int) error {
		if bar != nil {
			return bar.Set(current)
		}

		return nil
	})
	onRunEnd := engine.OnRunEndCallback(func(strategyIndex int, strategyName string, dataFileIndex int, dataFilePath string, resultFolderPath string) {
		if bar != nil {
			_ = bar.Finish()
		}

		fmt.Println()

		summary, err := writer.ReadSummary(resultFolderPath)
		if err != nil {
			appLog.Warn("Failed to read run summary", zap.String("folder", resultFolderPath), zap.Error(err))
			return
		}

		fmt.Println(renderSummary(summary, resultFolderPath))
	})
	onBacktestEnd := engine.OnBacktestEndCallback(func(err error) {
		if err != nil {
			appLog.Error("Backtest failed", zap.Error(err))
		}
	})

	return backtester.Run(ctx, engine.LifecycleCallbacks{
		OnRunStart:    &onRunStart,
		OnProcessData: &onProcessData,
		OnRunEnd:      &onRunEnd,
		OnBacktestEnd: &onBacktestEnd,
	})
}

func main() {
	cmd := &cli.Command{
		Name:  "backtest",
		Usage: "Backtest moving-average crossover strategies against historical prices",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "config",
				Aliases:  []string{"c"},
				Usage:    "Path to the backtest engine config (investment, sizing, period)",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "strategy",
				Aliases:  []string{"s"},
				Usage:    "Glob of crossover strategy configs, one parameter set per file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Glob of market data files (parquet or csv)",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "results",
				Aliases: []string{"r"},
				Usage:   "Results folder",
				Value:   "results",
			},
			&cli.StringFlag{
				Name:  "datasource",
				Usage: fmt.Sprintf("Data source implementation (%s or %s)", dataSourceDuckDB, dataSourceCSV),
				Value: dataSourceDuckDB,
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Action: backtestAction,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Run(ctx, os.Args); err != nil {
		log.Fatal(err)
	}
}
