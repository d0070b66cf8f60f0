package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/datasource"
	"github.com/rxtech-lab/argo-crossover/internal/indicator"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/regression"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/urfave/cli/v3"
)

type options struct {
	symbol optional.Option[string]
	start  optional.Option[time.Time]
	end    optional.Option[time.Time]
	ema    int
	sma    int
}

// loadSeries reads the close prices of one symbol from the loaded data source.
func loadSeries(source datasource.DataSource, opts options) (types.PriceSeries, error) {
	symbol, err := datasource.ResolveSymbol(source, opts.symbol)
	if err != nil {
		return types.PriceSeries{}, fmt.Errorf("%w, pass --symbol", err)
	}

	var bars []types.MarketData

	for bar, err := range source.ReadAll(opts.start, opts.end) {
		if err != nil {
			return types.PriceSeries{}, err
		}

		if bar.Symbol == symbol {
			bars = append(bars, bar)
		}
	}

	if len(bars) == 0 {
		return types.PriceSeries{}, errors.Newf(errors.ErrCodeNoDataFound, "no %s market data in range", symbol)
	}

	return types.NewPriceSeriesFromMarketData(symbol, bars)
}

// fit regresses the close price on EMA(opts.ema) and SMA(opts.sma).
func fit(series types.PriceSeries, opts options) (*regression.Result, error) {
	registry := indicator.NewDefaultIndicatorRegistry()

	ema, err := registry.NewIndicator(types.IndicatorTypeEMA, opts.ema)
	if err != nil {
		return nil, err
	}

	sma, err := registry.NewIndicator(types.IndicatorTypeSMA, opts.sma)
	if err != nil {
		return nil, err
	}

	averages, err := indicator.ComputeAll(series, ema, sma)
	if err != nil {
		return nil, err
	}

	return regression.FitSeries(series, averages...)
}

func regressionAction(ctx context.Context, cmd *cli.Command) error {
	appLog, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer appLog.Sync() //nolint:errcheck

	source, err := datasource.NewDataSource(":memory:", appLog)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := source.Initialize(cmd.String("data")); err != nil {
		return err
	}

	opts := options{
		symbol: optional.None[string](),
		start:  optional.None[time.Time](),
		end:    optional.None[time.Time](),
		ema:    int(cmd.Int("ema")),
		sma:    int(cmd.Int("sma")),
	}

	if s := cmd.String("symbol"); s != "" {
		opts.symbol = optional.Some(s)
	}

	if cmd.IsSet("start") {
		opts.start = optional.Some(cmd.Timestamp("start"))
	}

	if cmd.IsSet("end") {
		opts.end = optional.Some(cmd.Timestamp("end"))
	}

	series, err := loadSeries(source, opts)
	if err != nil {
		return err
	}

	result, err := fit(series, opts)
	if err != nil {
		return err
	}

	fmt.Println(renderModel(result))

	if output := cmd.String("output"); output != "" {
		if err := writePredictions(output, result); err != nil {
			return err
		}

		log.Printf("Predictions written to %s", output)
	}

	return nil
}

func main() {
	dateLayouts := cli.TimestampConfig{Layouts: []string{"2006-01-02"}}

	cmd := &cli.Command{
		Name:  "regression",
		Usage: "Regress the close price on its EMA and SMA",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "data",
				Aliases:  []string{"d"},
				Usage:    "Market data file (parquet or csv)",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "symbol",
				Usage: "Symbol to regress when the file holds several",
			},
			&cli.TimestampFlag{
				Name:   "start",
				Usage:  "Start date in `YYYY-MM-DD` format",
				Config: dateLayouts,
			},
			&cli.TimestampFlag{
				Name:   "end",
				Usage:  "End date in `YYYY-MM-DD` format",
				Config: dateLayouts,
			},
			&cli.IntFlag{
				Name:  "ema",
				Usage: "EMA span",
				Value: 20,
			},
			&cli.IntFlag{
				Name:  "sma",
				Usage: "SMA window",
				Value: 10,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Optional CSV file for the actual and predicted prices",
			},
		},
		Action: regressionAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
