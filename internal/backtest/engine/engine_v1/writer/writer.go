// Package writer exports a finished simulation to a result folder and reads it back.
//
// A result folder holds:
//
//	stats.yaml      performance summary
//	trajectory.csv  one row per bar
//	trades.csv      one row per executed trade
package writer

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	StatsFileName      = "stats.yaml"
	TrajectoryFileName = "trajectory.csv"
	TradesFileName     = "trades.csv"
)

// TrajectoryRow is the CSV form of types.BarRecord. Undefined values are empty cells.
type TrajectoryRow struct {
	Index           int    `csv:"index"`
	Time            string `csv:"time"`
	Price           string `csv:"price"`
	Fast            string `csv:"fast"`
	Slow            string `csv:"slow"`
	Signal          string `csv:"signal"`
	PositionChange  bool   `csv:"position_change"`
	Action          string `csv:"action"`
	Cash            string `csv:"cash"`
	Shares          string `csv:"shares"`
	HoldingsValue   string `csv:"holdings_value"`
	TotalValue      string `csv:"total_value"`
	State           string `csv:"state"`
	DailyReturn     string `csv:"daily_return"`
	StrategyReturn  string `csv:"strategy_return"`
	PortfolioReturn string `csv:"portfolio_return"`
}

// TradeRow is the CSV form of types.Trade.
type TradeRow struct {
	Time      string `csv:"time"`
	Action    string `csv:"action"`
	Price     string `csv:"price"`
	Shares    string `csv:"shares"`
	Value     string `csv:"value"`
	CashAfter string `csv:"cash_after"`
}

// ResultWriter writes simulation results into one folder.
type ResultWriter struct {
	folder string
	// precision is the number of decimal places for money and prices
	precision int32
}

func NewResultWriter(folder string, precision int32) *ResultWriter {
	return &ResultWriter{folder: folder, precision: precision}
}

// Folder returns the result folder.
func (w *ResultWriter) Folder() string {
	return w.folder
}

// Write creates the folder and writes the summary, trajectory and trade log.
func (w *ResultWriter) Write(result *types.SimulationResult) error {
	if err := os.MkdirAll(w.folder, 0755); err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to create result folder %s", w.folder)
	}

	if err := types.WriteSummary(filepath.Join(w.folder, StatsFileName), result.Summary); err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to write stats", err)
	}

	trajectory := make([]*TrajectoryRow, len(result.Trajectory))
	for i, record := range result.Trajectory {
		trajectory[i] = w.trajectoryRow(record)
	}

	if err := writeCSV(filepath.Join(w.folder, TrajectoryFileName), &trajectory); err != nil {
		return err
	}

	trades := make([]*TradeRow, len(result.Trades))
	for i, trade := range result.Trades {
		trades[i] = w.tradeRow(trade)
	}

	return writeCSV(filepath.Join(w.folder, TradesFileName), &trades)
}

func (w *ResultWriter) trajectoryRow(record types.BarRecord) *TrajectoryRow {
	return &TrajectoryRow{
		Index:           record.Index,
		Time:            record.Time.Format(time.RFC3339),
		Price:           w.money(record.Price),
		Fast:            formatOptional(record.Fast, w.precision),
		Slow:            formatOptional(record.Slow, w.precision),
		Signal:          string(record.Signal),
		PositionChange:  record.PositionChange,
		Action:          string(record.Action),
		Cash:            w.money(record.Portfolio.Cash),
		Shares:          formatFloat(record.Portfolio.Shares),
		HoldingsValue:   w.money(record.Portfolio.HoldingsValue),
		TotalValue:      w.money(record.Portfolio.TotalValue),
		State:           string(record.Portfolio.State),
		DailyReturn:     formatOptional(record.DailyReturn, 6),
		StrategyReturn:  formatOptional(record.StrategyReturn, 6),
		PortfolioReturn: formatOptional(record.PortfolioReturn, 4),
	}
}

func (w *ResultWriter) tradeRow(trade types.Trade) *TradeRow {
	return &TradeRow{
		Time:      trade.Time.Format(time.RFC3339),
		Action:    string(trade.Action),
		Price:     w.money(trade.Price),
		Shares:    formatFloat(trade.Shares),
		Value:     w.money(trade.Value),
		CashAfter: w.money(trade.CashAfter),
	}
}

func (w *ResultWriter) money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(w.precision)
}

// formatFloat keeps share counts at full precision.
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptional(v optional.Option[float64], places int32) string {
	if v.IsNone() {
		return ""
	}

	return decimal.NewFromFloat(v.Unwrap()).StringFixed(places)
}

func writeCSV(path string, rows any) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to create %s", path)
	}
	defer file.Close()

	if err := gocsv.MarshalFile(rows, file); err != nil {
		return errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to write %s", path)
	}

	return nil
}
