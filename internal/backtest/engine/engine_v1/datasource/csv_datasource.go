package datasource

import (
	"os"
	"slices"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// CSVDataSource holds a whole CSV file in memory. Columns follow the csv tags of types.MarketData.
type CSVDataSource struct {
	data   []types.MarketData
	logger *logger.Logger
}

func NewCSVDataSource(logger *logger.Logger) DataSource {
	return &CSVDataSource{logger: logger}
}

// Initialize implements DataSource.
func (c *CSVDataSource) Initialize(path string) error {
	c.logger.Debug("Initializing CSV data source", zap.String("path", path))

	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to open CSV file %s", path)
	}
	defer file.Close()

	var rows []types.MarketData
	if err := gocsv.UnmarshalFile(file, &rows); err != nil {
		return errors.Wrapf(errors.ErrCodeDataSourceUnavailable, err, "failed to parse CSV file %s", path)
	}

	slices.SortStableFunc(rows, func(a, b types.MarketData) int {
		return a.Time.Compare(b.Time)
	})

	c.data = rows

	return nil
}

// ReadAll implements DataSource.
func (c *CSVDataSource) ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.MarketData, error) bool) {
	return func(yield func(types.MarketData, error) bool) {
		for _, row := range c.data {
			if !inRange(row.Time, start, end) {
				continue
			}

			if !yield(row, nil) {
				return
			}
		}
	}
}

// Count implements DataSource.
func (c *CSVDataSource) Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error) {
	count := 0

	for _, row := range c.data {
		if inRange(row.Time, start, end) {
			count++
		}
	}

	return count, nil
}

// Symbols implements DataSource.
func (c *CSVDataSource) Symbols() ([]string, error) {
	symbols := make([]string, 0)

	for _, row := range c.data {
		symbols = append(symbols, row.Symbol)
	}

	slices.Sort(symbols)

	return slices.Compact(symbols), nil
}

// Close implements DataSource.
func (c *CSVDataSource) Close() error {
	c.data = nil

	return nil
}
