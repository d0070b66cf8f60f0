package datasource

import (
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/moznion/go-optional"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

type Format string

const (
	FormatParquet Format = "parquet"
	FormatCSV     Format = "csv"
)

// DetectFormat picks the file format from the path extension. Anything that is not .csv is read as parquet.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return FormatCSV
	}

	return FormatParquet
}

type DataSource interface {
	// Initialize loads the market data file at path, replacing anything loaded before
	Initialize(path string) error
	// ReadAll yields bars in ascending time order, optionally bounded by start and end (inclusive)
	ReadAll(start optional.Option[time.Time], end optional.Option[time.Time]) func(yield func(types.MarketData, error) bool)
	// Count returns the number of bars ReadAll would yield for the same bounds
	Count(start optional.Option[time.Time], end optional.Option[time.Time]) (int, error)
	// Symbols returns the distinct symbols in the loaded file, sorted
	Symbols() ([]string, error)
	// Close closes the data source and releases any resources
	Close() error
}

// ResolveSymbol picks the one symbol to replay from the loaded file. A requested symbol must be
// present; without one the file must hold exactly one symbol.
func ResolveSymbol(ds DataSource, symbol optional.Option[string]) (string, error) {
	symbols, err := ds.Symbols()
	if err != nil {
		return "", err
	}

	if symbol.IsSome() {
		if !slices.Contains(symbols, symbol.Unwrap()) {
			return "", errors.Newf(errors.ErrCodeNoDataFound, "symbol %s not found in data (have %s)",
				symbol.Unwrap(), strings.Join(symbols, ", "))
		}

		return symbol.Unwrap(), nil
	}

	switch len(symbols) {
	case 0:
		return "", errors.New(errors.ErrCodeNoDataFound, "data holds no bars")
	case 1:
		return symbols[0], nil
	default:
		return "", errors.Newf(errors.ErrCodeInvalidConfiguration,
			"data holds %d symbols (%s); choose one", len(symbols), strings.Join(symbols, ", "))
	}
}

func inRange(t time.Time, start optional.Option[time.Time], end optional.Option[time.Time]) bool {
	if start.IsSome() && t.Before(start.Unwrap()) {
		return false
	}

	if end.IsSome() && t.After(end.Unwrap()) {
		return false
	}

	return true
}
