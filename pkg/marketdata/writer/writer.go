package writer

import (
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// MarketDataWriter persists bars to a file a data source can read back.
type MarketDataWriter interface {
	// Initialize sets up the writer, creating its staging table.
	Initialize() error
	// Write stages a single bar.
	Write(data types.MarketData) error
	// Finalize commits staged bars and exports the output file.
	Finalize() (outputPath string, err error)
	// Close releases any resources held by the writer.
	Close() error
	// GetOutputPath returns the configured output file path.
	GetOutputPath() string
}

// WriteAll stages every bar through w and finalizes it. The writer is closed on return.
func WriteAll(w MarketDataWriter, bars []types.MarketData) (string, error) {
	defer w.Close()

	if err := w.Initialize(); err != nil {
		return "", err
	}

	for _, bar := range bars {
		if err := w.Write(bar); err != nil {
			return "", err
		}
	}

	return w.Finalize()
}
