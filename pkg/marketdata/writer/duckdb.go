package writer

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/marcboeker/go-duckdb"
	"github.com/rxtech-lab/argo-crossover/internal/logger"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
	"go.uber.org/zap"
)

// Format is the export format of a DuckDBWriter.
type Format string

const (
	FormatParquet Format = "PARQUET"
	FormatCSV     Format = "CSV"
)

// DuckDBWriter stages bars in an in-memory DuckDB table and exports them with COPY.
type DuckDBWriter struct {
	db         *sql.DB
	tx         *sql.Tx
	stmt       *sql.Stmt
	outputPath string
	format     Format
	logger     *logger.Logger
}

// NewDuckDBWriter creates a writer exporting Parquet to outputPath.
func NewDuckDBWriter(outputPath string, log *logger.Logger) MarketDataWriter {
	return NewDuckDBWriterWithFormat(outputPath, FormatParquet, log)
}

// NewDuckDBWriterWithFormat creates a writer exporting outputPath in the given format.
func NewDuckDBWriterWithFormat(outputPath string, format Format, log *logger.Logger) MarketDataWriter {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &DuckDBWriter{
		outputPath: outputPath,
		format:     format,
		logger:     log,
	}
}

// Initialize opens the database, creates the staging table and prepares the insert inside a transaction.
func (w *DuckDBWriter) Initialize() (err error) {
	w.db, err = sql.Open("duckdb", ":memory:")
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to open DuckDB connection", err)
	}

	_, err = w.db.Exec(`
		CREATE TABLE IF NOT EXISTS market_data (
			time TIMESTAMP,
			symbol TEXT,
			open DOUBLE,
			high DOUBLE,
			low DOUBLE,
			close DOUBLE,
			volume DOUBLE
		)
	`)
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to create table", err)
	}

	w.tx, err = w.db.Begin()
	if err != nil {
		w.db.Close()

		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to begin transaction", err)
	}

	w.stmt, err = w.tx.Prepare(`
		INSERT INTO market_data (time, symbol, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		w.db.Close()

		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to prepare statement", err)
	}

	return nil
}

// Write stages a single bar.
func (w *DuckDBWriter) Write(data types.MarketData) error {
	if w.stmt == nil {
		return errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	_, err := w.stmt.Exec(data.Time, data.Symbol, data.Open, data.High, data.Low, data.Close, data.Volume)
	if err != nil {
		return errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to insert bar", err)
	}

	return nil
}

// Finalize commits the transaction and exports the table ordered by symbol and time.
func (w *DuckDBWriter) Finalize() (string, error) {
	if w.tx == nil {
		return "", errors.New(errors.ErrCodeResultWriteFailed, "writer not initialized")
	}

	if err := w.tx.Commit(); err != nil {
		w.tx.Rollback()
		w.tx = nil

		return "", errors.Wrap(errors.ErrCodeResultWriteFailed, "failed to commit transaction", err)
	}

	w.tx = nil

	options := "FORMAT PARQUET"
	if w.format == FormatCSV {
		options = "FORMAT CSV, HEADER"
	}

	query := fmt.Sprintf(`COPY (SELECT * FROM market_data ORDER BY symbol, time) TO '%s' (%s)`,
		strings.ReplaceAll(w.outputPath, "'", "''"), options)
	if _, err := w.db.Exec(query); err != nil {
		return "", errors.Wrapf(errors.ErrCodeResultWriteFailed, err, "failed to export to %s", w.outputPath)
	}

	w.logger.Debug("Exported market data", zap.String("path", w.outputPath), zap.String("format", string(w.format)))

	return w.outputPath, nil
}

// GetOutputPath implements MarketDataWriter.
func (w *DuckDBWriter) GetOutputPath() string {
	return w.outputPath
}

// Close releases the statement and connection, rolling back an unfinished transaction.
func (w *DuckDBWriter) Close() error {
	var closeErrors []string

	if w.stmt != nil {
		if err := w.stmt.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close statement: %v", err))
		}

		w.stmt = nil
	}

	if w.tx != nil {
		if err := w.tx.Rollback(); err != nil {
			w.logger.Warn("Failed to rollback transaction during close", zap.Error(err))
		}

		w.tx = nil
	}

	if w.db != nil {
		if err := w.db.Close(); err != nil {
			closeErrors = append(closeErrors, fmt.Sprintf("failed to close db connection: %v", err))
		}

		w.db = nil
	}

	if len(closeErrors) > 0 {
		return errors.New(errors.ErrCodeResultWriteFailed, "errors occurred during close: "+strings.Join(closeErrors, "; "))
	}

	return nil
}
