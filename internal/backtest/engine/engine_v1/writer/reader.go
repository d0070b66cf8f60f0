package writer

import (
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
	"github.com/rxtech-lab/argo-crossover/internal/types"
	"github.com/rxtech-lab/argo-crossover/pkg/errors"
)

// ReadSummary reads stats.yaml from a result folder.
func ReadSummary(folder string) (types.PerformanceSummary, error) {
	summary, err := types.ReadSummary(filepath.Join(folder, StatsFileName))
	if err != nil {
		return summary, errors.Wrap(errors.ErrCodeResultReadFailed, "failed to read stats", err)
	}

	return summary, nil
}

// ReadTrajectory reads trajectory.csv from a result folder.
func ReadTrajectory(folder string) ([]TrajectoryRow, error) {
	var rows []TrajectoryRow
	if err := readCSV(filepath.Join(folder, TrajectoryFileName), &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// ReadTrades reads trades.csv from a result folder.
func ReadTrades(folder string) ([]TradeRow, error) {
	var rows []TradeRow
	if err := readCSV(filepath.Join(folder, TradesFileName), &rows); err != nil {
		return nil, err
	}

	return rows, nil
}

// FindResultFolders walks root and returns every folder holding a stats.yaml.
func FindResultFolders(root string) ([]string, error) {
	var folders []string

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && d.Name() == StatsFileName {
			folders = append(folders, filepath.Dir(path))
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeResultReadFailed, err, "failed to scan %s", root)
	}

	return folders, nil
}

func readCSV(path string, out any) error {
	file, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeResultReadFailed, err, "failed to open %s", path)
	}
	defer file.Close()

	if err := gocsv.UnmarshalFile(file, out); err != nil {
		// a header-only file is an empty trade log
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}

		return errors.Wrapf(errors.ErrCodeResultReadFailed, err, "failed to parse %s", path)
	}

	return nil
}
