package main

import (
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/writer"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// RunsLoadedMsg carries the result folders found under the results root.
type RunsLoadedMsg struct {
	Folders []string
}

// RunLoadedMsg carries the contents of one result folder.
type RunLoadedMsg struct {
	Folder     string
	Summary    types.PerformanceSummary
	Trajectory []writer.TrajectoryRow
	Trades     []writer.TradeRow
}

// LoadErrorMsg indicates a result folder could not be read.
type LoadErrorMsg struct {
	Err error
}
