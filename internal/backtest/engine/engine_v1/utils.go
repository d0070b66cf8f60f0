package engine

import (
	"fmt"
	"path/filepath"
	"strings"
)

// fileStem is the base name of path without its extension.
func fileStem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// uniqueStems returns the file stem of every path. Stems shared by several paths (a/x.yaml and
// b/x.yaml) get the path's index appended so each path owns its own result folder.
func uniqueStems(paths []string) []string {
	stems := make([]string, len(paths))
	counts := make(map[string]int, len(paths))

	for i, path := range paths {
		stems[i] = fileStem(path)
		counts[stems[i]]++
	}

	used := make(map[string]bool, len(paths))

	for _, stem := range stems {
		if counts[stem] == 1 {
			used[stem] = true
		}
	}

	for i, stem := range stems {
		if counts[stem] == 1 {
			continue
		}

		name := fmt.Sprintf("%s_%d", stem, i)
		for used[name] {
			name = fmt.Sprintf("%s_%d", name, i)
		}

		used[name] = true
		stems[i] = name
	}

	return stems
}

// getResultFolder lays out <results>/<strategy>/<config>/[<start>_<end>/]<data>[_<symbol>].
// configName and dataName are folder names, see uniqueStems.
func getResultFolder(configName string, dataName string, b *BacktestEngineV1, strategyName string) string {
	// Create base folders for strategy and config
	strategyFolder := filepath.Join(b.resultsFolder, strategyName)
	configFolder := filepath.Join(strategyFolder, configName)

	// Create data folder with time range if specified
	var dataFolder string

	if b.config.StartTime.IsSome() || b.config.EndTime.IsSome() {
		startTimeStr := "all"
		endTimeStr := "all"

		if b.config.StartTime.IsSome() {
			startTimeStr = b.config.StartTime.Unwrap().Format("20060102")
		}

		if b.config.EndTime.IsSome() {
			endTimeStr = b.config.EndTime.Unwrap().Format("20060102")
		}

		timeRange := fmt.Sprintf("%s_%s", startTimeStr, endTimeStr)
		dataFolder = filepath.Join(configFolder, timeRange)
	} else {
		dataFolder = configFolder
	}

	// Add data file name as the final folder
	dataFileName := dataName

	if b.config.Symbol.IsSome() {
		dataFileName = fmt.Sprintf("%s_%s", dataFileName, b.config.Symbol.Unwrap())
	}

	return filepath.Join(dataFolder, dataFileName)
}
