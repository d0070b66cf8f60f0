package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PerformanceSummary is computed once after a replay and never mutated.
type PerformanceSummary struct {
	// RunID identifies the engine run that produced this summary.
	RunID         string    `yaml:"run_id" json:"run_id"`
	Symbol        string    `yaml:"symbol" json:"symbol"`
	EngineVersion string    `yaml:"engine_version" json:"engine_version"`
	Strategy      string    `yaml:"strategy" json:"strategy"`
	StartTime     time.Time `yaml:"start_time" json:"start_time"`
	EndTime       time.Time `yaml:"end_time" json:"end_time"`
	Bars          int       `yaml:"bars" json:"bars"`
	// InitialInvestment is the starting cash.
	InitialInvestment float64 `yaml:"initial_investment" json:"initial_investment"`
	// FinalValue is the last bar's total portfolio value.
	FinalValue float64 `yaml:"final_value" json:"final_value"`
	// TotalReturnPct is (FinalValue/InitialInvestment - 1) * 100.
	TotalReturnPct float64 `yaml:"total_return_pct" json:"total_return_pct"`
	// WinRatio is the percentage of active bars with a positive strategy return; 0 with no active bars.
	WinRatio float64 `yaml:"win_ratio" json:"win_ratio"`
	// WinningBars counts active bars with a positive strategy return.
	WinningBars int `yaml:"winning_bars" json:"winning_bars"`
	// ActiveBars counts bars whose previous signal was Buy.
	ActiveBars int `yaml:"active_bars" json:"active_bars"`
	// BuyAndHoldValue is finalPrice/initialPrice * InitialInvestment.
	BuyAndHoldValue float64 `yaml:"buy_and_hold_value" json:"buy_and_hold_value"`
	// Outperformed is FinalValue > BuyAndHoldValue; a tie did not outperform.
	Outperformed   bool `yaml:"outperformed" json:"outperformed"`
	NumberOfTrades int  `yaml:"number_of_trades" json:"number_of_trades"`
	// MaxDrawdown is the largest peak-to-trough fall of the value trajectory, as a fraction of the peak.
	MaxDrawdown float64 `yaml:"max_drawdown" json:"max_drawdown"`
}

// WriteSummary writes summary to path as YAML.
func WriteSummary(path string, summary PerformanceSummary) error {
	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal performance summary to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write performance summary to file: %w", err)
	}

	return nil
}

// ReadSummary loads a summary previously written by WriteSummary.
func ReadSummary(path string) (PerformanceSummary, error) {
	var summary PerformanceSummary

	data, err := os.ReadFile(path)
	if err != nil {
		return summary, fmt.Errorf("failed to read performance summary: %w", err)
	}

	if err := yaml.Unmarshal(data, &summary); err != nil {
		return summary, fmt.Errorf("failed to unmarshal performance summary: %w", err)
	}

	return summary, nil
}
