package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(20)
	goodStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	badStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

func renderSummary(summary types.PerformanceSummary, folder string) string {
	verdict := badStyle.Render("underperformed buy and hold")
	if summary.Outperformed {
		verdict = goodStyle.Render("outperformed buy and hold")
	}

	rows := [][2]string{
		{"Symbol", summary.Symbol},
		{"Strategy", summary.Strategy},
		{"Period", fmt.Sprintf("%s to %s (%d bars)", summary.StartTime.Format("2006-01-02"), summary.EndTime.Format("2006-01-02"), summary.Bars)},
		{"Initial investment", fmt.Sprintf("%.2f", summary.InitialInvestment)},
		{"Final value", fmt.Sprintf("%.2f (%+.2f%%)", summary.FinalValue, summary.TotalReturnPct)},
		{"Buy and hold", fmt.Sprintf("%.2f", summary.BuyAndHoldValue)},
		{"Win ratio", fmt.Sprintf("%.2f%% (%d/%d bars)", summary.WinRatio, summary.WinningBars, summary.ActiveBars)},
		{"Trades", fmt.Sprintf("%d", summary.NumberOfTrades)},
		{"Max drawdown", fmt.Sprintf("%.2f%%", summary.MaxDrawdown*100)},
		{"Results", folder},
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(verdict))

	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(row[1])
	}

	return boxStyle.Render(b.String())
}
