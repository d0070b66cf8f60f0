package main

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/writer"
	"github.com/rxtech-lab/argo-crossover/internal/types"
)

// runItem implements list.Item for one result folder.
type runItem struct {
	name   string
	folder string
}

func (i runItem) Title() string       { return i.name }
func (i runItem) Description() string { return i.folder }
func (i runItem) FilterValue() string { return i.name }

// NewRunList creates the list of result folders.
func NewRunList() list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true

	l := list.New(nil, delegate, 0, 0)
	l.Title = "Select Backtest Run"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)

	return l
}

// RunItems names every folder by its path below root: strategy/config/[period/]data file.
func RunItems(root string, folders []string) []list.Item {
	items := make([]list.Item, 0, len(folders))

	for _, folder := range folders {
		name, err := filepath.Rel(root, folder)
		if err != nil {
			name = folder
		}

		items = append(items, runItem{name: filepath.ToSlash(name), folder: folder})
	}

	return items
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)

	t.SetStyles(s)

	return t
}

// NewTrajectoryTable creates the per-bar table.
func NewTrajectoryTable() table.Model {
	return newTable([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Price", Width: 10},
		{Title: "Fast", Width: 10},
		{Title: "Slow", Width: 10},
		{Title: "Signal", Width: 6},
		{Title: "Action", Width: 6},
		{Title: "Total", Width: 12},
		{Title: "Daily", Width: 12},
		{Title: "Strategy", Width: 12},
	})
}

// NewTradesTable creates the trade log table.
func NewTradesTable() table.Model {
	return newTable([]table.Column{
		{Title: "Date", Width: 10},
		{Title: "Action", Width: 6},
		{Title: "Price", Width: 10},
		{Title: "Shares", Width: 20},
		{Title: "Value", Width: 12},
		{Title: "Cash After", Width: 12},
	})
}

// TrajectoryRows converts trajectory CSV rows to table rows.
func TrajectoryRows(rows []writer.TrajectoryRow) []table.Row {
	out := make([]table.Row, 0, len(rows))

	for _, r := range rows {
		action := r.Action
		if action == string(types.TradeActionNone) {
			action = ""
		}

		out = append(out, table.Row{
			formatDate(r.Time),
			r.Price,
			r.Fast,
			r.Slow,
			r.Signal,
			action,
			r.TotalValue,
			FormatReturn(r.DailyReturn),
			FormatReturn(r.StrategyReturn),
		})
	}

	return out
}

// TradeRows converts trade CSV rows to table rows.
func TradeRows(rows []writer.TradeRow) []table.Row {
	out := make([]table.Row, 0, len(rows))

	for _, r := range rows {
		out = append(out, table.Row{
			formatDate(r.Time),
			r.Action,
			r.Price,
			r.Shares,
			r.Value,
			r.CashAfter,
		})
	}

	return out
}

// RenderSummary renders the headline numbers of a run.
func RenderSummary(summary types.PerformanceSummary) string {
	verdict := "underperformed buy and hold"
	if summary.Outperformed {
		verdict = "outperformed buy and hold"
	}

	lines := [][2]string{
		{"Strategy", summary.Strategy},
		{"Symbol", summary.Symbol},
		{"Final value", fmt.Sprintf("%.2f (%+.2f%%)", summary.FinalValue, summary.TotalReturnPct)},
		{"Buy and hold", fmt.Sprintf("%.2f, %s", summary.BuyAndHoldValue, verdict)},
		{"Win ratio", fmt.Sprintf("%.2f%% (%d/%d bars)", summary.WinRatio, summary.WinningBars, summary.ActiveBars)},
		{"Trades", fmt.Sprintf("%d", summary.NumberOfTrades)},
		{"Max drawdown", fmt.Sprintf("%.2f%%", summary.MaxDrawdown*100)},
	}

	rendered := make([]string, len(lines))
	for i, line := range lines {
		rendered[i] = LabelStyle.Render(line[0]) + line[1]
	}

	return strings.Join(rendered, "\n")
}

func formatDate(value string) string {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}

	return t.Format("2006-01-02")
}
