package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-crossover/internal/backtest/engine/engine_v1/writer"
)

// Application states.
const (
	StateRunSelect = iota
	StateRunDisplay
)

// Model is the main Bubble Tea model for browsing backtest results.
type Model struct {
	root            string
	state           int
	runList         list.Model
	trajectoryTable table.Model
	tradesTable     table.Model
	showTrades      bool
	run             *RunLoadedMsg
	err             error
	width           int
	height          int
}

// NewModel creates a Model browsing the result folders below root.
func NewModel(root string) Model {
	return Model{
		root:            root,
		state:           StateRunSelect,
		runList:         NewRunList(),
		trajectoryTable: NewTrajectoryTable(),
		tradesTable:     NewTradesTable(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return loadRuns(m.root)
}

func loadRuns(root string) tea.Cmd {
	return func() tea.Msg {
		folders, err := writer.FindResultFolders(root)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		return RunsLoadedMsg{Folders: folders}
	}
}

func loadRun(folder string) tea.Cmd {
	return func() tea.Msg {
		summary, err := writer.ReadSummary(folder)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		trajectory, err := writer.ReadTrajectory(folder)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		trades, err := writer.ReadTrades(folder)
		if err != nil {
			return LoadErrorMsg{Err: err}
		}

		return RunLoadedMsg{
			Folder:     folder,
			Summary:    summary,
			Trajectory: trajectory,
			Trades:     trades,
		}
	}
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "esc":
			if m.state == StateRunDisplay {
				m.state = StateRunSelect
				m.run = nil
				m.err = nil
				m.showTrades = false
			}

			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.runList.SetSize(msg.Width, msg.Height-4)
		m.trajectoryTable.SetWidth(msg.Width)
		m.trajectoryTable.SetHeight(msg.Height - 14)
		m.tradesTable.SetWidth(msg.Width)
		m.tradesTable.SetHeight(msg.Height - 14)

		return m, nil

	case RunsLoadedMsg:
		cmd := m.runList.SetItems(RunItems(m.root, msg.Folders))
		return m, cmd

	case RunLoadedMsg:
		m.run = &msg
		m.err = nil
		m.state = StateRunDisplay
		m.showTrades = false
		m.trajectoryTable.SetRows(TrajectoryRows(msg.Trajectory))
		m.trajectoryTable.GotoTop()
		m.tradesTable.SetRows(TradeRows(msg.Trades))
		m.tradesTable.GotoTop()

		return m, nil

	case LoadErrorMsg:
		m.err = msg.Err
		return m, nil
	}

	switch m.state {
	case StateRunSelect:
		return m.updateRunSelect(msg)
	case StateRunDisplay:
		return m.updateRunDisplay(msg)
	}

	return m, nil
}

func (m Model) updateRunSelect(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "enter" {
		if item, ok := m.runList.SelectedItem().(runItem); ok {
			return m, loadRun(item.folder)
		}
	}

	var cmd tea.Cmd
	m.runList, cmd = m.runList.Update(msg)

	return m, cmd
}

func (m Model) updateRunDisplay(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "tab" {
		m.showTrades = !m.showTrades
		return m, nil
	}

	var cmd tea.Cmd
	if m.showTrades {
		m.tradesTable, cmd = m.tradesTable.Update(msg)
	} else {
		m.trajectoryTable, cmd = m.trajectoryTable.Update(msg)
	}

	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	var s strings.Builder

	switch m.state {
	case StateRunSelect:
		if m.err != nil {
			s.WriteString(ErrorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
			s.WriteString("\n\n")
		}

		if len(m.runList.Items()) == 0 {
			s.WriteString(TitleStyle.Render("Select Backtest Run"))
			s.WriteString("\n\n")
			s.WriteString(fmt.Sprintf("No results found in %s\n", m.root))
		} else {
			s.WriteString(m.runList.View())
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("Press Enter to open, q to quit"))

	case StateRunDisplay:
		if m.run == nil {
			break
		}

		s.WriteString(TitleStyle.Render(m.run.Folder))
		s.WriteString("\n\n")
		s.WriteString(RenderSummary(m.run.Summary))
		s.WriteString("\n\n")

		if m.showTrades {
			s.WriteString(TitleStyle.Render(fmt.Sprintf("Trades (%d)", len(m.run.Trades))))
			s.WriteString("\n")
			s.WriteString(m.tradesTable.View())
		} else {
			s.WriteString(TitleStyle.Render(fmt.Sprintf("Trajectory (%d bars)", len(m.run.Trajectory))))
			s.WriteString("\n")
			s.WriteString(m.trajectoryTable.View())
		}

		s.WriteString("\n")
		s.WriteString(HelpStyle.Render("tab: trajectory/trades | Esc: back | q: quit"))
	}

	return s.String()
}
