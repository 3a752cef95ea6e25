// Package ui contains the interactive history browser.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snipbench/internal/store"
)

var historyTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("62"))

type historyModel struct {
	table  table.Model
	width  int
	height int
}

// NewHistoryModel builds a table over saved runs, newest last.
func NewHistoryModel(runs []store.Run) historyModel {
	columns := []table.Column{
		{Title: "RUN", Width: 6},
		{Title: "WHEN", Width: 22},
		{Title: "SNIPPETS", Width: 10},
		{Title: "KINDS", Width: 30},
		{Title: "FASTEST", Width: 30},
	}

	rows := make([]table.Row, 0, len(runs))
	for _, run := range runs {
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", run.ID),
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			fmt.Sprintf("%d", len(run.Rows)),
			strings.Join(run.Kinds, ","),
			fastestLabel(run),
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(15),
		table.WithFocused(true),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return historyModel{table: t}
}

func fastestLabel(run store.Run) string {
	if len(run.Rows) == 0 {
		return ""
	}
	best := run.Rows[0]
	for _, r := range run.Rows[1:] {
		if r.ElapsedNs < best.ElapsedNs {
			best = r
		}
	}
	return fmt.Sprintf("%s (%d ns)", best.Label, best.ElapsedNs)
}

func (m historyModel) Init() tea.Cmd { return nil }

func (m historyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetWidth(m.width)
		m.table.SetHeight(m.height - 4)
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	}
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m historyModel) View() string {
	var s strings.Builder
	s.WriteString(historyTitleStyle.Render(" Benchmark history") + "\n")
	s.WriteString("press 'q' to quit\n\n")
	s.WriteString(m.table.View())
	return s.String()
}

// StartHistoryBrowser runs the interactive history table.
var StartHistoryBrowser = func(runs []store.Run) error {
	p := tea.NewProgram(NewHistoryModel(runs), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
