package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"

	"snipbench/internal/store"
)

func testRuns() []store.Run {
	return []store.Run{
		{
			ID:        1,
			CreatedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
			Kinds:     []string{"instructions"},
			Rows: []store.Row{
				{Label: "sum", ElapsedNs: 1200},
				{Label: "sum-positive", ElapsedNs: 800},
			},
		},
	}
}

func TestHistoryModelView(t *testing.T) {
	m := NewHistoryModel(testRuns())
	view := m.View()

	assert.Contains(t, view, "Benchmark history")
	assert.Contains(t, view, "2026-08-01 12:00:00")
	assert.Contains(t, view, "instructions")
	// Fastest row wins the summary column.
	assert.Contains(t, view, "sum-positive (800 ns)")
}

func TestHistoryModelQuits(t *testing.T) {
	m := NewHistoryModel(testRuns())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	assert.NotNil(t, cmd)
}
