package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-jiazi/internal/calendar"
	"github.com/litescript/ls-jiazi/internal/cycle"
)

// Styles for the cycle table
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	rowStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	selectedRowStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57"))

	currentYearStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("46"))
)

// cycleColumns is how many columns the 60 entries are laid out in.
const cycleColumns = 4

// CycleModel shows the 60-entry jiazi table with the cursor used by [ and ].
type CycleModel struct {
	width   int
	height  int
	entries []cycle.Entry
	cursor  int
	current calendar.Label
	refYear int
}

// NewCycleModel creates a new cycle table model.
func NewCycleModel() CycleModel {
	return CycleModel{}
}

// SetSize updates the viewport size.
func (m CycleModel) SetSize(width, height int) CycleModel {
	m.width = width
	m.height = height
	return m
}

// UpdateData sets the table, the cursor and the simulated year's label.
func (m CycleModel) UpdateData(entries []cycle.Entry, cursor int, current calendar.Label) CycleModel {
	m.entries = entries
	m.cursor = cursor
	m.current = current
	return m
}

// WithReferenceYear sets the year the anchor years are counted back from.
func (m CycleModel) WithReferenceYear(year int) CycleModel {
	m.refYear = year
	return m
}

// Update handles messages. Cursor movement goes through the root model so
// that it also moves simulated time.
func (m CycleModel) Update(msg tea.Msg) (CycleModel, tea.Cmd) {
	return m, nil
}

// View renders the cycle table.
func (m CycleModel) View() string {
	if len(m.entries) == 0 {
		return "No cycle table"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("六十甲子 Sexagenary Cycle"))
	if m.refYear != 0 {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(fmt.Sprintf("anchors ≤ %d", m.refYear)))
	}
	b.WriteString("\n\n")

	rows := (len(m.entries) + cycleColumns - 1) / cycleColumns
	var header []string
	for c := 0; c < cycleColumns; c++ {
		header = append(header, headerStyle.Render(fmt.Sprintf("%-2s %-4s %5s %-2s", "#", "Name", "Year", "")))
	}
	b.WriteString(strings.Join(header, " "))
	b.WriteString("\n")

	for r := 0; r < rows; r++ {
		var cells []string
		for c := 0; c < cycleColumns; c++ {
			i := c*rows + r
			if i >= len(m.entries) {
				continue
			}
			cells = append(cells, m.renderCell(m.entries[i]))
		}
		b.WriteString(strings.Join(cells, " "))
		b.WriteString("\n")
	}

	if m.cursor >= 0 && m.cursor < len(m.entries) {
		e := m.entries[m.cursor]
		elem, _ := cycle.ElementOf(e.Name)
		b.WriteString("\n")
		b.WriteString(selectedRowStyle.Render(fmt.Sprintf(" %s %d · %s · %s ",
			e.Name, e.AnchorYear, elem, cycle.ResolveBody(e.Name).DisplayName())))
	}

	return b.String()
}

func (m CycleModel) renderCell(e cycle.Entry) string {
	elem, _ := cycle.ElementOf(e.Name)
	text := fmt.Sprintf(" %2d %s %5d %s ", e.CycleIndex, e.Name, e.AnchorYear, elem)
	switch {
	case e.CycleIndex == m.cursor:
		return selectedRowStyle.Render(text)
	case e.Name == m.current:
		return currentYearStyle.Render(text)
	default:
		return rowStyle.Render(text)
	}
}

// Cursor returns the highlighted entry index.
func (m CycleModel) Cursor() int {
	return m.cursor
}
