package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxBarWidth = 30

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(18)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1)

	barStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62"))
)

// DayRow is one day's total in the trailing week.
type DayRow struct {
	Label  string
	Points int
}

// CategoryRow is a category's trailing-week total with its display color.
type CategoryRow struct {
	Name   string
	Hex    string
	Points int
}

type Model struct {
	weekly     int
	days       []DayRow
	categories []CategoryRow
	width      int
	height     int
}

func New() Model {
	return Model{}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetData(weekly int, days []DayRow, categories []CategoryRow) {
	m.weekly = weekly
	m.days = days
	m.categories = categories
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Last 7 days: %s points", valueStyle.Render(fmt.Sprintf("%d", m.weekly)))))
	b.WriteString("\n")

	maxDay := 0
	for _, d := range m.days {
		if d.Points > maxDay {
			maxDay = d.Points
		}
	}
	for _, d := range m.days {
		bar := barStyle.Render(renderBar(d.Points, maxDay))
		b.WriteString(fmt.Sprintf("%s %s %d\n", labelStyle.Render(d.Label), bar, d.Points))
	}

	b.WriteString(sectionStyle.Render("By category"))
	b.WriteString("\n")

	maxCat := 0
	for _, c := range m.categories {
		if c.Points > maxCat {
			maxCat = c.Points
		}
	}
	for _, c := range m.categories {
		bar := lipgloss.NewStyle().
			Foreground(lipgloss.Color(c.Hex)).
			Render(renderBar(c.Points, maxCat))
		b.WriteString(fmt.Sprintf("%s %s %d\n", labelStyle.Render(c.Name), bar, c.Points))
	}

	return b.String()
}

// renderBar scales points against max into at most maxBarWidth cells. Nonzero
// values always get at least one cell.
func renderBar(points, max int) string {
	if points <= 0 || max <= 0 {
		return ""
	}
	width := points * maxBarWidth / max
	if width < 1 {
		width = 1
	}
	return strings.Repeat("█", width)
}
