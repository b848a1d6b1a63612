package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/models"
)

type EditSettingsMsg struct{}

type AddCategoryMsg struct{}

type ResetLogsMsg struct{}

type ResetPointsMsg struct{}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(20)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			MarginTop(1)
)

type KeyMap struct {
	Edit        key.Binding
	Add         key.Binding
	ResetLogs   key.Binding
	ResetPoints key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit settings"),
		),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add category"),
		),
		ResetLogs: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "reset recent logs"),
		),
		ResetPoints: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "reset points"),
		),
	}
}

type Model struct {
	settings   models.Settings
	categories []models.Category
	keys       KeyMap
	width      int
	height     int
}

func New(settings models.Settings, categories []models.Category, width, height int) Model {
	return Model{
		settings:   settings,
		categories: categories,
		keys:       DefaultKeyMap(),
		width:      width,
		height:     height,
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) SetData(settings models.Settings, categories []models.Category) {
	m.settings = settings
	m.categories = categories
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Edit):
			return m, func() tea.Msg { return EditSettingsMsg{} }
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddCategoryMsg{} }
		case key.Matches(msg, m.keys.ResetLogs):
			return m, func() tea.Msg { return ResetLogsMsg{} }
		case key.Matches(msg, m.keys.ResetPoints):
			return m, func() tea.Msg { return ResetPointsMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n")

	clock := "12-hour"
	if m.settings.Display24h {
		clock = "24-hour"
	}
	notifications := "off"
	if m.settings.NotificationsEnabled {
		notifications = "on"
	}
	timezone := m.settings.Timezone
	if timezone == "" {
		timezone = "Local"
	}

	rows := []struct {
		label string
		value string
	}{
		{"Slot interval", cli.FormatInterval(m.settings.IntervalHours)},
		{"Clock", clock},
		{"Notifications", notifications},
		{"Timezone", timezone},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render(row.label), valueStyle.Render(row.value)))
	}

	b.WriteString(sectionStyle.Render("Categories"))
	b.WriteString("\n")
	for _, c := range m.categories {
		swatch := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color.Hex())).Render("■")
		name := c.Name
		if c.IsDeleted() {
			name += " (removed)"
		}
		b.WriteString(fmt.Sprintf("  %s %s %s\n",
			swatch,
			labelStyle.Render(name),
			valueStyle.Render(fmt.Sprintf("%g pts/min", c.PointsPerMinute)),
		))
	}

	b.WriteString(hintStyle.Render("e edit settings · a add category · R reset recent logs · P reset points"))

	return b.String()
}
