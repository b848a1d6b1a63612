package completed

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var emptyStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")).
	Italic(true)

// Entry is one logged slot, pre-formatted by the parent model.
type Entry struct {
	Range  string
	Detail string
	Points int
}

type Item struct {
	Entry Entry
}

func (i Item) Title() string { return i.Entry.Range }

func (i Item) Description() string {
	return fmt.Sprintf("%s  (%d pts)", i.Entry.Detail, i.Entry.Points)
}

func (i Item) FilterValue() string { return i.Entry.Range }

type Model struct {
	list   list.Model
	width  int
	height int
}

func New(width, height int) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	return Model{list: l}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}

func (m *Model) SetEntries(entries []Entry) {
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = Item{Entry: e}
	}
	m.list.SetItems(items)
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return emptyStyle.Render("No slots logged today.")
	}
	return m.list.View()
}
