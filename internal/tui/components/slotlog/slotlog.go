package slotlog

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/models"
)

// AllocateSlotMsg asks the parent to open the allocation form for a slot.
type AllocateSlotMsg struct {
	Slot models.Slot
}

type TickMsg time.Time

var (
	countdownStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginBottom(1)

	emptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

type Item struct {
	Slot  models.Slot
	Label string
}

func (i Item) Title() string { return i.Label }

func (i Item) Description() string {
	hours := i.Slot.End.Sub(i.Slot.Start).Hours()
	if hours == 1 {
		return "1 hour unlogged"
	}
	return fmt.Sprintf("%g hours unlogged", hours)
}

func (i Item) FilterValue() string { return i.Label }

type KeyMap struct {
	Log key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Log: key.NewBinding(
			key.WithKeys("enter", "l"),
			key.WithHelp("enter", "log slot"),
		),
	}
}

type Model struct {
	list         list.Model
	keys         KeyMap
	nextBoundary time.Time
	now          time.Time
	width        int
	height       int
}

func New(width, height int) Model {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Log}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Log}
	}

	return Model{
		list: l,
		keys: keys,
		now:  time.Now(),
	}
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	// Leave room for the countdown line above the list.
	listHeight := height - 2
	if listHeight < 0 {
		listHeight = 0
	}
	m.list.SetSize(width, listHeight)
}

// SetData replaces the candidate slots and the boundary the countdown runs to.
func (m *Model) SetData(slots []models.Slot, nextBoundary time.Time, settings models.Settings) {
	m.nextBoundary = nextBoundary
	items := make([]list.Item, len(slots))
	for i, s := range slots {
		items[i] = Item{Slot: s, Label: cli.FormatSlotRange(s, settings, m.now)}
	}
	m.list.SetItems(items)
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		m.now = time.Time(msg)
		return m, tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Log) {
			if item, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return AllocateSlotMsg{Slot: item.Slot} }
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	countdown := countdownStyle.Render("Next slot boundary in " + m.formatCountdown())
	if len(m.list.Items()) == 0 {
		return lipgloss.JoinVertical(lipgloss.Left,
			countdown,
			emptyStyle.Render("Nothing to log right now. Come back after the next boundary."),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left, countdown, m.list.View())
}

func (m Model) formatCountdown() string {
	remaining := m.nextBoundary.Sub(m.now)
	if remaining < 0 {
		remaining = 0
	}
	remaining = remaining.Round(time.Second)
	h := int(remaining.Hours())
	min := int(remaining.Minutes()) % 60
	sec := int(remaining.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, min, sec)
}
