package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/jmuslu/prodlog/internal/app"
	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/ledger"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/tui/components/completed"
	"github.com/jmuslu/prodlog/internal/tui/components/dashboard"
	"github.com/jmuslu/prodlog/internal/tui/components/settings"
	"github.com/jmuslu/prodlog/internal/tui/components/slotlog"
)

type Model struct {
	app            *app.App
	state          constants.SessionState
	previousState  constants.SessionState
	keys           KeyMap
	help           help.Model
	logModel       slotlog.Model
	completedModel completed.Model
	dashboardModel dashboard.Model
	settingsModel  settings.Model
	form           *huh.Form
	allocationForm *AllocationFormModel
	settingsForm   *SettingsFormModel
	categoryForm   *CategoryFormModel
	allocatingSlot *models.Slot
	resetTarget    string // "logs" or "points" while confirming
	nextBoundary   time.Time
	formError      string
	quitting       bool
	width          int
	height         int
}

func NewModel(a *app.App) Model {
	now := time.Now()
	m := Model{
		app:            a,
		state:          constants.StateLog,
		keys:           DefaultKeyMap(),
		help:           help.New(),
		logModel:       slotlog.New(0, 0),
		completedModel: completed.New(0, 0),
		dashboardModel: dashboard.New(),
		settingsModel:  settings.New(a.Settings(), nil, 0, 0),
	}
	m.refreshData(now)
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case constants.StateLog:
		keys = append(keys, m.logModel.Keys().Log)
	case constants.StateSettings:
		sk := m.settingsModel.Keys()
		keys = append(keys, sk.Edit, sk.Add)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}

	var actions []key.Binding
	switch m.state {
	case constants.StateLog:
		actions = []key.Binding{m.logModel.Keys().Log}
	case constants.StateSettings:
		sk := m.settingsModel.Keys()
		actions = []key.Binding{sk.Edit, sk.Add, sk.ResetLogs, sk.ResetPoints}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return m.logModel.Init()
}

// refreshData recomputes every tab's view data from the app. Candidates and
// the next boundary are derived, so any commit or settings change invalidates
// all of it at once.
func (m *Model) refreshData(now time.Time) {
	appSettings := m.app.Settings()
	categories := m.app.ActiveCategories(now)

	m.nextBoundary = m.app.NextBoundary(now)
	m.logModel.SetData(m.app.CandidateSlots(now), m.nextBoundary, appSettings)
	m.completedModel.SetEntries(completedEntries(m.app, now))

	weekly, days, catRows := dashboardData(m.app, now)
	m.dashboardModel.SetData(weekly, days, catRows)

	m.settingsModel.SetData(appSettings, categories)
}

func completedEntries(a *app.App, now time.Time) []completed.Entry {
	appSettings := a.Settings()
	categories := a.ActiveCategories(now)
	byID := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		byID[c.ID] = c
	}

	slots := a.CompletedSlots(now)
	entries := make([]completed.Entry, 0, len(slots))
	for _, slot := range slots {
		entries = append(entries, completed.Entry{
			Range:  cli.FormatSlotRange(slot, appSettings, now),
			Detail: allocationSummary(slot, byID),
			Points: ledger.PointsForSlot(slot, categories),
		})
	}
	return entries
}

// allocationSummary renders a slot's shares largest first, ties by name.
func allocationSummary(slot models.Slot, byID map[string]models.Category) string {
	type share struct {
		name string
		pct  float64
	}
	shares := make([]share, 0, len(slot.Allocation))
	for id, pct := range slot.Allocation {
		name := id
		if c, ok := byID[id]; ok {
			name = c.Name
		}
		shares = append(shares, share{name: name, pct: pct})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].pct != shares[j].pct {
			return shares[i].pct > shares[j].pct
		}
		return shares[i].name < shares[j].name
	})

	parts := make([]string, len(shares))
	for i, s := range shares {
		parts[i] = fmt.Sprintf("%s %.0f%%", s.name, s.pct)
	}
	return strings.Join(parts, " / ")
}

func dashboardData(a *app.App, now time.Time) (int, []dashboard.DayRow, []dashboard.CategoryRow) {
	days := make([]dashboard.DayRow, 0, 7)
	for i := 6; i >= 0; i-- {
		d := now.AddDate(0, 0, -i)
		label := d.Format("Mon Jan 2")
		if i == 0 {
			label = "Today"
		}
		days = append(days, dashboard.DayRow{Label: label, Points: a.DailyPoints(d)})
	}

	categories := a.ActiveCategories(now)
	weekTotals := make(map[string]int, len(categories))
	for i := 0; i < 7; i++ {
		d := now.AddDate(0, 0, -i)
		for _, cp := range a.CategoryPoints(d, now) {
			weekTotals[cp.Category.ID] += cp.Points
		}
	}

	catRows := make([]dashboard.CategoryRow, 0, len(categories))
	for _, c := range categories {
		catRows = append(catRows, dashboard.CategoryRow{
			Name:   c.Name,
			Hex:    c.Color.Hex(),
			Points: weekTotals[c.ID],
		})
	}
	sort.Slice(catRows, func(i, j int) bool {
		if catRows[i].Points != catRows[j].Points {
			return catRows[i].Points > catRows[j].Points
		}
		return catRows[i].Name < catRows[j].Name
	})

	return a.WeeklyPoints(now), days, catRows
}
