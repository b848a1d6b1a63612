package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/jmuslu/prodlog/internal/cli"
	"github.com/jmuslu/prodlog/internal/constants"
	"github.com/jmuslu/prodlog/internal/models"
	"github.com/jmuslu/prodlog/internal/tui/components/settings"
	"github.com/jmuslu/prodlog/internal/tui/components/slotlog"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Handle Allocating State
	if m.state == constants.StateAllocating {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.formError = ""
			m.state = constants.StateLog
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			allocation, err := m.allocationForm.Allocation()
			if err != nil {
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			if result := m.app.CommitSlot(*m.allocatingSlot, allocation); result.HasConflicts() {
				m.formError = strings.TrimSpace(result.FormatReport())
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.formError = ""
			m.allocatingSlot = nil
			m.refreshData(time.Now())
			m.state = constants.StateLog
		case huh.StateAborted:
			m.formError = ""
			m.state = constants.StateLog
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Add Category State
	if m.state == constants.StateAddCategory {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.formError = ""
			m.state = constants.StateSettings
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			color, err := models.ParseHexColor(strings.TrimSpace(m.categoryForm.Color))
			if err != nil {
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			points, err := parsePoints(m.categoryForm.Points)
			if err != nil {
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			name := strings.TrimSpace(m.categoryForm.Name)
			if _, result := m.app.AddCategory(name, color, points); result.HasConflicts() {
				m.formError = strings.TrimSpace(result.FormatReport())
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.formError = ""
			m.refreshData(time.Now())
			m.state = constants.StateSettings
		case huh.StateAborted:
			m.formError = ""
			m.state = constants.StateSettings
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Edit Settings State
	if m.state == constants.StateEditSettings {
		if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
			m.formError = ""
			m.state = constants.StateSettings
			return m, nil
		}

		form, cmd := m.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			m.form = f
		}
		cmds = append(cmds, cmd)

		switch m.form.State {
		case huh.StateCompleted:
			newSettings, err := m.settingsForm.Apply(m.app.Settings())
			if err != nil {
				m.formError = err.Error()
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			if result := m.app.UpdateSettings(newSettings); result.HasConflicts() {
				m.formError = strings.TrimSpace(result.FormatReport())
				m.form.State = huh.StateNormal
				return m, tea.Batch(cmds...)
			}
			m.formError = ""
			m.refreshData(time.Now())
			m.state = constants.StateSettings
		case huh.StateAborted:
			m.formError = ""
			m.state = constants.StateSettings
		}
		return m, tea.Batch(cmds...)
	}

	// Handle Confirm Reset State
	if m.state == constants.StateConfirmReset {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch msg.String() {
			case "y", "Y":
				now := time.Now()
				if m.resetTarget == "logs" {
					m.app.ResetRecentLogs(now)
				} else {
					m.app.ResetPoints()
				}
				m.refreshData(now)
				m.state = m.previousState
				m.resetTarget = ""
			case "n", "N", "esc", "q":
				m.state = m.previousState
				m.resetTarget = ""
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// Approximate height for tabs + help.
		contentHeight := msg.Height - 4

		h, v := docStyle.GetFrameSize()
		m.logModel.SetSize(msg.Width-h, contentHeight-v)
		m.completedModel.SetSize(msg.Width-h, contentHeight-v)
		m.dashboardModel.SetSize(msg.Width-h, contentHeight-v)
		m.settingsModel.SetSize(msg.Width-h, contentHeight-v)

	case slotlog.TickMsg:
		// Display tick: the countdown rerenders every second, and crossing
		// the boundary regenerates the candidate list.
		now := time.Time(msg)
		if !m.nextBoundary.IsZero() && !now.Before(m.nextBoundary) {
			m.refreshData(now)
		}
		var cmd tea.Cmd
		m.logModel, cmd = m.logModel.Update(msg)
		return m, cmd

	case slotlog.AllocateSlotMsg:
		now := time.Now()
		categories := m.app.ActiveCategories(now)
		if len(categories) == 0 {
			m.formError = "No categories available. Add one from the Settings tab."
			return m, nil
		}
		slot := msg.Slot
		m.allocatingSlot = &slot
		m.allocationForm = newAllocationFormModel(categories)
		m.form = newAllocationForm(m.allocationForm, cli.FormatSlotRange(slot, m.app.Settings(), now))
		m.formError = ""
		m.state = constants.StateAllocating
		return m, m.form.Init()

	case settings.EditSettingsMsg:
		m.settingsForm = newSettingsFormModel(m.app.Settings())
		m.form = newSettingsForm(m.settingsForm)
		m.formError = ""
		m.state = constants.StateEditSettings
		return m, m.form.Init()

	case settings.AddCategoryMsg:
		m.categoryForm = newCategoryFormModel()
		m.form = newCategoryForm(m.categoryForm)
		m.formError = ""
		m.state = constants.StateAddCategory
		return m, m.form.Init()

	case settings.ResetLogsMsg:
		m.resetTarget = "logs"
		m.previousState = m.state
		m.state = constants.StateConfirmReset
		return m, nil

	case settings.ResetPointsMsg:
		m.resetTarget = "points"
		m.previousState = m.state
		m.state = constants.StateConfirmReset
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Tab, m.keys.Right):
			m.state = (m.state + 1) % constants.NumMainTabs
			m.formError = ""
			m.refreshData(time.Now())
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab, m.keys.Left):
			m.state = (m.state - 1 + constants.NumMainTabs) % constants.NumMainTabs
			m.formError = ""
			m.refreshData(time.Now())
			return m, nil
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateLog:
		m.logModel, cmd = m.logModel.Update(msg)
		cmds = append(cmds, cmd)
	case constants.StateCompleted:
		m.completedModel, cmd = m.completedModel.Update(msg)
		cmds = append(cmds, cmd)
	case constants.StateDashboard:
		m.dashboardModel, cmd = m.dashboardModel.Update(msg)
		cmds = append(cmds, cmd)
	case constants.StateSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func parsePoints(s string) (float64, error) {
	pts, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid points per minute %q", s)
	}
	if pts < 0 {
		return 0, fmt.Errorf("points per minute must not be negative")
	}
	return pts, nil
}
