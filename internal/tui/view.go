package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/jmuslu/prodlog/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateLog:
		content = docStyle.Render(m.logModel.View())
	case constants.StateCompleted:
		content = docStyle.Render(m.completedModel.View())
	case constants.StateDashboard:
		content = docStyle.Render(m.dashboardModel.View())
	case constants.StateSettings:
		content = docStyle.Render(m.settingsModel.View())
	case constants.StateAllocating, constants.StateAddCategory, constants.StateEditSettings:
		content = m.form.View()
	case constants.StateConfirmReset:
		content = m.viewConfirmReset()
	}

	var banner string
	if m.formError != "" {
		banner = errorBannerStyle.Render(m.formError)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		banner,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	tabTitles := []string{"Log", "Completed", "Dashboard", "Settings"}
	for i, title := range tabTitles {
		state := constants.SessionState(i)
		active := m.state == state
		// Modal overlays highlight the tab they were opened from.
		switch m.state {
		case constants.StateAllocating:
			active = state == constants.StateLog
		case constants.StateAddCategory, constants.StateEditSettings, constants.StateConfirmReset:
			active = state == constants.StateSettings
		}
		if active {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewConfirmReset() string {
	prompt := "Clear points earned in the last 36 hours and restore those slots for re-logging?"
	if m.resetTarget == "points" {
		prompt = "Erase ALL points for every day? Logged slots are kept."
	}
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(prompt),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
