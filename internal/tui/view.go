package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/cloudcast/internal/constants"
)

var tabTitles = []string{"Now", "Schedules", "Finder"}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateNow:
		content = docStyle.Render(m.nowModel.View())
	case constants.StateSchedules:
		content = docStyle.Render(m.scheduleModel.View())
	case constants.StateFinder:
		content = docStyle.Render(m.finderModel.View())
	case constants.StateSetPost, constants.StateConfirmDeactivate:
		content = lipgloss.Place(m.width, max(m.height-6, 1),
			lipgloss.Center, lipgloss.Center,
			m.form.View(),
		)
	}

	var banner string
	if len(m.validationConflicts) > 0 && m.state == constants.StateSchedules {
		banner = bannerStyle.Render(fmt.Sprintf("⚠ %d CONFLICT(S) IN SCHEDULE PAYLOAD", len(m.validationConflicts)))
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewStatusLine(),
		banner,
		content,
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= constants.SessionState(len(tabTitles)) {
		active = m.previousState
	}

	var tabs []string
	for i, title := range tabTitles {
		if active == constants.SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatusLine() string {
	flags := []string{
		"auto-refresh " + onOff(m.coord.AutoRefresh()),
		"auto-focus " + onOff(m.coord.AutoFocus()),
	}
	session := m.coord.Session()
	if s := session.Schedule(); s != nil {
		editing := "editing " + s.ShowTitle
		if session.Saving() {
			editing += " (saving)"
		}
		flags = append(flags, editing)
	}
	if m.coord.Generating() {
		flags = append(flags, "generating")
	}
	line := flagStyle.Render(strings.Join(flags, " · "))

	if msg := session.Message(); msg != "" {
		line += "  " + dangerStyle.Render(msg)
	}
	if m.flash != "" {
		line += "  " + warningStyle.Render(m.flash)
	}
	if err := m.coord.LastError(); err != nil && m.state == constants.StateSchedules {
		line += "  " + warningStyle.Render(fmt.Sprintf("schedule fetch failed: %v", err))
	}
	return line
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
