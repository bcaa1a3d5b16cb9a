package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/pa/internal/constants"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAddSkill, constants.StateLogMinutes, constants.StateAddBlock, constants.StateImport:
		content = m.form.View()
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	default:
		m.setItems()
		content = m.viewSkills()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewStatusLine(),
		content,
		m.help.View(m.keys),
	)
}

func (m Model) viewHeader() string {
	now := m.app.Now()
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		titleStyle.Render("Practice"),
		clockStyle.Render(now.Format("Monday "+constants.DateFormat+" "+constants.TimeFormat)),
	)
}

func (m Model) viewStatusLine() string {
	switch {
	case m.err != "":
		return errorStyle.Render(m.err)
	case m.message != "":
		return messageStyle.Render(m.message)
	case m.warning != "":
		return warningStyle.Render(m.warning)
	}
	return ""
}

func (m Model) viewSkills() string {
	if len(m.list.Items()) == 0 {
		return "\nNo skills yet. Press a to add one.\n"
	}
	return m.list.View()
}

func (m Model) viewConfirmDelete() string {
	return confirmStyle.Render(fmt.Sprintf(
		"Delete %q?\nLogged sessions are kept.\n\n(y) yes   (n) no", m.targetName))
}
