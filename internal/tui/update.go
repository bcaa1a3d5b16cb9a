package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/duration"
	"github.com/julianstephens/pa/internal/logger"
	"github.com/julianstephens/pa/internal/models"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, max(msg.Height-6, 1))
		return m, nil

	case tickMsg:
		if m.state == constants.StateSkills {
			m.refresh()
		}
		return m, tick()
	}

	switch m.state {
	case constants.StateAddSkill, constants.StateLogMinutes, constants.StateAddBlock, constants.StateImport:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		m.message, m.err = "", ""
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Refresh):
			m.app.Reload()
			m.refresh()
			m.message = "Reloaded."
			return m, nil
		case key.Matches(msg, m.keys.Add):
			m.skillForm = &SkillFormModel{}
			m.form = newSkillForm(m.skillForm)
			m.state = constants.StateAddSkill
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Log):
			if !m.target() {
				return m, nil
			}
			m.logForm = &LogFormModel{}
			m.form = newLogForm(m.logForm, m.targetName)
			m.state = constants.StateLogMinutes
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Block):
			if !m.target() {
				return m, nil
			}
			m.blockForm = &BlockFormModel{
				Start:   constants.DefaultBlockStart,
				Minutes: fmt.Sprint(constants.DefaultBlockMinutes),
			}
			m.form = newBlockForm(m.blockForm, m.targetName, models.WeekdayOf(m.app.Now().Weekday()))
			m.state = constants.StateAddBlock
			return m, m.form.Init()
		case key.Matches(msg, m.keys.Delete):
			if m.target() {
				m.state = constants.StateConfirmDelete
			}
			return m, nil
		case key.Matches(msg, m.keys.Export):
			m.export()
			return m, nil
		case key.Matches(msg, m.keys.Import):
			m.importForm = &ImportFormModel{}
			m.form = newImportForm(m.importForm)
			m.state = constants.StateImport
			return m, m.form.Init()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// target remembers the highlighted skill for the form that is about to open.
func (m *Model) target() bool {
	item, ok := m.selected()
	if !ok {
		m.err = "No skill selected. Press a to add one."
		return false
	}
	m.targetID = item.Progress.Skill.ID
	m.targetName = item.Progress.Skill.Name
	return true
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		m.state = constants.StateSkills
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if err := m.submit(); err != nil {
			logger.Warn("form action failed", "state", m.state, "error", err)
			m.err = err.Error()
		}
		m.state = constants.StateSkills
		m.refresh()
	case huh.StateAborted:
		m.state = constants.StateSkills
	}
	return m, cmd
}

// submit applies the completed form for the current state.
func (m *Model) submit() error {
	switch m.state {
	case constants.StateAddSkill:
		skill, err := m.app.AddSkill(m.skillForm.Name)
		if err != nil {
			return err
		}
		m.message = fmt.Sprintf("Added %q.", skill.Name)
	case constants.StateLogMinutes:
		s, err := m.app.LogMinutes(m.targetID, m.logForm.Minutes)
		if err != nil {
			return err
		}
		m.message = fmt.Sprintf("Logged %s for %s.", duration.Format(s.Minutes), m.targetName)
	case constants.StateAddBlock:
		day := models.WeekdayOf(m.app.Now().Weekday())
		if _, err := m.app.AddBlock(m.targetID, day, m.blockForm.Start, m.blockForm.Minutes); err != nil {
			return err
		}
		m.message = fmt.Sprintf("Added %s block at %s for %s.", day.Long(), m.blockForm.Start, m.targetName)
	case constants.StateImport:
		raw, err := os.ReadFile(strings.TrimSpace(m.importForm.Path))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", m.importForm.Path, err)
		}
		data, err := m.app.Import(raw)
		if err != nil {
			return err
		}
		if err := m.app.ApplyImport(data); err != nil {
			return err
		}
		m.message = fmt.Sprintf("Imported %d skills and %d sessions.", len(data.Payload.Skills), len(data.Payload.Sessions))
	}
	return nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Confirm):
		if _, err := m.app.DeleteSkill(m.targetID); err != nil {
			m.err = err.Error()
		} else {
			m.message = fmt.Sprintf("Deleted %q.", m.targetName)
		}
		m.state = constants.StateSkills
		m.refresh()
	case key.Matches(keyMsg, m.keys.Cancel):
		m.state = constants.StateSkills
	}
	return m, nil
}

func (m *Model) export() {
	art, err := m.app.Export("json")
	if err != nil {
		m.err = err.Error()
		return
	}
	if err := os.MkdirAll(m.exportDir, 0700); err != nil {
		m.err = fmt.Sprintf("failed to create export directory: %v", err)
		return
	}
	path := filepath.Join(m.exportDir, art.Filename)
	if err := os.WriteFile(path, art.Data, 0600); err != nil {
		m.err = fmt.Sprintf("failed to write export: %v", err)
		return
	}
	m.message = "Exported to " + path
}

func newSkillForm(fm *SkillFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Skill name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
		),
	)
}

func newLogForm(fm *LogFormModel, skill string) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Log practice for " + skill).
				Description("e.g. 30, 45m, 1.5h").
				Value(&fm.Minutes).
				Validate(validateDuration),
		),
	)
}

func newBlockForm(fm *BlockFormModel, skill string, day models.Weekday) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("%s block for %s", day.Long(), skill)).
				Description("Start time (HH:MM)").
				Value(&fm.Start).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.TimeFormat, strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("start must be HH:MM")
					}
					return nil
				}),
			huh.NewInput().
				Title("Length").
				Value(&fm.Minutes).
				Validate(validateDuration),
		),
	)
}

func newImportForm(fm *ImportFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Import backup").
				Description("Path to a JSON or YAML backup. Current data will be replaced.").
				Value(&fm.Path).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("path is required")
					}
					return nil
				}),
		),
	)
}

func validateDuration(s string) error {
	_, err := duration.Parse(s)
	return err
}
