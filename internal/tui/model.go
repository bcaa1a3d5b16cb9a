package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/pa/internal/app"
	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/duration"
	"github.com/julianstephens/pa/internal/tracker"
)

type SkillFormModel struct {
	Name string
}

type LogFormModel struct {
	Minutes string
}

type BlockFormModel struct {
	Start   string
	Minutes string
}

type ImportFormModel struct {
	Path string
}

// Item is one row of the skills list.
type Item struct {
	Progress tracker.SkillProgress
}

func (i Item) Title() string {
	switch i.Progress.Status {
	case tracker.StatusOnTrack:
		return "✓ " + i.Progress.Skill.Name
	case tracker.StatusOverdue:
		return "! " + i.Progress.Skill.Name
	default:
		return "○ " + i.Progress.Skill.Name
	}
}

func (i Item) Description() string {
	p := i.Progress
	desc := fmt.Sprintf("today %s / expected %s of %s planned · week %s",
		duration.Format(p.TodayMinutes), duration.Format(p.ExpectedMinutes),
		duration.Format(p.PlannedMinutes), duration.Format(p.WeekMinutes))
	if g := p.Skill.WeeklyGoalMinutes; g != nil {
		desc += " / " + duration.Format(*g)
	}
	return desc
}

func (i Item) FilterValue() string { return i.Progress.Skill.Name }

// tickMsg re-evaluates expectations as the wall clock moves.
type tickMsg time.Time

type Model struct {
	app        *app.Controller
	exportDir  string
	state      constants.SessionState
	keys       KeyMap
	help       help.Model
	list       list.Model
	form       *huh.Form
	skillForm  *SkillFormModel
	logForm    *LogFormModel
	blockForm  *BlockFormModel
	importForm *ImportFormModel
	targetID   string
	targetName string
	message    string
	err        string
	warning    string
	quitting   bool
	width      int
	height     int
}

func NewModel(a *app.Controller, exportDir string) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Skills"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.KeyMap.Quit = key.NewBinding(key.WithDisabled())

	m := Model{
		app:       a,
		exportDir: exportDir,
		state:     constants.StateSkills,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		list:      l,
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(constants.RefreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refresh rebuilds the list from the controller's current snapshot.
func (m *Model) refresh() {
	m.setItems()

	if res := m.app.Validate(); res.HasConflicts() {
		m.warning = fmt.Sprintf("⚠ %d problem(s) found; run pa doctor", len(res.Conflicts))
	} else {
		m.warning = ""
	}
}

// setItems re-evaluates every skill against the current clock.
func (m *Model) setItems() {
	statuses := m.app.Statuses()
	items := make([]list.Item, len(statuses))
	for i, sp := range statuses {
		items[i] = Item{Progress: sp}
	}
	m.list.SetItems(items)
}

func (m Model) selected() (Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i, ok
}

// State reports which screen is active.
func (m Model) State() constants.SessionState {
	return m.state
}
