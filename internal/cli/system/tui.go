package system

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/pa/internal/cli"
	"github.com/julianstephens/pa/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	p := tea.NewProgram(tui.NewModel(ctx.App, ctx.Config.ExportDir), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
