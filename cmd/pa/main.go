package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/pa/internal/app"
	"github.com/julianstephens/pa/internal/backup"
	"github.com/julianstephens/pa/internal/cli"
	"github.com/julianstephens/pa/internal/cli/backups"
	"github.com/julianstephens/pa/internal/cli/blocks"
	"github.com/julianstephens/pa/internal/cli/exchange"
	"github.com/julianstephens/pa/internal/cli/sessions"
	"github.com/julianstephens/pa/internal/cli/skills"
	"github.com/julianstephens/pa/internal/cli/system"
	"github.com/julianstephens/pa/internal/clock"
	"github.com/julianstephens/pa/internal/config"
	"github.com/julianstephens/pa/internal/constants"
	apperrors "github.com/julianstephens/pa/internal/errors"
	"github.com/julianstephens/pa/internal/instance"
	"github.com/julianstephens/pa/internal/logger"
	"github.com/julianstephens/pa/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Config file path." default:"${config_file}"`
	Store   string `help:"Store path (overrides config)." env:"PA_STORE"`
	Backend string `help:"Storage backend (sqlite|json)." env:"PA_BACKEND"`
	Debug   bool   `help:"Enable debug logging." env:"PA_DEBUG"`

	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Status system.StatusCmd `cmd:"" help:"Show today's progress for every skill."`
	Skill  struct {
		Add      skills.SkillAddCmd      `cmd:"" help:"Add a skill."`
		List     skills.SkillListCmd     `cmd:"" help:"List skills."`
		Rename   skills.SkillRenameCmd   `cmd:"" help:"Rename a skill."`
		Priority skills.SkillPriorityCmd `cmd:"" help:"Set or clear a skill's priority."`
		Goal     skills.SkillGoalCmd     `cmd:"" help:"Set or clear a daily or weekly goal."`
		Delete   skills.SkillDeleteCmd   `cmd:"" help:"Delete a skill."`
	} `cmd:"" help:"Manage skills."`
	Block struct {
		Add    blocks.BlockAddCmd    `cmd:"" help:"Add a schedule block."`
		Edit   blocks.BlockEditCmd   `cmd:"" help:"Edit a schedule block."`
		Delete blocks.BlockDeleteCmd `cmd:"" help:"Delete a schedule block."`
		List   blocks.BlockListCmd   `cmd:"" help:"List a skill's weekly schedule."`
	} `cmd:"" help:"Manage weekly schedule blocks."`
	Log     sessions.LogCmd `cmd:"" help:"Log practice minutes for a skill."`
	Session struct {
		List   sessions.SessionListCmd   `cmd:"" help:"List logged sessions."`
		Delete sessions.SessionDeleteCmd `cmd:"" help:"Delete a logged session."`
	} `cmd:"" help:"Manage logged sessions."`
	Export exchange.ExportCmd `cmd:"" help:"Export all data to a backup document."`
	Import exchange.ImportCmd `cmd:"" help:"Replace all data with a backup document."`
	Backup struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a backup now."`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage automatic backups."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Personal skill-practice tracker"),
		kong.UsageOnError(),
		kong.Vars{"version": constants.Version, "config_file": constants.DefaultConfigFile},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	cfg, err = cfg.Apply(config.Overrides{StorePath: CLI.Store, Backend: CLI.Backend, Debug: CLI.Debug})
	if err != nil {
		apperrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.Dir()}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logger: %v\n", err)
	}

	store, err := storage.New(cfg.Backend, cfg.StorePath)
	if err != nil {
		apperrors.Fatal(err)
	}
	if err := store.Init(); err != nil {
		apperrors.Fatal(err)
	}

	clk := clock.System{}
	guard := instance.NewGuard(cfg.Dir())
	if holder, err := guard.Acquire(clk.Now()); err != nil {
		logger.Warn("instance guard unavailable", "error", err)
	} else if holder != nil {
		fmt.Fprintf(os.Stderr, "Warning: another copy of pa is running (%s); the last one to save wins.\n", holder)
	}
	defer guard.Release()

	a := app.Open(store, clk, app.WithBackups(backup.NewManager(cfg.Backups(), cfg.MaxBackups)))
	defer a.Close()

	if err := ctx.Run(cli.NewContext(a, cfg)); err != nil {
		a.Close()
		guard.Release()
		apperrors.Fatal(err)
	}
}
