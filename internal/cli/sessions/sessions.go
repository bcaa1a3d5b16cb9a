package sessions

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/pa/internal/cli"
	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/duration"
	"github.com/julianstephens/pa/internal/models"
)

type LogCmd struct {
	Skill    string   `arg:"" help:"Skill id or name."`
	Duration []string `arg:"" help:"Time spent, e.g. 45, 30 min, 1.5h."`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	session, err := ctx.App.LogMinutes(c.Skill, strings.Join(c.Duration, " "))
	if err != nil {
		return err
	}
	skill, err := ctx.App.Skill(session.SkillID)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Logged %s of %s\n", duration.Format(session.Minutes), skill.Name)
	return nil
}

type SessionListCmd struct {
	Skill   string `arg:"" optional:"" help:"Skill id or name."`
	Orphans bool   `help:"List sessions whose skill was deleted."`
}

func (c *SessionListCmd) Run(ctx *cli.Context) error {
	var sessions []models.Session
	switch {
	case c.Orphans:
		sessions = ctx.App.Orphans()
	case c.Skill != "":
		var err error
		if sessions, err = ctx.App.Sessions(c.Skill); err != nil {
			return err
		}
	default:
		sessions = ctx.App.Snapshot().Payload.Sessions
	}

	if len(sessions) == 0 {
		ctx.Println("No sessions found.")
		return nil
	}
	names := map[string]string{}
	for _, s := range ctx.App.Snapshot().Payload.Skills {
		names[s.ID] = s.Name
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tSKILL\tLENGTH")
	for _, s := range sessions {
		name, ok := names[s.SkillID]
		if !ok {
			name = "(deleted " + cli.ShortID(s.SkillID) + ")"
		}
		when := s.StartedAt.Local().Format(constants.DateFormat + " " + constants.TimeFormat)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", cli.ShortID(s.ID), when, name, duration.Format(s.Minutes))
	}
	return w.Flush()
}

type SessionDeleteCmd struct {
	ID string `arg:"" help:"Session id (prefix accepted)."`
}

func (c *SessionDeleteCmd) Run(ctx *cli.Context) error {
	var match string
	for _, s := range ctx.App.Snapshot().Payload.Sessions {
		if s.ID == c.ID {
			match = s.ID
			break
		}
		if strings.HasPrefix(s.ID, c.ID) {
			if match != "" {
				return fmt.Errorf("session id %q is ambiguous", c.ID)
			}
			match = s.ID
		}
	}
	if match == "" {
		return fmt.Errorf("no session with id %q", c.ID)
	}
	if err := ctx.App.DeleteSession(match); err != nil {
		return err
	}
	ctx.Println("✓ Session deleted")
	return nil
}
