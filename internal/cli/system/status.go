package system

import (
	"fmt"
	"text/tabwriter"

	"github.com/julianstephens/pa/internal/cli"
	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/duration"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	now := ctx.App.Now()
	statuses := ctx.App.Statuses()
	ctx.Printf("%s  %s\n\n", now.Format("Monday "+constants.DateFormat), now.Format(constants.TimeFormat))
	if len(statuses) == 0 {
		ctx.Println("No skills yet. Add one with: pa skill add <name>")
		return nil
	}

	w := tabwriter.NewWriter(ctx.Out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SKILL\tPRIORITY\tTODAY\tEXPECTED\tPLANNED\tWEEK\tSTATUS")
	for _, sp := range statuses {
		week := duration.Format(sp.WeekMinutes)
		if goal := sp.Skill.WeeklyGoalMinutes; goal != nil {
			week += " / " + duration.Format(*goal)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			sp.Skill.Name, cli.FormatPriority(sp.Skill.Priority),
			duration.Format(sp.TodayMinutes), duration.Format(sp.ExpectedMinutes),
			duration.Format(sp.PlannedMinutes), week, cli.StatusBadge(sp.Status))
	}
	return w.Flush()
}
