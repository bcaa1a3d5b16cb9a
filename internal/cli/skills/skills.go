package skills

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/julianstephens/pa/internal/app"
	"github.com/julianstephens/pa/internal/cli"
	"github.com/julianstephens/pa/internal/constants"
)

type SkillAddCmd struct {
	Name     string `arg:"" help:"Skill name."`
	Priority *int   `short:"p" help:"Priority (1 highest .. 4 lowest)."`
}

func (c *SkillAddCmd) Run(ctx *cli.Context) error {
	skill, err := ctx.App.AddSkill(c.Name)
	if err != nil {
		return err
	}
	if c.Priority != nil {
		if skill, err = ctx.App.SetPriority(skill.ID, c.Priority); err != nil {
			return err
		}
	}
	ctx.Printf("✓ Added skill %q (%s)\n", skill.Name, cli.ShortID(skill.ID))
	return nil
}

type SkillListCmd struct{}

func (c *SkillListCmd) Run(ctx *cli.Context) error {
	skills := ctx.App.Skills()
	if len(skills) == 0 {
		ctx.Println("No skills yet. Add one with: pa skill add <name>")
		return nil
	}
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRIORITY\tDAILY\tWEEKLY\tBLOCKS")
	for _, s := range skills {
		blocks := 0
		for _, day := range s.Schedule {
			blocks += len(day)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\n",
			cli.ShortID(s.ID), s.Name, cli.FormatPriority(s.Priority),
			cli.FormatGoal(s.DailyGoalMinutes), cli.FormatGoal(s.WeeklyGoalMinutes), blocks)
	}
	return w.Flush()
}

type SkillRenameCmd struct {
	Skill string `arg:"" help:"Skill id or name."`
	Name  string `arg:"" help:"New name."`
}

func (c *SkillRenameCmd) Run(ctx *cli.Context) error {
	skill, err := ctx.App.RenameSkill(c.Skill, c.Name)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Renamed to %q\n", skill.Name)
	return nil
}

type SkillPriorityCmd struct {
	Skill    string `arg:"" help:"Skill id or name."`
	Priority string `arg:"" help:"1-4, or 'none' to clear."`
}

func (c *SkillPriorityCmd) Run(ctx *cli.Context) error {
	var p *int
	if !strings.EqualFold(c.Priority, "none") {
		n, err := strconv.Atoi(c.Priority)
		if err != nil {
			return fmt.Errorf("priority must be %d-%d or 'none'", constants.MinPriority, constants.MaxPriority)
		}
		p = &n
	}
	skill, err := ctx.App.SetPriority(c.Skill, p)
	if err != nil {
		return err
	}
	ctx.Printf("✓ %s priority: %s\n", skill.Name, cli.FormatPriority(skill.Priority))
	return nil
}

type SkillGoalCmd struct {
	Skill  string `arg:"" help:"Skill id or name."`
	Kind   string `arg:"" enum:"daily,weekly" help:"Which goal to set (daily|weekly)."`
	Amount string `arg:"" optional:"" help:"Duration such as 30, 45m or 1.5h. Omit to clear."`
}

func (c *SkillGoalCmd) Run(ctx *cli.Context) error {
	skill, err := ctx.App.SetGoal(c.Skill, app.GoalKind(c.Kind), c.Amount)
	if err != nil {
		return err
	}
	ctx.Printf("✓ %s goals: daily %s, weekly %s\n", skill.Name,
		cli.FormatGoal(skill.DailyGoalMinutes), cli.FormatGoal(skill.WeeklyGoalMinutes))
	return nil
}

type SkillDeleteCmd struct {
	Skill string `arg:"" help:"Skill id or name."`
	Yes   bool   `short:"y" help:"Skip confirmation."`
}

func (c *SkillDeleteCmd) Run(ctx *cli.Context) error {
	skill, err := ctx.App.Skill(c.Skill)
	if err != nil {
		return err
	}
	if !c.Yes {
		ok, err := ctx.Confirm(fmt.Sprintf("Delete skill %q? Logged sessions are kept.", skill.Name))
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Delete cancelled.")
			return nil
		}
	}
	if _, err := ctx.App.DeleteSkill(skill.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted skill %q\n", skill.Name)
	return nil
}
