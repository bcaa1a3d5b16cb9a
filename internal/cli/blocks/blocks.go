package blocks

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/julianstephens/pa/internal/cli"
	"github.com/julianstephens/pa/internal/duration"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/schedule"
)

type BlockAddCmd struct {
	Skill   string `arg:"" help:"Skill id or name."`
	Day     string `arg:"" help:"Weekday (mon..sun, monday.., or today)."`
	Start   string `short:"s" help:"Start time (HH:MM)." default:"06:00"`
	Minutes string `short:"m" help:"Length, e.g. 30, 45m, 1h." default:"30"`
}

func (c *BlockAddCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(ctx, c.Day)
	if err != nil {
		return err
	}
	if !schedule.ValidStartTime(c.Start) {
		ctx.Printf("⚠ %q is not a valid HH:MM time; it will count as 00:00\n", c.Start)
	}
	block, err := ctx.App.AddBlock(c.Skill, day, c.Start, c.Minutes)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Added %s block at %s for %s (%s)\n", day.Long(), block.StartTime, duration.Format(block.Minutes), cli.ShortID(block.ID))
	return nil
}

type BlockEditCmd struct {
	Skill   string  `arg:"" help:"Skill id or name."`
	Day     string  `arg:"" help:"Weekday the block is on."`
	Block   string  `arg:"" help:"Block id (prefix accepted)."`
	Start   *string `short:"s" help:"New start time (HH:MM)."`
	Minutes *string `short:"m" help:"New length."`
}

func (c *BlockEditCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(ctx, c.Day)
	if err != nil {
		return err
	}
	if c.Start == nil && c.Minutes == nil {
		return fmt.Errorf("nothing to change: pass --start and/or --minutes")
	}
	id, err := resolveBlock(ctx, c.Skill, day, c.Block)
	if err != nil {
		return err
	}
	if c.Start != nil && !schedule.ValidStartTime(*c.Start) {
		ctx.Printf("⚠ %q is not a valid HH:MM time; it will count as 00:00\n", *c.Start)
	}
	if err := ctx.App.UpdateBlock(c.Skill, day, id, c.Start, c.Minutes); err != nil {
		return err
	}
	day, block, err := ctx.App.Block(c.Skill, id)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Updated %s block: %s for %s\n", day.Long(), block.StartTime, duration.Format(block.Minutes))
	return nil
}

type BlockDeleteCmd struct {
	Skill string `arg:"" help:"Skill id or name."`
	Day   string `arg:"" help:"Weekday the block is on."`
	Block string `arg:"" help:"Block id (prefix accepted)."`
}

func (c *BlockDeleteCmd) Run(ctx *cli.Context) error {
	day, err := cli.ParseDay(ctx, c.Day)
	if err != nil {
		return err
	}
	id, err := resolveBlock(ctx, c.Skill, day, c.Block)
	if err != nil {
		return err
	}
	if err := ctx.App.DeleteBlock(c.Skill, day, id); err != nil {
		return err
	}
	ctx.Println("✓ Block deleted")
	return nil
}

type BlockListCmd struct {
	Skill string `arg:"" help:"Skill id or name."`
}

func (c *BlockListCmd) Run(ctx *cli.Context) error {
	skill, err := ctx.App.Skill(c.Skill)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(ctx.Out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "DAY\tSTART\tLENGTH\tID")
	total := 0
	for _, day := range models.Weekdays {
		blocks := append([]models.ScheduleBlock(nil), skill.Schedule.Day(day)...)
		sort.SliceStable(blocks, func(i, j int) bool {
			return schedule.StartMinutes(blocks[i].StartTime) < schedule.StartMinutes(blocks[j].StartTime)
		})
		for _, b := range blocks {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", day, b.StartTime, duration.Format(b.Minutes), cli.ShortID(b.ID))
			total += b.Minutes
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	ctx.Printf("\n%s planned per week\n", duration.Format(total))
	return nil
}

// resolveBlock matches a full id or unique prefix among the day's blocks.
func resolveBlock(ctx *cli.Context, skillRef string, day models.Weekday, ref string) (string, error) {
	skill, err := ctx.App.Skill(skillRef)
	if err != nil {
		return "", err
	}
	var match string
	for _, b := range skill.Schedule.Day(day) {
		if b.ID == ref {
			return b.ID, nil
		}
		if len(ref) > 0 && len(b.ID) >= len(ref) && b.ID[:len(ref)] == ref {
			if match != "" {
				return "", fmt.Errorf("block id %q is ambiguous", ref)
			}
			match = b.ID
		}
	}
	if match == "" {
		return "", fmt.Errorf("no %s block with id %q", day.Long(), ref)
	}
	return match, nil
}
