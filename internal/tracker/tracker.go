// Package tracker derives how each skill is doing today: minutes expected by
// now from the weekly plan against minutes actually logged. Nothing here is
// cached or persisted; every call reads the clock value it is given.
package tracker

import (
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/julianstephens/pa/internal/ledger"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/schedule"
	"github.com/julianstephens/pa/internal/utils"
)

// Status is the tri-state comparison of logged against expected minutes.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusOnTrack Status = "onTrack"
	StatusOverdue Status = "overdue"
)

// SkillProgress is the derived view of one skill at a moment in time.
type SkillProgress struct {
	Skill           models.Skill
	PlannedMinutes  int // all blocks today, past and future
	ExpectedMinutes int // blocks already started
	TodayMinutes    int
	WeekMinutes     int
	Status          Status
}

type Tracker struct {
	collator *collate.Collator
}

func New() *Tracker {
	return &Tracker{collator: collate.New(language.Und)}
}

// ExpectedMinutesByNow sums the blocks of now's weekday whose start minute is
// at or before now's minute of day.
func ExpectedMinutesByNow(s models.WeeklySchedule, now time.Time) int {
	current := utils.MinutesSinceMidnight(now)
	total := 0
	for _, b := range s[models.WeekdayOf(now.Weekday())] {
		if schedule.StartMinutes(b.StartTime) <= current {
			total += b.Minutes
		}
	}
	return total
}

// StatusFor applies the precedence idle > onTrack > overdue.
func StatusFor(expected, today int) Status {
	switch {
	case expected == 0:
		return StatusIdle
	case today >= expected:
		return StatusOnTrack
	default:
		return StatusOverdue
	}
}

// Evaluate computes skill's progress from the payload's sessions at now.
func Evaluate(p models.AppPayload, skill models.Skill, now time.Time) SkillProgress {
	expected := ExpectedMinutesByNow(skill.Schedule, now)
	today := ledger.MinutesTodayForSkill(p, skill.ID, now)
	return SkillProgress{
		Skill:           skill,
		PlannedMinutes:  schedule.PlannedMinutes(skill.Schedule, models.WeekdayOf(now.Weekday())),
		ExpectedMinutes: expected,
		TodayMinutes:    today,
		WeekMinutes:     ledger.MinutesThisWeekForSkill(p, skill.ID, now),
		Status:          StatusFor(expected, today),
	}
}

// Overview evaluates every skill and returns them in display order.
func (t *Tracker) Overview(p models.AppPayload, now time.Time) []SkillProgress {
	sorted := t.SortSkills(p.Skills)
	out := make([]SkillProgress, len(sorted))
	for i, s := range sorted {
		out[i] = Evaluate(p, s, now)
	}
	return out
}

// SortSkills orders by ascending priority (unranked last), then by name
// using locale collation. The input is not reordered.
func (t *Tracker) SortSkills(in []models.Skill) []models.Skill {
	out := make([]models.Skill, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := rank(out[i]), rank(out[j])
		if pi != pj {
			return pi < pj
		}
		return t.collator.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

// rank treats a missing priority as lower than every ranked one.
func rank(s models.Skill) int {
	if s.Priority == nil {
		return int(^uint(0) >> 1)
	}
	return *s.Priority
}
