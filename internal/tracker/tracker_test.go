package tracker

import (
	"testing"
	"time"

	"github.com/julianstephens/pa/internal/ledger"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/schedule"
	"github.com/julianstephens/pa/internal/skills"
)

// 2026-03-02 is a Monday.
func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.Local)
}

func skillWithBlocks(blocks ...models.ScheduleBlock) models.Skill {
	s, _ := skills.New("Piano", at(0, 0))
	s.Schedule[models.Monday] = blocks
	return s
}

func TestExpectedMinutesByNow(t *testing.T) {
	sched := schedule.DefaultWeeklySchedule()
	sched[models.Monday] = []models.ScheduleBlock{
		{ID: "c", StartTime: "18:00", Minutes: 60},
		{ID: "a", StartTime: "06:00", Minutes: 30},
		{ID: "bad", StartTime: "6am", Minutes: 5},
		{ID: "b", StartTime: "12:00", Minutes: 15},
	}
	sched[models.Tuesday] = []models.ScheduleBlock{{ID: "t", StartTime: "00:00", Minutes: 500}}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{name: "before everything counts malformed as midnight", now: at(0, 0), want: 5},
		{name: "just before first block", now: at(5, 59), want: 5},
		{name: "exactly at block start", now: at(6, 0), want: 35},
		{name: "midday", now: at(12, 0), want: 50},
		{name: "evening", now: at(23, 59), want: 110},
		{name: "other weekday", now: time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpectedMinutesByNow(sched, tt.now); got != tt.want {
				t.Errorf("ExpectedMinutesByNow() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestOutOfRangeStartCountsFromMidnight(t *testing.T) {
	sched := schedule.DefaultWeeklySchedule()
	sched[models.Monday] = []models.ScheduleBlock{
		{ID: "late", StartTime: "25:00", Minutes: 20},
		{ID: "odd", StartTime: "12:60", Minutes: 10},
	}
	if got := ExpectedMinutesByNow(sched, at(0, 1)); got != 30 {
		t.Errorf("ExpectedMinutesByNow(00:01) = %d, want 30", got)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		expected, today int
		want            Status
	}{
		{0, 0, StatusIdle},
		{0, 90, StatusIdle},
		{30, 30, StatusOnTrack},
		{30, 45, StatusOnTrack},
		{30, 29, StatusOverdue},
		{30, 0, StatusOverdue},
	}
	for _, tt := range tests {
		if got := StatusFor(tt.expected, tt.today); got != tt.want {
			t.Errorf("StatusFor(%d, %d) = %q, want %q", tt.expected, tt.today, got, tt.want)
		}
	}
}

func TestEvaluateLifecycle(t *testing.T) {
	skill := skillWithBlocks(models.ScheduleBlock{ID: "b", StartTime: "06:00", Minutes: 30})
	p := models.DefaultPayload()
	p.Skills = []models.Skill{skill}

	got := Evaluate(p, skill, at(5, 0))
	if got.Status != StatusIdle || got.ExpectedMinutes != 0 {
		t.Errorf("at 05:00 = %s/%d, want idle/0", got.Status, got.ExpectedMinutes)
	}
	if got.PlannedMinutes != 30 {
		t.Errorf("PlannedMinutes = %d, want 30", got.PlannedMinutes)
	}

	got = Evaluate(p, skill, at(7, 0))
	if got.Status != StatusOverdue || got.ExpectedMinutes != 30 {
		t.Errorf("at 07:00 = %s/%d, want overdue/30", got.Status, got.ExpectedMinutes)
	}

	sess, err := ledger.NewSession(skill.ID, 30, at(7, 0))
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	p = ledger.AddSession(p, sess)

	got = Evaluate(p, skill, at(7, 0))
	if got.Status != StatusOnTrack || got.TodayMinutes != 30 {
		t.Errorf("after logging = %s/%d, want onTrack/30", got.Status, got.TodayMinutes)
	}
	if got.WeekMinutes != 30 {
		t.Errorf("WeekMinutes = %d, want 30", got.WeekMinutes)
	}
}

func TestSortSkills(t *testing.T) {
	mk := func(name string, prio *int) models.Skill {
		return models.Skill{ID: name, Name: name, Priority: prio}
	}
	in := []models.Skill{
		mk("zeta", nil),
		mk("beta", models.IntPtr(3)),
		mk("Alpha", models.IntPtr(3)),
		mk("alpha", nil),
		mk("gamma", models.IntPtr(1)),
		mk("delta", models.IntPtr(4)),
	}

	got := New().SortSkills(in)
	want := []string{"gamma", "Alpha", "beta", "delta", "alpha", "zeta"}
	for i, s := range got {
		if s.Name != want[i] {
			t.Fatalf("SortSkills() order = %v, want %v", names(got), want)
		}
	}
	if in[0].Name != "zeta" {
		t.Error("SortSkills reordered its input")
	}
}

func TestOverview(t *testing.T) {
	p := models.DefaultPayload()
	p, a, _ := skills.Add(p, "B skill", at(0, 0))
	p, b, _ := skills.Add(p, "A skill", at(0, 0))

	got := New().Overview(p, at(9, 0))
	if len(got) != 2 {
		t.Fatalf("len(Overview()) = %d, want 2", len(got))
	}
	if got[0].Skill.ID != b.ID || got[1].Skill.ID != a.ID {
		t.Errorf("Overview() order = %s, %s", got[0].Skill.Name, got[1].Skill.Name)
	}
	for _, sp := range got {
		if sp.Status != StatusIdle {
			t.Errorf("%s status = %s, want idle with empty schedule", sp.Skill.Name, sp.Status)
		}
	}
}

func names(in []models.Skill) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = s.Name
	}
	return out
}
