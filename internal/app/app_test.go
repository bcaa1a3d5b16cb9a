package app

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/pa/internal/backup"
	"github.com/julianstephens/pa/internal/clock"
	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/duration"
	apperrors "github.com/julianstephens/pa/internal/errors"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/storage"
	"github.com/julianstephens/pa/internal/tracker"
)

// Monday 2026-03-02 05:00 local.
func newController(t *testing.T) (*Controller, *clock.Manual, *storage.MemoryStore) {
	t.Helper()
	clk := &clock.Manual{T: time.Date(2026, 3, 2, 5, 0, 0, 0, time.Local)}
	store := storage.NewMemoryStore()
	return Open(store, clk), clk, store
}

func TestOpenEmptyStore(t *testing.T) {
	c, _, _ := newController(t)
	snap := c.Snapshot()
	if snap.Version != constants.SchemaVersion || len(snap.Payload.Skills) != 0 {
		t.Errorf("Snapshot() = %+v, want default", snap)
	}
}

func TestStatusLifecycle(t *testing.T) {
	c, clk, _ := newController(t)

	skill, err := c.AddSkill("Guitar")
	if err != nil {
		t.Fatalf("AddSkill() error = %v", err)
	}
	if _, err := c.AddBlock(skill.ID, models.Monday, "06:00", "30"); err != nil {
		t.Fatalf("AddBlock() error = %v", err)
	}

	assertStatus := func(want tracker.Status, expected int) {
		t.Helper()
		st := c.Statuses()
		if len(st) != 1 {
			t.Fatalf("Statuses() len = %d, want 1", len(st))
		}
		if st[0].Status != want || st[0].ExpectedMinutes != expected {
			t.Errorf("status = %s/%d, want %s/%d", st[0].Status, st[0].ExpectedMinutes, want, expected)
		}
	}

	assertStatus(tracker.StatusIdle, 0)

	clk.Set(time.Date(2026, 3, 2, 7, 0, 0, 0, time.Local))
	assertStatus(tracker.StatusOverdue, 30)

	if _, err := c.LogMinutes("guitar", "0.5h"); err != nil {
		t.Fatalf("LogMinutes() error = %v", err)
	}
	assertStatus(tracker.StatusOnTrack, 30)
}

func TestMutationsPersist(t *testing.T) {
	c, clk, store := newController(t)

	skill, err := c.AddSkill("Spanish")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.SetPriority("spanish", models.IntPtr(1)); err != nil {
		t.Fatalf("SetPriority() error = %v", err)
	}
	if _, err := c.SetGoal(skill.ID, GoalDaily, "1h"); err != nil {
		t.Fatalf("SetGoal() error = %v", err)
	}
	if _, err := c.SetGoal(skill.ID, GoalWeekly, ""); err != nil {
		t.Fatalf("SetGoal(clear) error = %v", err)
	}
	if _, err := c.RenameSkill(skill.ID, "Español"); err != nil {
		t.Fatalf("RenameSkill() error = %v", err)
	}
	clk.Advance(time.Minute)

	reopened := Open(store, clk)
	got, err := reopened.Skill(skill.ID)
	if err != nil {
		t.Fatalf("Skill() after reopen error = %v", err)
	}
	if got.Name != "Español" {
		t.Errorf("Name = %q", got.Name)
	}
	if got.Priority == nil || *got.Priority != 1 {
		t.Errorf("Priority = %v, want 1", got.Priority)
	}
	if got.DailyGoalMinutes == nil || *got.DailyGoalMinutes != 60 {
		t.Errorf("DailyGoalMinutes = %v, want 60", got.DailyGoalMinutes)
	}
	if got.WeeklyGoalMinutes != nil {
		t.Errorf("WeeklyGoalMinutes = %v, want cleared", *got.WeeklyGoalMinutes)
	}
}

func TestBlockEditing(t *testing.T) {
	c, _, _ := newController(t)
	skill, _ := c.AddSkill("Chess")

	block, err := c.AddBlock(skill.ID, models.Friday, "", "")
	if err != nil {
		t.Fatalf("AddBlock() error = %v", err)
	}
	if block.StartTime != constants.DefaultBlockStart || block.Minutes != constants.DefaultBlockMinutes {
		t.Errorf("default block = %+v", block)
	}

	start := "18:30"
	mins := "45m"
	if err := c.UpdateBlock(skill.ID, models.Friday, block.ID, &start, &mins); err != nil {
		t.Fatalf("UpdateBlock() error = %v", err)
	}
	got, _ := c.Skill(skill.ID)
	if b := got.Schedule[models.Friday][0]; b.StartTime != "18:30" || b.Minutes != 45 {
		t.Errorf("updated block = %+v", b)
	}

	if err := c.DeleteBlock(skill.ID, models.Friday, block.ID); err != nil {
		t.Fatalf("DeleteBlock() error = %v", err)
	}
	got, _ = c.Skill(skill.ID)
	if len(got.Schedule[models.Friday]) != 0 {
		t.Error("DeleteBlock() left the block")
	}
	if err := c.DeleteBlock(skill.ID, models.Friday, block.ID); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("second DeleteBlock() error = %v, want ErrNotFound", err)
	}
}

func TestBlockAcceptsZeroMinutes(t *testing.T) {
	c, _, _ := newController(t)
	skill, _ := c.AddSkill("Chess")

	block, err := c.AddBlock(skill.ID, models.Monday, "06:00", "0")
	if err != nil {
		t.Fatalf("AddBlock(0) error = %v", err)
	}
	if block.Minutes != 0 {
		t.Errorf("block minutes = %d, want 0", block.Minutes)
	}

	mins := " 0 "
	other, _ := c.AddBlock(skill.ID, models.Monday, "07:00", "20")
	if err := c.UpdateBlock(skill.ID, models.Monday, other.ID, nil, &mins); err != nil {
		t.Fatalf("UpdateBlock(0) error = %v", err)
	}
	day, got, err := c.Block(skill.ID, other.ID)
	if err != nil || day != models.Monday || got.Minutes != 0 {
		t.Errorf("Block() = %s, %+v, %v", day, got, err)
	}
	if _, _, err := c.Block(skill.ID, "missing"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("Block(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDurationErrorsLeaveStateUnchanged(t *testing.T) {
	c, _, _ := newController(t)
	skill, _ := c.AddSkill("Drawing")
	before := c.Snapshot()

	_, err := c.LogMinutes(skill.ID, "30.5min")
	var pe *duration.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("LogMinutes() error = %v, want ParseError", err)
	}
	if _, err := c.AddBlock(skill.ID, models.Monday, "06:00", "-5"); !errors.As(err, &pe) {
		t.Errorf("AddBlock() error = %v, want ParseError", err)
	}
	after := c.Snapshot()
	if !after.UpdatedAt.Equal(before.UpdatedAt.Time) || len(after.Payload.Sessions) != 0 {
		t.Error("failed parse changed state")
	}
}

func TestDeleteSkillKeepsSessions(t *testing.T) {
	c, _, _ := newController(t)
	skill, _ := c.AddSkill("Running")
	if _, err := c.LogMinutes(skill.ID, "20"); err != nil {
		t.Fatal(err)
	}

	if _, err := c.DeleteSkill("running"); err != nil {
		t.Fatalf("DeleteSkill() error = %v", err)
	}
	orphans := c.Orphans()
	if len(orphans) != 1 || orphans[0].SkillID != skill.ID {
		t.Errorf("Orphans() = %+v, want the logged session", orphans)
	}
	if len(c.Snapshot().Payload.Sessions) != 1 {
		t.Error("DeleteSkill() removed sessions")
	}
	if res := c.Validate(); res.Count("orphan_session") != 1 {
		t.Errorf("Validate() orphan count = %d", res.Count("orphan_session"))
	}

	if err := c.DeleteSession(orphans[0].ID); err != nil {
		t.Fatalf("DeleteSession() error = %v", err)
	}
	if len(c.Orphans()) != 0 {
		t.Error("DeleteSession() left the orphan")
	}
}

func TestSaveFailureKeepsSnapshot(t *testing.T) {
	c, _, store := newController(t)
	if _, err := c.AddSkill("Yoga"); err != nil {
		t.Fatal(err)
	}
	store.FailWrites = errors.New("disk full")

	if _, err := c.AddSkill("Swimming"); err == nil {
		t.Fatal("AddSkill() expected error")
	}
	if n := len(c.Snapshot().Payload.Skills); n != 1 {
		t.Errorf("skills after failed save = %d, want 1", n)
	}
}

func TestImportRejectsWithoutChange(t *testing.T) {
	c, _, _ := newController(t)
	if _, err := c.AddSkill("Piano"); err != nil {
		t.Fatal(err)
	}
	before := c.Snapshot()

	_, err := c.Import([]byte(`{"version":2,"updatedAtIso":"2026-03-02T00:00:00.000Z","payload":{}}`))
	if err == nil || err.Error() != "Invalid backup file format (expected version 1)." {
		t.Fatalf("Import() error = %v", err)
	}
	after := c.Snapshot()
	if len(after.Payload.Skills) != 1 || !after.UpdatedAt.Equal(before.UpdatedAt.Time) {
		t.Error("rejected import changed state")
	}
}

func TestExportImportApply(t *testing.T) {
	dir := t.TempDir()
	clk := &clock.Manual{T: time.Date(2026, 3, 2, 9, 0, 0, 0, time.Local)}
	store := storage.NewMemoryStore()
	mgr := backup.NewManager(filepath.Join(dir, "backups"), 0)
	c := Open(store, clk, WithBackups(mgr))

	if _, err := c.AddSkill("Piano"); err != nil {
		t.Fatal(err)
	}
	art, err := c.Export("json")
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	if _, err := c.AddSkill("Violin"); err != nil {
		t.Fatal(err)
	}
	imported, err := c.Import(art.Data)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(c.Snapshot().Payload.Skills) != 2 {
		t.Fatal("Import() alone changed state")
	}

	clk.Advance(time.Hour)
	if err := c.ApplyImport(imported); err != nil {
		t.Fatalf("ApplyImport() error = %v", err)
	}
	if skills := c.Snapshot().Payload.Skills; len(skills) != 1 || skills[0].Name != "Piano" {
		t.Errorf("after ApplyImport skills = %+v", skills)
	}

	backups, err := mgr.ListBackups()
	if err != nil || len(backups) != 1 {
		t.Fatalf("ListBackups() = %v, %v; want the pre-import backup", backups, err)
	}
	restored, err := c.Restore(backups[0].Path)
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if len(restored.Payload.Skills) != 2 {
		t.Errorf("Restore() skills = %d, want 2", len(restored.Payload.Skills))
	}
}

func TestReload(t *testing.T) {
	c, clk, store := newController(t)
	other := Open(store, clk)
	if _, err := other.AddSkill("Writing"); err != nil {
		t.Fatal(err)
	}
	if len(c.Skills()) != 0 {
		t.Fatal("controllers share state")
	}
	c.Reload()
	if len(c.Skills()) != 1 {
		t.Error("Reload() did not pick up the stored snapshot")
	}
}

func TestSkillResolutionErrors(t *testing.T) {
	c, _, _ := newController(t)
	if _, err := c.AddSkill("Run"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.AddSkill("run"); err != nil {
		t.Fatal(err)
	}
	if _, err := c.LogMinutes("RUN", "10"); !errors.Is(err, apperrors.ErrAmbiguous) {
		t.Errorf("LogMinutes(ambiguous) error = %v", err)
	}
	if _, err := c.DeleteSkill("swim"); !errors.Is(err, apperrors.ErrNotFound) {
		t.Errorf("DeleteSkill(missing) error = %v", err)
	}
	if _, err := c.SetGoal("Run", GoalKind("monthly"), "10"); err == nil {
		t.Error("SetGoal(unknown kind) expected error")
	}
}
