// Package app owns the in-memory snapshot and the store it came from. Every
// mutation builds a new payload, saves it, and adopts what Save returned; a
// failed save leaves the current snapshot as it was.
package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/pa/internal/backup"
	"github.com/julianstephens/pa/internal/clock"
	"github.com/julianstephens/pa/internal/duration"
	apperrors "github.com/julianstephens/pa/internal/errors"
	"github.com/julianstephens/pa/internal/ledger"
	"github.com/julianstephens/pa/internal/logger"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/persistence"
	"github.com/julianstephens/pa/internal/schedule"
	"github.com/julianstephens/pa/internal/skills"
	"github.com/julianstephens/pa/internal/storage"
	"github.com/julianstephens/pa/internal/tracker"
	"github.com/julianstephens/pa/internal/validation"
)

// GoalKind selects which goal SetGoal edits.
type GoalKind string

const (
	GoalDaily  GoalKind = "daily"
	GoalWeekly GoalKind = "weekly"
)

type Controller struct {
	store   storage.Provider
	clock   clock.Clock
	tracker *tracker.Tracker
	backups *backup.Manager
	data    models.AppData
}

type Option func(*Controller)

// WithBackups enables the safety backup taken before an import replaces state.
func WithBackups(m *backup.Manager) Option {
	return func(c *Controller) { c.backups = m }
}

// Open loads the current snapshot from store. It never fails: unusable data
// is replaced by an empty snapshot.
func Open(store storage.Provider, clk clock.Clock, opts ...Option) *Controller {
	if clk == nil {
		clk = clock.System{}
	}
	c := &Controller{store: store, clock: clk, tracker: tracker.New()}
	for _, opt := range opts {
		opt(c)
	}
	c.data = persistence.Load(store, c.now())
	return c
}

func (c *Controller) now() time.Time {
	return c.clock.Now()
}

// Now is the controller's clock reading.
func (c *Controller) Now() time.Time {
	return c.now()
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() models.AppData {
	return c.data.Clone()
}

// Store exposes the backing provider for diagnostics.
func (c *Controller) Store() storage.Provider {
	return c.store
}

// Backups returns the configured backup manager, or nil.
func (c *Controller) Backups() *backup.Manager {
	return c.backups
}

// Reload discards in-memory state and rereads the store.
func (c *Controller) Reload() {
	c.data = persistence.Load(c.store, c.now())
}

func (c *Controller) commit(p models.AppPayload) error {
	next := c.data.Clone()
	next.Payload = p
	saved, err := persistence.Save(c.store, next, c.now())
	if err != nil {
		return err
	}
	c.data = saved
	return nil
}

// Skills returns every skill in display order.
func (c *Controller) Skills() []models.Skill {
	return c.tracker.SortSkills(c.data.Payload.Skills)
}

// Skill resolves ref (id or unique name).
func (c *Controller) Skill(ref string) (models.Skill, error) {
	return skills.Resolve(c.data.Payload, ref)
}

func (c *Controller) AddSkill(name string) (models.Skill, error) {
	p, skill, err := skills.Add(c.data.Payload, name, c.now())
	if err != nil {
		return models.Skill{}, err
	}
	if err := c.commit(p); err != nil {
		return models.Skill{}, err
	}
	logger.Debug("skill added", "id", skill.ID, "name", skill.Name)
	return skill, nil
}

func (c *Controller) RenameSkill(ref, name string) (models.Skill, error) {
	return c.patch(ref, skills.Patch{Name: &name})
}

// SetPriority sets 1..4, or clears the priority when p is nil.
func (c *Controller) SetPriority(ref string, p *int) (models.Skill, error) {
	return c.patch(ref, skills.Patch{Priority: skills.SetTo(p)})
}

// SetGoal parses text as a duration; blank text clears the goal.
func (c *Controller) SetGoal(ref string, kind GoalKind, text string) (models.Skill, error) {
	var value *int
	if strings.TrimSpace(text) != "" {
		minutes, err := duration.Parse(text)
		if err != nil {
			return models.Skill{}, err
		}
		value = &minutes
	}
	switch kind {
	case GoalDaily:
		return c.patch(ref, skills.Patch{DailyGoal: skills.SetTo(value)})
	case GoalWeekly:
		return c.patch(ref, skills.Patch{WeeklyGoal: skills.SetTo(value)})
	default:
		return models.Skill{}, fmt.Errorf("unknown goal kind %q: %w", kind, apperrors.ErrInvalidInput)
	}
}

func (c *Controller) patch(ref string, patch skills.Patch) (models.Skill, error) {
	skill, err := c.Skill(ref)
	if err != nil {
		return models.Skill{}, err
	}
	p, updated, err := skills.Update(c.data.Payload, skill.ID, patch, c.now())
	if err != nil {
		return models.Skill{}, err
	}
	if err := c.commit(p); err != nil {
		return models.Skill{}, err
	}
	return updated, nil
}

// DeleteSkill removes the skill. Its sessions stay in the ledger as orphans.
func (c *Controller) DeleteSkill(ref string) (models.Skill, error) {
	skill, err := c.Skill(ref)
	if err != nil {
		return models.Skill{}, err
	}
	p, err := skills.Delete(c.data.Payload, skill.ID)
	if err != nil {
		return models.Skill{}, err
	}
	if err := c.commit(p); err != nil {
		return models.Skill{}, err
	}
	logger.Debug("skill deleted", "id", skill.ID, "orphaned_sessions", len(ledger.ForSkill(p, skill.ID)))
	return skill, nil
}

// AddBlock appends a block to day. Blank start or minutes use the defaults;
// minutesText accepts any duration form.
func (c *Controller) AddBlock(ref string, day models.Weekday, start, minutesText string) (models.ScheduleBlock, error) {
	skill, err := c.Skill(ref)
	if err != nil {
		return models.ScheduleBlock{}, err
	}
	spec := schedule.BlockSpec{StartTime: strings.TrimSpace(start)}
	if strings.TrimSpace(minutesText) != "" {
		minutes, err := blockMinutes(minutesText)
		if err != nil {
			return models.ScheduleBlock{}, err
		}
		spec.Minutes = &minutes
	}
	sched, block, err := schedule.AddBlock(skill.Schedule, day, spec)
	if err != nil {
		return models.ScheduleBlock{}, err
	}
	if _, err := c.patch(skill.ID, skills.Patch{Schedule: sched}); err != nil {
		return models.ScheduleBlock{}, err
	}
	return block, nil
}

// UpdateBlock edits the block with blockID on day; nil fields are unchanged.
func (c *Controller) UpdateBlock(ref string, day models.Weekday, blockID string, start, minutesText *string) error {
	skill, err := c.Skill(ref)
	if err != nil {
		return err
	}
	patch := schedule.BlockPatch{StartTime: start}
	if minutesText != nil {
		minutes, err := blockMinutes(*minutesText)
		if err != nil {
			return err
		}
		patch.Minutes = &minutes
	}
	sched, err := schedule.UpdateBlock(skill.Schedule, day, blockID, patch)
	if err != nil {
		return err
	}
	_, err = c.patch(skill.ID, skills.Patch{Schedule: sched})
	return err
}

// blockMinutes is duration.Parse plus a literal zero; a block may be planned
// with no time while a logged session may not.
func blockMinutes(text string) (int, error) {
	if strings.TrimSpace(text) == "0" {
		return 0, nil
	}
	return duration.Parse(text)
}

// Block returns the block with blockID and the day it is on.
func (c *Controller) Block(ref, blockID string) (models.Weekday, models.ScheduleBlock, error) {
	skill, err := c.Skill(ref)
	if err != nil {
		return "", models.ScheduleBlock{}, err
	}
	day, block, ok := schedule.FindBlock(skill.Schedule, blockID)
	if !ok {
		return "", models.ScheduleBlock{}, fmt.Errorf("block %s: %w", blockID, apperrors.ErrNotFound)
	}
	return day, block, nil
}

func (c *Controller) DeleteBlock(ref string, day models.Weekday, blockID string) error {
	skill, err := c.Skill(ref)
	if err != nil {
		return err
	}
	sched, err := schedule.DeleteBlock(skill.Schedule, day, blockID)
	if err != nil {
		return err
	}
	_, err = c.patch(skill.ID, skills.Patch{Schedule: sched})
	return err
}

// LogMinutes records a session for the skill starting now.
func (c *Controller) LogMinutes(ref, text string) (models.Session, error) {
	minutes, err := duration.Parse(text)
	if err != nil {
		return models.Session{}, err
	}
	skill, err := c.Skill(ref)
	if err != nil {
		return models.Session{}, err
	}
	session, err := ledger.NewSession(skill.ID, minutes, c.now())
	if err != nil {
		return models.Session{}, err
	}
	if err := c.commit(ledger.AddSession(c.data.Payload, session)); err != nil {
		return models.Session{}, err
	}
	logger.Debug("session logged", "skill", skill.ID, "minutes", minutes)
	return session, nil
}

func (c *Controller) DeleteSession(id string) error {
	p, err := ledger.DeleteSession(c.data.Payload, id)
	if err != nil {
		return err
	}
	return c.commit(p)
}

// Sessions lists a skill's sessions, newest first.
func (c *Controller) Sessions(ref string) ([]models.Session, error) {
	skill, err := c.Skill(ref)
	if err != nil {
		return nil, err
	}
	return ledger.ForSkill(c.data.Payload, skill.ID), nil
}

// Orphans lists sessions whose skill was deleted.
func (c *Controller) Orphans() []models.Session {
	return ledger.Orphans(c.data.Payload)
}

// Statuses evaluates every skill against the clock, in display order.
func (c *Controller) Statuses() []tracker.SkillProgress {
	return c.tracker.Overview(c.data.Payload, c.now())
}

// Export renders the current snapshot without changing it.
func (c *Controller) Export(format string) (persistence.Artifact, error) {
	return persistence.Export(c.data, c.now(), format)
}

// Import validates a document; current state is untouched.
func (c *Controller) Import(doc []byte) (models.AppData, error) {
	return persistence.Import(doc)
}

// ApplyImport replaces the current state with data, taking a backup of the
// existing snapshot first when backups are configured.
func (c *Controller) ApplyImport(data models.AppData) error {
	if c.backups != nil {
		path, err := c.backups.CreateBackup(c.data, c.now())
		if err != nil {
			return fmt.Errorf("failed to back up current data before import: %w", err)
		}
		logger.Info("backed up current data", "path", path)
	}
	next := data.Clone()
	saved, err := persistence.Save(c.store, next, c.now())
	if err != nil {
		return err
	}
	c.data = saved
	return nil
}

// Backup writes the current snapshot to the backup directory.
func (c *Controller) Backup() (string, error) {
	if c.backups == nil {
		return "", fmt.Errorf("backups are not configured")
	}
	return c.backups.CreateBackup(c.data, c.now())
}

// Restore imports a backup file and applies it.
func (c *Controller) Restore(path string) (models.AppData, error) {
	if c.backups == nil {
		return models.AppData{}, fmt.Errorf("backups are not configured")
	}
	data, err := c.backups.RestoreBackup(path)
	if err != nil {
		return models.AppData{}, err
	}
	if err := c.ApplyImport(data); err != nil {
		return models.AppData{}, err
	}
	return c.Snapshot(), nil
}

// Validate reports integrity problems in the current payload.
func (c *Controller) Validate() validation.ValidationResult {
	return validation.New().ValidatePayload(c.data.Payload)
}

func (c *Controller) Close() error {
	return c.store.Close()
}
