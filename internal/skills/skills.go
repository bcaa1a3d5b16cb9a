// Package skills manages the skill list inside an AppPayload. Skills are
// only ever replaced as whole values; every operation returns a new payload.
package skills

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/pa/internal/constants"
	apperrors "github.com/julianstephens/pa/internal/errors"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/schedule"
)

// OptionalInt distinguishes "leave unchanged" from "clear" (Set with nil Value).
type OptionalInt struct {
	Set   bool
	Value *int
}

// SetTo returns an OptionalInt that assigns v (nil clears the field).
func SetTo(v *int) OptionalInt {
	return OptionalInt{Set: true, Value: v}
}

// Patch lists the fields to overwrite on a skill.
type Patch struct {
	Name       *string
	Priority   OptionalInt
	DailyGoal  OptionalInt
	WeeklyGoal OptionalInt
	Schedule   models.WeeklySchedule
}

// New builds a skill with an empty week, the default priority and default goals.
func New(name string, now time.Time) (models.Skill, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Skill{}, fmt.Errorf("skill name is required: %w", apperrors.ErrInvalidInput)
	}
	return models.Skill{
		ID:                uuid.New().String(),
		Name:              name,
		Priority:          models.IntPtr(constants.DefaultPriority),
		DailyGoalMinutes:  models.IntPtr(constants.DefaultDailyGoalMinutes),
		WeeklyGoalMinutes: models.IntPtr(constants.DefaultWeeklyGoalMinutes),
		Schedule:          schedule.DefaultWeeklySchedule(),
		CreatedAt:         models.At(now),
		UpdatedAt:         models.At(now),
	}, nil
}

// Add prepends a new skill named name.
func Add(p models.AppPayload, name string, now time.Time) (models.AppPayload, models.Skill, error) {
	skill, err := New(name, now)
	if err != nil {
		return models.AppPayload{}, models.Skill{}, err
	}
	out := p.Clone()
	out.Skills = append([]models.Skill{skill}, out.Skills...)
	return out, skill, nil
}

// Update replaces skill id with a patched copy and refreshes its update time.
func Update(p models.AppPayload, id string, patch Patch, now time.Time) (models.AppPayload, models.Skill, error) {
	if err := validatePatch(patch); err != nil {
		return models.AppPayload{}, models.Skill{}, err
	}

	idx := indexOf(p, id)
	if idx < 0 {
		return models.AppPayload{}, models.Skill{}, fmt.Errorf("skill %s: %w", id, apperrors.ErrNotFound)
	}

	out := p.Clone()
	next := out.Skills[idx]
	if patch.Name != nil {
		next.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Priority.Set {
		next.Priority = copyInt(patch.Priority.Value)
	}
	if patch.DailyGoal.Set {
		next.DailyGoalMinutes = copyInt(patch.DailyGoal.Value)
	}
	if patch.WeeklyGoal.Set {
		next.WeeklyGoalMinutes = copyInt(patch.WeeklyGoal.Value)
	}
	if patch.Schedule != nil {
		next.Schedule = patch.Schedule.Clone()
	}
	next.UpdatedAt = models.At(now)
	out.Skills[idx] = next
	return out, next, nil
}

// Delete removes skill id. Sessions that reference it are kept.
func Delete(p models.AppPayload, id string) (models.AppPayload, error) {
	idx := indexOf(p, id)
	if idx < 0 {
		return models.AppPayload{}, fmt.Errorf("skill %s: %w", id, apperrors.ErrNotFound)
	}
	out := p.Clone()
	out.Skills = append(out.Skills[:idx], out.Skills[idx+1:]...)
	return out, nil
}

// Find returns the skill with id.
func Find(p models.AppPayload, id string) (models.Skill, bool) {
	idx := indexOf(p, id)
	if idx < 0 {
		return models.Skill{}, false
	}
	return p.Skills[idx], true
}

// Resolve finds a skill by exact id, then by case-insensitive name.
func Resolve(p models.AppPayload, ref string) (models.Skill, error) {
	ref = strings.TrimSpace(ref)
	if s, ok := Find(p, ref); ok {
		return s, nil
	}

	var matches []models.Skill
	for _, s := range p.Skills {
		if strings.EqualFold(s.Name, ref) {
			matches = append(matches, s)
		}
	}
	switch len(matches) {
	case 0:
		return models.Skill{}, fmt.Errorf("skill %q: %w", ref, apperrors.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return models.Skill{}, fmt.Errorf("%d skills named %q, use the id: %w", len(matches), ref, apperrors.ErrAmbiguous)
	}
}

func validatePatch(patch Patch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("skill name is required: %w", apperrors.ErrInvalidInput)
	}
	if v := patch.Priority.Value; patch.Priority.Set && v != nil && (*v < constants.MinPriority || *v > constants.MaxPriority) {
		return fmt.Errorf("priority must be between %d and %d: %w", constants.MinPriority, constants.MaxPriority, apperrors.ErrInvalidInput)
	}
	if v := patch.DailyGoal.Value; patch.DailyGoal.Set && v != nil && *v <= 0 {
		return fmt.Errorf("daily goal must be > 0: %w", apperrors.ErrInvalidInput)
	}
	if v := patch.WeeklyGoal.Value; patch.WeeklyGoal.Set && v != nil && *v <= 0 {
		return fmt.Errorf("weekly goal must be > 0: %w", apperrors.ErrInvalidInput)
	}
	return nil
}

func indexOf(p models.AppPayload, id string) int {
	for i, s := range p.Skills {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	return models.IntPtr(*v)
}
