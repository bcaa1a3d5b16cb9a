// Package ledger records completed practice time. Sessions are append-only
// facts: they can be added or deleted, never edited.
package ledger

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/julianstephens/pa/internal/errors"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/utils"
)

// NewSession builds a session for skillID logged at now.
func NewSession(skillID string, minutes int, now time.Time) (models.Session, error) {
	if minutes <= 0 {
		return models.Session{}, fmt.Errorf("session minutes must be > 0: %w", apperrors.ErrInvalidInput)
	}
	return models.Session{
		ID:        uuid.New().String(),
		SkillID:   skillID,
		Minutes:   minutes,
		StartedAt: models.At(now),
		CreatedAt: models.At(now),
	}, nil
}

// AddSession returns a new payload with session prepended.
func AddSession(p models.AppPayload, session models.Session) models.AppPayload {
	out := p.Clone()
	out.Sessions = append([]models.Session{session}, out.Sessions...)
	return out
}

// DeleteSession removes session id.
func DeleteSession(p models.AppPayload, id string) (models.AppPayload, error) {
	for i, s := range p.Sessions {
		if s.ID != id {
			continue
		}
		out := p.Clone()
		out.Sessions = append(out.Sessions[:i], out.Sessions[i+1:]...)
		return out, nil
	}
	return models.AppPayload{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
}

// ForSkill returns the sessions referencing skillID, newest first.
func ForSkill(p models.AppPayload, skillID string) []models.Session {
	var out []models.Session
	for _, s := range p.Sessions {
		if s.SkillID == skillID {
			out = append(out, s)
		}
	}
	return out
}

// TodayForSkill returns skillID's sessions logged on now's local calendar day,
// up to and including now.
func TodayForSkill(p models.AppPayload, skillID string, now time.Time) []models.Session {
	var out []models.Session
	for _, s := range p.Sessions {
		if s.SkillID != skillID {
			continue
		}
		if utils.SameLocalDay(s.StartedAt.Time, now) && !s.StartedAt.After(now) {
			out = append(out, s)
		}
	}
	return out
}

// MinutesTodayForSkill sums the minutes of TodayForSkill.
func MinutesTodayForSkill(p models.AppPayload, skillID string, now time.Time) int {
	return sumMinutes(TodayForSkill(p, skillID, now))
}

// MinutesThisWeekForSkill sums skillID's minutes from local Monday 00:00 through now.
func MinutesThisWeekForSkill(p models.AppPayload, skillID string, now time.Time) int {
	start := utils.StartOfWeek(now)
	total := 0
	for _, s := range p.Sessions {
		if s.SkillID != skillID {
			continue
		}
		if !s.StartedAt.Before(start) && !s.StartedAt.After(now) {
			total += s.Minutes
		}
	}
	return total
}

// Orphans returns sessions whose skill no longer exists.
func Orphans(p models.AppPayload) []models.Session {
	known := make(map[string]bool, len(p.Skills))
	for _, s := range p.Skills {
		known[s.ID] = true
	}
	var out []models.Session
	for _, s := range p.Sessions {
		if !known[s.SkillID] {
			out = append(out, s)
		}
	}
	return out
}

func sumMinutes(sessions []models.Session) int {
	total := 0
	for _, s := range sessions {
		total += s.Minutes
	}
	return total
}
