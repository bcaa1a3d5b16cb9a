// Package validation inspects a payload for integrity problems. Findings are
// informational: Load and the schedule editor tolerate all of them.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/julianstephens/pa/internal/constants"
	"github.com/julianstephens/pa/internal/ledger"
	"github.com/julianstephens/pa/internal/models"
	"github.com/julianstephens/pa/internal/schedule"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOrphanSession      ConflictType = "orphan_session"
	ConflictInvalidStartTime   ConflictType = "invalid_start_time"
	ConflictDuplicateID        ConflictType = "duplicate_id"
	ConflictDuplicateSkillName ConflictType = "duplicate_skill_name"
	ConflictInvalidPriority    ConflictType = "invalid_priority"
	ConflictInvalidMinutes     ConflictType = "invalid_minutes"
	ConflictOverlappingBlocks  ConflictType = "overlapping_blocks"
)

// Conflict is one finding.
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns how many conflicts of type t were found.
func (vr *ValidationResult) Count(t ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No problems detected."
	}
	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, c := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", c.Description)
	}
	return b.String()
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidatePayload runs every check in a fixed order.
func (v *Validator) ValidatePayload(p models.AppPayload) ValidationResult {
	var res ValidationResult
	res.Conflicts = append(res.Conflicts, v.checkDuplicateIDs(p)...)
	res.Conflicts = append(res.Conflicts, v.checkSkillNames(p.Skills)...)
	for _, s := range p.Skills {
		res.Conflicts = append(res.Conflicts, v.checkSkill(s)...)
	}
	res.Conflicts = append(res.Conflicts, v.checkSessions(p)...)
	return res
}

func (v *Validator) checkDuplicateIDs(p models.AppPayload) []Conflict {
	seen := map[string]string{}
	var out []Conflict
	note := func(kind, id string) {
		if prev, ok := seen[id]; ok {
			out = append(out, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("id %s is used by a %s and a %s", id, prev, kind),
				IDs:         []string{id},
			})
			return
		}
		seen[id] = kind
	}
	for _, s := range p.Skills {
		note("skill", s.ID)
		for _, d := range models.Weekdays {
			for _, b := range s.Schedule.Day(d) {
				note("block", b.ID)
			}
		}
	}
	for _, s := range p.Sessions {
		note("session", s.ID)
	}
	return out
}

func (v *Validator) checkSkillNames(skills []models.Skill) []Conflict {
	byName := map[string][]string{}
	var order []string
	for _, s := range skills {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if _, ok := byName[key]; !ok {
			order = append(order, key)
		}
		byName[key] = append(byName[key], s.ID)
	}
	var out []Conflict
	for _, key := range order {
		if ids := byName[key]; len(ids) > 1 {
			out = append(out, Conflict{
				Type:        ConflictDuplicateSkillName,
				Description: fmt.Sprintf("%d skills share the name %q; refer to them by id", len(ids), key),
				IDs:         ids,
			})
		}
	}
	return out
}

func (v *Validator) checkSkill(s models.Skill) []Conflict {
	var out []Conflict
	if s.Priority != nil && (*s.Priority < constants.MinPriority || *s.Priority > constants.MaxPriority) {
		out = append(out, Conflict{
			Type:        ConflictInvalidPriority,
			Description: fmt.Sprintf("skill %q has priority %d (expected %d-%d)", s.Name, *s.Priority, constants.MinPriority, constants.MaxPriority),
			IDs:         []string{s.ID},
		})
	}

	for _, d := range models.Weekdays {
		blocks := s.Schedule.Day(d)
		for _, b := range blocks {
			if !schedule.ValidStartTime(b.StartTime) {
				out = append(out, Conflict{
					Type:        ConflictInvalidStartTime,
					Description: fmt.Sprintf("skill %q %s block has start time %q, treated as 00:00", s.Name, d.Long(), b.StartTime),
					IDs:         []string{s.ID, b.ID},
				})
			}
			if b.Minutes < 0 {
				out = append(out, Conflict{
					Type:        ConflictInvalidMinutes,
					Description: fmt.Sprintf("skill %q %s block has negative length %d", s.Name, d.Long(), b.Minutes),
					IDs:         []string{s.ID, b.ID},
				})
			}
		}
		out = append(out, overlaps(s, d, blocks)...)
	}
	return out
}

// overlaps reports each pair of consecutive blocks (by start) whose
// intervals intersect.
func overlaps(s models.Skill, d models.Weekday, blocks []models.ScheduleBlock) []Conflict {
	sorted := make([]models.ScheduleBlock, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		return schedule.StartMinutes(sorted[i].StartTime) < schedule.StartMinutes(sorted[j].StartTime)
	})

	var out []Conflict
	for i := 1; i < len(sorted); i++ {
		prev, cur := sorted[i-1], sorted[i]
		if schedule.StartMinutes(prev.StartTime)+prev.Minutes > schedule.StartMinutes(cur.StartTime) {
			out = append(out, Conflict{
				Type:        ConflictOverlappingBlocks,
				Description: fmt.Sprintf("skill %q %s blocks at %s and %s overlap", s.Name, d.Long(), prev.StartTime, cur.StartTime),
				IDs:         []string{prev.ID, cur.ID},
			})
		}
	}
	return out
}

func (v *Validator) checkSessions(p models.AppPayload) []Conflict {
	var out []Conflict
	for _, s := range p.Sessions {
		if s.Minutes <= 0 {
			out = append(out, Conflict{
				Type:        ConflictInvalidMinutes,
				Description: fmt.Sprintf("session %s has non-positive length %d", s.ID, s.Minutes),
				IDs:         []string{s.ID},
			})
		}
	}
	for _, s := range ledger.Orphans(p) {
		out = append(out, Conflict{
			Type:        ConflictOrphanSession,
			Description: fmt.Sprintf("session %s (%d min) references deleted skill %s", s.ID, s.Minutes, s.SkillID),
			IDs:         []string{s.ID},
		})
	}
	return out
}
