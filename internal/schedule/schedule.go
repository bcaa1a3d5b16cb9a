// Package schedule builds and edits weekly recurring plans. Every edit
// returns a new WeeklySchedule; the input is never modified.
package schedule

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/google/uuid"

	"github.com/julianstephens/pa/internal/constants"
	apperrors "github.com/julianstephens/pa/internal/errors"
	"github.com/julianstephens/pa/internal/models"
)

var startTimeRe = regexp.MustCompile(`^(\d{2}):(\d{2})$`)

// BlockSpec describes a block to add. Zero values select the defaults.
type BlockSpec struct {
	StartTime string
	Minutes   *int
}

// BlockPatch describes an in-place edit; nil fields are left unchanged.
type BlockPatch struct {
	StartTime *string
	Minutes   *int
}

// DefaultWeeklySchedule returns all seven days, each with no blocks.
func DefaultWeeklySchedule() models.WeeklySchedule {
	s := make(models.WeeklySchedule, len(models.Weekdays))
	for _, d := range models.Weekdays {
		s[d] = []models.ScheduleBlock{}
	}
	return s
}

// StartMinutes returns minutes since midnight for an "HH:MM" string.
// Anything that is not a real 24-hour time counts as midnight.
func StartMinutes(startTime string) int {
	minutes, ok := parseStartTime(startTime)
	if !ok {
		return 0
	}
	return minutes
}

// ValidStartTime reports whether startTime is a real 24-hour "HH:MM" time.
func ValidStartTime(startTime string) bool {
	_, ok := parseStartTime(startTime)
	return ok
}

func parseStartTime(startTime string) (int, bool) {
	m := startTimeRe.FindStringSubmatch(startTime)
	if m == nil {
		return 0, false
	}
	h, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	if h >= 24 || mm >= 60 {
		return 0, false
	}
	return h*60 + mm, true
}

// AddBlock appends a block with a fresh id to day.
func AddBlock(s models.WeeklySchedule, day models.Weekday, spec BlockSpec) (models.WeeklySchedule, models.ScheduleBlock, error) {
	block := models.ScheduleBlock{
		ID:        uuid.New().String(),
		StartTime: constants.DefaultBlockStart,
		Minutes:   constants.DefaultBlockMinutes,
	}
	if spec.StartTime != "" {
		block.StartTime = spec.StartTime
	}
	if spec.Minutes != nil {
		if *spec.Minutes < 0 {
			return nil, models.ScheduleBlock{}, fmt.Errorf("block minutes must be >= 0: %w", apperrors.ErrInvalidInput)
		}
		block.Minutes = *spec.Minutes
	}
	if err := checkDay(day); err != nil {
		return nil, models.ScheduleBlock{}, err
	}

	out := s.Clone()
	out[day] = append(out[day], block)
	return out, block, nil
}

// UpdateBlock replaces the block with id in day, keeping its position.
func UpdateBlock(s models.WeeklySchedule, day models.Weekday, id string, patch BlockPatch) (models.WeeklySchedule, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}
	if patch.Minutes != nil && *patch.Minutes < 0 {
		return nil, fmt.Errorf("block minutes must be >= 0: %w", apperrors.ErrInvalidInput)
	}

	out := s.Clone()
	blocks := out[day]
	for i := range blocks {
		if blocks[i].ID != id {
			continue
		}
		if patch.StartTime != nil {
			blocks[i].StartTime = *patch.StartTime
		}
		if patch.Minutes != nil {
			blocks[i].Minutes = *patch.Minutes
		}
		return out, nil
	}
	return nil, fmt.Errorf("block %s on %s: %w", id, day, apperrors.ErrNotFound)
}

// DeleteBlock removes the block with id from day; other blocks keep their order.
func DeleteBlock(s models.WeeklySchedule, day models.Weekday, id string) (models.WeeklySchedule, error) {
	if err := checkDay(day); err != nil {
		return nil, err
	}

	out := s.Clone()
	blocks := out[day]
	kept := make([]models.ScheduleBlock, 0, len(blocks))
	found := false
	for _, b := range blocks {
		if b.ID == id {
			found = true
			continue
		}
		kept = append(kept, b)
	}
	if !found {
		return nil, fmt.Errorf("block %s on %s: %w", id, day, apperrors.ErrNotFound)
	}
	out[day] = kept
	return out, nil
}

// FindBlock locates a block by id anywhere in the week.
func FindBlock(s models.WeeklySchedule, id string) (models.Weekday, models.ScheduleBlock, bool) {
	for _, d := range models.Weekdays {
		for _, b := range s[d] {
			if b.ID == id {
				return d, b, true
			}
		}
	}
	return "", models.ScheduleBlock{}, false
}

// PlannedMinutes sums the planned minutes for day.
func PlannedMinutes(s models.WeeklySchedule, day models.Weekday) int {
	total := 0
	for _, b := range s[day] {
		total += b.Minutes
	}
	return total
}

func checkDay(day models.Weekday) error {
	for _, d := range models.Weekdays {
		if d == day {
			return nil
		}
	}
	return fmt.Errorf("unknown weekday %q: %w", day, apperrors.ErrInvalidInput)
}
