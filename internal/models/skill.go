package models

// Skill is a trackable recurring practice.
type Skill struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Priority          *int           `json:"priority,omitempty"` // 1 highest .. 4 lowest, nil = unranked
	DailyGoalMinutes  *int           `json:"dailyGoalMinutes,omitempty"`
	WeeklyGoalMinutes *int           `json:"weeklyGoalMinutes,omitempty"`
	Schedule          WeeklySchedule `json:"schedule"`
	CreatedAt         Timestamp      `json:"createdAtIso"`
	UpdatedAt         Timestamp      `json:"updatedAtIso"`
}

// Clone returns a copy sharing no mutable state with s.
func (s Skill) Clone() Skill {
	out := s
	out.Priority = cloneInt(s.Priority)
	out.DailyGoalMinutes = cloneInt(s.DailyGoalMinutes)
	out.WeeklyGoalMinutes = cloneInt(s.WeeklyGoalMinutes)
	out.Schedule = s.Schedule.Clone()
	return out
}

// IntPtr is a convenience for optional integer fields.
func IntPtr(v int) *int {
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
