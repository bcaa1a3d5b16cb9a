package models

// Session is an immutable record of time spent on a skill. SkillID is a
// reference only; the skill may no longer exist.
type Session struct {
	ID        string    `json:"id"`
	SkillID   string    `json:"skillId"`
	Minutes   int       `json:"minutes"`
	StartedAt Timestamp `json:"startedAtIso"`
	CreatedAt Timestamp `json:"createdAtIso"`
}
