// Package models holds the persisted server-side entities.
package models

import "time"

// User is the persisted account record. Credits never go below zero: the
// deduction queries are guarded by `credits > 0` and the schema carries a
// CHECK constraint as a second line of defense.
type User struct {
	ID                string
	Name              string
	Email             string
	PasswordHash      string
	Credits           int64
	TotalHoursTaught  int64
	TotalHoursLearned int64
	SessionsCompleted int64
	SkillsOffered     []Skill
	SkillsLearning    []Skill
	JoinedDate        time.Time
	LastLogin         time.Time
	IsActive          bool
}

// Stats is the aggregate counters block embedded in API responses.
type Stats struct {
	TotalHoursTaught  int64 `json:"totalHoursTaught"`
	TotalHoursLearned int64 `json:"totalHoursLearned"`
	SessionsCompleted int64 `json:"sessionsCompleted"`
}

// Stats returns the user's counters in response form.
func (u *User) Stats() Stats {
	return Stats{
		TotalHoursTaught:  u.TotalHoursTaught,
		TotalHoursLearned: u.TotalHoursLearned,
		SessionsCompleted: u.SessionsCompleted,
	}
}
