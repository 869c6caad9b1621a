package model

import "time"

// WeekFile is the cached copy of one user's week, as last fetched.
type WeekFile struct {
	UserID    int64         `json:"user_id"`
	WeekStart Date          `json:"week_start"`
	SavedAt   time.Time     `json:"saved_at"`
	Entries   []TimeEntry   `json:"entries"`
	Leaves    []LeaveRecord `json:"leaves"`
	Holidays  []Holiday     `json:"holidays"`
	Projects  []Project     `json:"projects"`
}
