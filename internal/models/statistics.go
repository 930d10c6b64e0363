package models

import "time"

// UserStatistics is a per-day rollup of account activity.
type UserStatistics struct {
	Date           time.Time `json:"date"`
	NewUsers       int64     `json:"new_users"`
	ActiveUsers    int64     `json:"active_users"`
	SuspendedUsers int64     `json:"suspended_users"`
	BannedUsers    int64     `json:"banned_users"`
}
