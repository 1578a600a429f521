package domain

import "time"

// UsageStats holds consumption figures for one user. A missing row means zero usage.
type UsageStats struct {
	UserID     string
	WeekUsage  float64
	MonthUsage float64
	UpdatedAt  *time.Time
}
