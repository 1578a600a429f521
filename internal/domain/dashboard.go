package domain

import "time"

// ActivityEntry is a recent receipt or ticket shown on the admin dashboard.
type ActivityEntry struct {
	Type        string
	Description string
	CreatedAt   time.Time
}

// DashboardSummary aggregates portal-wide figures for admins.
type DashboardSummary struct {
	TotalCustomers int64
	PendingCount   int64
	PendingAmount  float64
	OpenTickets    int64
	RecentActivity []ActivityEntry
}
