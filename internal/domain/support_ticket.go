package domain

import "time"

// SupportTicketStatus enumerates lifecycle states for support tickets.
type SupportTicketStatus string

const (
	SupportTicketOpen     SupportTicketStatus = "open"
	SupportTicketResolved SupportTicketStatus = "resolved"
)

// SupportTicket is a customer request answered by an admin.
// Response stays nil while the ticket is open.
type SupportTicket struct {
	ID           string
	UserID       string
	CustomerName string
	Subject      string
	Message      string
	Status       SupportTicketStatus
	Response     *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
