package events

import (
	"time"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered   EventType = "user_registered"
	EventStatsUpdated     EventType = "stats_updated"
	EventReceiptGenerated EventType = "receipt_generated"
	EventReceiptPaid      EventType = "receipt_paid"
	EventTicketSubmitted  EventType = "ticket_submitted"
	EventTicketResolved   EventType = "ticket_resolved"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	OwnerID   string      `json:"owner_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// StatsUpdatedPayload payload.
type StatsUpdatedPayload struct {
	WeekUsage  float64 `json:"week_usage"`
	MonthUsage float64 `json:"month_usage"`
}

// ReceiptGeneratedPayload payload.
type ReceiptGeneratedPayload struct {
	BillingMonth string    `json:"billing_month"`
	Total        float64   `json:"total"`
	DueDate      time.Time `json:"due_date"`
}

// ReceiptPaidPayload payload.
type ReceiptPaidPayload struct {
	Total    float64   `json:"total"`
	PaidDate time.Time `json:"paid_date"`
}

// TicketSubmittedPayload payload.
type TicketSubmittedPayload struct {
	CustomerName string `json:"customer_name"`
	Subject      string `json:"subject"`
}

// TicketResolvedPayload payload.
type TicketResolvedPayload struct {
	Subject         string `json:"subject"`
	ResponsePreview string `json:"response_preview"`
}
