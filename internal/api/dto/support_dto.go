package dto

import (
	"time"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// SubmitTicketRequest payload for POST /api/auth/support.
type SubmitTicketRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitTicketResponse acknowledges a new ticket.
type SubmitTicketResponse struct {
	Message  string `json:"message"`
	TicketID string `json:"ticketId"`
}

// RespondTicketRequest payload for POST /api/admin/support/respond.
type RespondTicketRequest struct {
	TicketID string `json:"ticketId"`
	Response string `json:"response"`
}

// TicketResponse renders a support ticket.
type TicketResponse struct {
	ID           string                     `json:"id"`
	UserID       string                     `json:"user_id"`
	CustomerName string                     `json:"customer_name"`
	Subject      string                     `json:"subject"`
	Message      string                     `json:"message"`
	Status       domain.SupportTicketStatus `json:"status"`
	Response     *string                    `json:"response"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

// RespondedTicket is the short form returned after an admin reply.
type RespondedTicket struct {
	ID           string                     `json:"id"`
	CustomerName string                     `json:"customer_name"`
	Subject      string                     `json:"subject"`
	Status       domain.SupportTicketStatus `json:"status"`
}

// RespondTicketResponse for POST /api/admin/support/respond.
type RespondTicketResponse struct {
	Message string          `json:"message"`
	Ticket  RespondedTicket `json:"ticket"`
}

// NewTicketResponse maps a ticket.
func NewTicketResponse(t domain.SupportTicket) TicketResponse {
	return TicketResponse{
		ID:           t.ID,
		UserID:       t.UserID,
		CustomerName: t.CustomerName,
		Subject:      t.Subject,
		Message:      t.Message,
		Status:       t.Status,
		Response:     t.Response,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// NewTicketResponses maps a slice of tickets.
func NewTicketResponses(tickets []domain.SupportTicket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t))
	}
	return out
}
