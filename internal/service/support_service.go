package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/billing-portal/internal/domain"
	"github.com/spec-kit/billing-portal/internal/events"
	"github.com/spec-kit/billing-portal/internal/repository"
)

const responsePreviewLength = 140

// SupportService coordinates the support desk workflow.
type SupportService struct {
	tickets repository.SupportTicketRepository
	events  publisher
}

// SupportDependencies bundles repositories for the support service.
type SupportDependencies struct {
	TicketRepo repository.SupportTicketRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// NewSupportService constructs the service.
func NewSupportService(deps SupportDependencies) *SupportService {
	return &SupportService{
		tickets: deps.TicketRepo,
		events:  newPublisher(deps.Dispatcher, deps.Logger),
	}
}

// Submit opens a ticket on behalf of the acting customer and returns it.
func (s *SupportService) Submit(ctx context.Context, actor domain.Identity, subject, message string) (*domain.SupportTicket, error) {
	subject = strings.TrimSpace(subject)
	message = strings.TrimSpace(message)
	if subject == "" || message == "" {
		return nil, ErrMissingFields
	}

	ticket := &domain.SupportTicket{
		UserID:       actor.ID,
		CustomerName: actor.Name,
		Subject:      subject,
		Message:      message,
		Status:       domain.SupportTicketOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventTicketSubmitted,
		SubjectID: ticket.ID,
		OwnerID:   ticket.UserID,
		Actor:     actorOf(actor),
		Payload:   events.TicketSubmittedPayload{CustomerName: ticket.CustomerName, Subject: ticket.Subject},
	})
	return ticket, nil
}

// ListAll returns every ticket, open ones first and newest first within a status.
func (s *SupportService) ListAll(ctx context.Context) ([]domain.SupportTicket, error) {
	return s.tickets.List(ctx, nil)
}

// ListForUser returns the tickets a customer submitted.
func (s *SupportService) ListForUser(ctx context.Context, userID string) ([]domain.SupportTicket, error) {
	return s.tickets.List(ctx, &userID)
}

// Respond records an admin answer and resolves the ticket whatever its prior status.
func (s *SupportService) Respond(ctx context.Context, actor domain.Identity, ticketID, response string) (*domain.SupportTicket, error) {
	response = strings.TrimSpace(response)
	if strings.TrimSpace(ticketID) == "" || response == "" {
		return nil, ErrMissingFields
	}
	id, err := parseID("ticketId", ticketID)
	if err != nil {
		return nil, err
	}

	ticket, err := s.tickets.Resolve(ctx, id, response)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrTicketNotFound
	}
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:      events.EventTicketResolved,
		SubjectID: ticket.ID,
		OwnerID:   ticket.UserID,
		Actor:     actorOf(actor),
		Payload: events.TicketResolvedPayload{
			Subject:         ticket.Subject,
			ResponsePreview: stringPreview(response, responsePreviewLength),
		},
	})
	return ticket, nil
}
