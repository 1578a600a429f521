package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// SupportTicketRepository encapsulates support ticket persistence.
type SupportTicketRepository interface {
	Create(ctx context.Context, ticket *domain.SupportTicket) error
	// List returns tickets with open ones first, then newest first. A nil
	// userID lists every ticket.
	List(ctx context.Context, userID *string) ([]domain.SupportTicket, error)
	// Resolve stores the response and marks the ticket resolved whatever its
	// current status. It returns pgx.ErrNoRows when the ticket does not exist.
	Resolve(ctx context.Context, ticketID, response string) (*domain.SupportTicket, error)
}

type supportTicketRepository struct {
	pool *pgxpool.Pool
}

// NewSupportTicketRepository instantiates repository.
func NewSupportTicketRepository(pool *pgxpool.Pool) SupportTicketRepository {
	return &supportTicketRepository{pool: pool}
}

const ticketColumns = `id, user_id, customer_name, subject, message, status, response, created_at, updated_at`

func (r *supportTicketRepository) Create(ctx context.Context, ticket *domain.SupportTicket) error {
	const query = `
        INSERT INTO support_tickets (user_id, customer_name, subject, message, status)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	err := r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.CustomerName,
		ticket.Subject,
		ticket.Message,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
	return translateError(err)
}

func (r *supportTicketRepository) List(ctx context.Context, userID *string) ([]domain.SupportTicket, error) {
	query := `SELECT ` + ticketColumns + ` FROM support_tickets`
	args := []any{domain.SupportTicketOpen}
	if userID != nil {
		args = append(args, *userID)
		query += fmt.Sprintf(" WHERE user_id=$%d", len(args))
	}
	query += ` ORDER BY CASE WHEN status=$1 THEN 0 ELSE 1 END, created_at DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := []domain.SupportTicket{}
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, *ticket)
	}
	return tickets, rows.Err()
}

var resolveTicketQuery = `
        UPDATE support_tickets
        SET response=$1, status=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING ` + ticketColumns

func (r *supportTicketRepository) Resolve(ctx context.Context, ticketID, response string) (*domain.SupportTicket, error) {
	return scanTicket(r.pool.QueryRow(ctx, resolveTicketQuery, response, domain.SupportTicketResolved, ticketID))
}

func scanTicket(row pgx.Row) (*domain.SupportTicket, error) {
	var ticket domain.SupportTicket
	if err := row.Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.CustomerName,
		&ticket.Subject,
		&ticket.Message,
		&ticket.Status,
		&ticket.Response,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}
