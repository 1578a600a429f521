package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// DashboardRepository computes admin dashboard aggregates.
type DashboardRepository interface {
	Summary(ctx context.Context, activityLimit int) (*domain.DashboardSummary, error)
}

type dashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository returns a Postgres-backed implementation.
func NewDashboardRepository(pool *pgxpool.Pool) DashboardRepository {
	return &dashboardRepository{pool: pool}
}

func (r *dashboardRepository) Summary(ctx context.Context, activityLimit int) (*domain.DashboardSummary, error) {
	var summary domain.DashboardSummary

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM users WHERE role=$1`, domain.RoleCustomer,
	).Scan(&summary.TotalCustomers); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(total), 0)::float8 FROM receipts WHERE status=$1`, domain.ReceiptStatusPending,
	).Scan(&summary.PendingCount, &summary.PendingAmount); err != nil {
		return nil, err
	}

	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM support_tickets WHERE status=$1`, domain.SupportTicketOpen,
	).Scan(&summary.OpenTickets); err != nil {
		return nil, err
	}

	const activityQuery = `
        SELECT 'receipt' AS type, billing_month AS description, created_at
        FROM receipts
        WHERE created_at > NOW() - INTERVAL '7 days'
        UNION ALL
        SELECT 'ticket' AS type, subject AS description, created_at
        FROM support_tickets
        WHERE created_at > NOW() - INTERVAL '7 days'
        ORDER BY created_at DESC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, activityQuery, activityLimit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summary.RecentActivity = []domain.ActivityEntry{}
	for rows.Next() {
		var entry domain.ActivityEntry
		if err := rows.Scan(&entry.Type, &entry.Description, &entry.CreatedAt); err != nil {
			return nil, err
		}
		summary.RecentActivity = append(summary.RecentActivity, entry)
	}
	return &summary, rows.Err()
}
