package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// StatsRepository persists per-user consumption figures.
type StatsRepository interface {
	// Get returns pgx.ErrNoRows when the user has no stats row.
	Get(ctx context.Context, userID string) (*domain.UsageStats, error)
	// Upsert overwrites the user's figures in a single statement.
	Upsert(ctx context.Context, stats *domain.UsageStats) error
}

type statsRepository struct {
	pool *pgxpool.Pool
}

// NewStatsRepository returns a Postgres-backed implementation.
func NewStatsRepository(pool *pgxpool.Pool) StatsRepository {
	return &statsRepository{pool: pool}
}

func (r *statsRepository) Get(ctx context.Context, userID string) (*domain.UsageStats, error) {
	const query = `
        SELECT user_id, week_usage, month_usage, updated_at
        FROM user_stats WHERE user_id=$1`

	var stats domain.UsageStats
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&stats.UserID,
		&stats.WeekUsage,
		&stats.MonthUsage,
		&stats.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

const upsertStatsQuery = `
        INSERT INTO user_stats (user_id, week_usage, month_usage, updated_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (user_id) DO UPDATE SET
            week_usage = EXCLUDED.week_usage,
            month_usage = EXCLUDED.month_usage,
            updated_at = NOW()
        RETURNING week_usage, month_usage, updated_at`

func (r *statsRepository) Upsert(ctx context.Context, stats *domain.UsageStats) error {
	err := r.pool.QueryRow(ctx, upsertStatsQuery,
		stats.UserID,
		stats.WeekUsage,
		stats.MonthUsage,
	).Scan(&stats.WeekUsage, &stats.MonthUsage, &stats.UpdatedAt)
	return translateError(err)
}
