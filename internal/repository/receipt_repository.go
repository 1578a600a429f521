package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// ReceiptRepository encapsulates receipt persistence.
type ReceiptRepository interface {
	// Create inserts a receipt; ErrMissingReference when the user does not exist.
	Create(ctx context.Context, receipt *domain.Receipt) error
	ListByUser(ctx context.Context, userID string) ([]domain.Receipt, error)
	// ListAll returns every receipt joined with its owner's name and email.
	ListAll(ctx context.Context) ([]domain.Receipt, error)
	// MarkPaid flips a pending receipt owned by userID to paid in one conditional
	// statement. It returns pgx.ErrNoRows when nothing matched.
	MarkPaid(ctx context.Context, receiptID, userID string) (*domain.Receipt, error)
}

type receiptRepository struct {
	pool *pgxpool.Pool
}

// NewReceiptRepository instantiates repository.
func NewReceiptRepository(pool *pgxpool.Pool) ReceiptRepository {
	return &receiptRepository{pool: pool}
}

const receiptColumns = `id, user_id, billing_month, consumption, rate, total, status,
               due_date, paid_date, created_at, updated_at`

const insertReceiptQuery = `
        INSERT INTO receipts (user_id, billing_month, consumption, rate, total, status, due_date)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, consumption, rate, total, due_date, created_at, updated_at`

// Create reads the stored amounts back so callers see the NUMERIC-rounded values.
func (r *receiptRepository) Create(ctx context.Context, receipt *domain.Receipt) error {
	err := r.pool.QueryRow(ctx, insertReceiptQuery,
		receipt.UserID,
		receipt.BillingMonth,
		receipt.Consumption,
		receipt.Rate,
		receipt.Total,
		receipt.Status,
		receipt.DueDate,
	).Scan(
		&receipt.ID,
		&receipt.Consumption,
		&receipt.Rate,
		&receipt.Total,
		&receipt.DueDate,
		&receipt.CreatedAt,
		&receipt.UpdatedAt,
	)
	return translateError(err)
}

func (r *receiptRepository) ListByUser(ctx context.Context, userID string) ([]domain.Receipt, error) {
	query := `SELECT ` + receiptColumns + `
             FROM receipts WHERE user_id=$1
             ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := []domain.Receipt{}
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, err
		}
		receipts = append(receipts, *receipt)
	}
	return receipts, rows.Err()
}

func (r *receiptRepository) ListAll(ctx context.Context) ([]domain.Receipt, error) {
	const query = `
        SELECT r.id, r.user_id, r.billing_month, r.consumption, r.rate, r.total, r.status,
               r.due_date, r.paid_date, r.created_at, r.updated_at,
               u.name, u.email
        FROM receipts r
        JOIN users u ON r.user_id = u.id
        ORDER BY r.created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	receipts := []domain.Receipt{}
	for rows.Next() {
		var receipt domain.Receipt
		if err := rows.Scan(
			&receipt.ID,
			&receipt.UserID,
			&receipt.BillingMonth,
			&receipt.Consumption,
			&receipt.Rate,
			&receipt.Total,
			&receipt.Status,
			&receipt.DueDate,
			&receipt.PaidDate,
			&receipt.CreatedAt,
			&receipt.UpdatedAt,
			&receipt.CustomerName,
			&receipt.CustomerEmail,
		); err != nil {
			return nil, err
		}
		receipts = append(receipts, receipt)
	}
	return receipts, rows.Err()
}

var markReceiptPaidQuery = `
        UPDATE receipts
        SET status=$3, paid_date=CURRENT_DATE, updated_at=NOW()
        WHERE id=$1 AND user_id=$2 AND status=$4
        RETURNING ` + receiptColumns

func (r *receiptRepository) MarkPaid(ctx context.Context, receiptID, userID string) (*domain.Receipt, error) {
	return scanReceipt(r.pool.QueryRow(ctx, markReceiptPaidQuery,
		receiptID,
		userID,
		domain.ReceiptStatusPaid,
		domain.ReceiptStatusPending,
	))
}

func scanReceipt(row pgx.Row) (*domain.Receipt, error) {
	var receipt domain.Receipt
	if err := row.Scan(
		&receipt.ID,
		&receipt.UserID,
		&receipt.BillingMonth,
		&receipt.Consumption,
		&receipt.Rate,
		&receipt.Total,
		&receipt.Status,
		&receipt.DueDate,
		&receipt.PaidDate,
		&receipt.CreatedAt,
		&receipt.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &receipt, nil
}
