package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/billing-portal/internal/domain"
)

// UserRepository defines persistence access for portal accounts.
type UserRepository interface {
	// Create inserts the user and fails with ErrDuplicate when the email is taken.
	Create(ctx context.Context, user *domain.User) error
	// CreateIfAbsent inserts the user unless the email exists and reports whether a row was written.
	CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	// List returns users newest first, optionally restricted to one role.
	List(ctx context.Context, role *domain.Role) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, email, password_hash, role, name, phone, address, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (email, password_hash, role, name, phone, address)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Name,
		user.Phone,
		user.Address,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	return translateError(err)
}

func (r *userRepository) CreateIfAbsent(ctx context.Context, user *domain.User) (bool, error) {
	const query = `
        INSERT INTO users (email, password_hash, role, name, phone, address)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (email) DO NOTHING
        RETURNING id, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.Role,
		user.Name,
		user.Phone,
		user.Address,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) List(ctx context.Context, role *domain.Role) ([]domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := []any{}
	if role != nil {
		args = append(args, *role)
		query += fmt.Sprintf(" WHERE role=$%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, rows.Err()
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Role,
		&user.Name,
		&user.Phone,
		&user.Address,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}
