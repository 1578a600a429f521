package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the repositories translate.
const (
	sqlStateUniqueViolation     = "23505"
	sqlStateForeignKeyViolation = "23503"
	sqlStateNumericOutOfRange   = "22003"
)

var (
	// ErrDuplicate reports a unique constraint violation.
	ErrDuplicate = errors.New("duplicate key")
	// ErrMissingReference reports a foreign key pointing at a missing row.
	ErrMissingReference = errors.New("referenced row does not exist")
	// ErrOutOfRange reports a value that overflows its numeric column.
	ErrOutOfRange = errors.New("numeric value out of range")
)

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case sqlStateUniqueViolation:
		return errors.Join(ErrDuplicate, err)
	case sqlStateForeignKeyViolation:
		return errors.Join(ErrMissingReference, err)
	case sqlStateNumericOutOfRange:
		return errors.Join(ErrOutOfRange, err)
	}
	return err
}
