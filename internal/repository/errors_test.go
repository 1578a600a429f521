package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateError(t *testing.T) {
	unique := &pgconn.PgError{Code: sqlStateUniqueViolation, ConstraintName: "users_email_key"}
	err := translateError(fmt.Errorf("insert: %w", unique))
	assert.ErrorIs(t, err, ErrDuplicate)

	var pgErr *pgconn.PgError
	assert.True(t, errors.As(err, &pgErr))

	fk := &pgconn.PgError{Code: sqlStateForeignKeyViolation}
	assert.ErrorIs(t, translateError(fk), ErrMissingReference)

	overflow := &pgconn.PgError{Code: sqlStateNumericOutOfRange}
	assert.ErrorIs(t, translateError(overflow), ErrOutOfRange)

	other := &pgconn.PgError{Code: "42P01"}
	assert.Same(t, error(other), translateError(other))

	plain := errors.New("boom")
	assert.Equal(t, plain, translateError(plain))
	assert.NoError(t, translateError(nil))
}
