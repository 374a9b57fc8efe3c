package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("row not found")
	ErrDuplicate = errors.New("duplicate key")
	ErrReference = errors.New("referenced row does not exist")
	ErrBadValue  = errors.New("value does not fit the column")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgStringTooLong       = "22001"
	pgNumericOutOfRange   = "22003"
)

// translate maps PostgreSQL constraint violations onto the package errors,
// keeping the original error in the chain.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		return errors.Join(ErrDuplicate, err)
	case pgForeignKeyViolation:
		return errors.Join(ErrReference, err)
	case pgCheckViolation, pgStringTooLong, pgNumericOutOfRange:
		return errors.Join(ErrBadValue, err)
	default:
		return err
	}
}
