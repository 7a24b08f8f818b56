package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Errors maps driver-level failures onto a domain's sentinel errors.
// A nil field leaves the matching failure unmapped.
type Errors struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// Map translates sql.ErrNoRows, unique violations and check violations.
// Anything else is returned unchanged.
func (e Errors) Map(err error) error {
	switch {
	case err == nil:
		return nil
	case e.NotFound != nil && errors.Is(err, sql.ErrNoRows):
		return e.NotFound
	case e.Duplicate != nil && IsUniqueViolation(err):
		return e.Duplicate
	case e.Invalid != nil && IsCheckViolation(err):
		return e.Invalid
	default:
		return err
	}
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	return hasCode(err, pgerrcode.UniqueViolation)
}

// IsCheckViolation reports whether err is a PostgreSQL CHECK constraint violation.
func IsCheckViolation(err error) bool {
	return hasCode(err, pgerrcode.CheckViolation)
}

// ConstraintName returns the violated constraint, or "" when err carries none.
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func hasCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
