package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL error codes the repositories react to.
const (
	PgErrForeignKeyViolation = "23503"
	PgErrUniqueViolation     = "23505"
	PgErrCheckViolation      = "23514"
)

// HasPgCode reports whether err is a PostgreSQL error with code.
func HasPgCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}

// ConstraintName returns the violated constraint, or "".
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}
