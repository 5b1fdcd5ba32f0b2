package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation     = "23505"
	pgCodeForeignKeyViolation = "23503"
)

func pgError(err error) (*pgconn.PgError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr, true
	}
	return nil, false
}

// IsUniqueViolationError reports whether err (or anything it wraps) is a unique violation.
func IsUniqueViolationError(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgCodeUniqueViolation
}

// IsUniqueViolationOn is IsUniqueViolationError narrowed to a single constraint,
// e.g. "posts_slug_key".
func IsUniqueViolationOn(err error, constraint string) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgCodeUniqueViolation && pgErr.ConstraintName == constraint
}

// IsForeignKeyViolationError reports whether err (or anything it wraps) is a foreign key violation.
func IsForeignKeyViolationError(err error) bool {
	pgErr, ok := pgError(err)
	return ok && pgErr.Code == pgCodeForeignKeyViolation
}
