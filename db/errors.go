package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	sqlite "modernc.org/sqlite"
)

var (
	// ErrConflict marks a uniqueness or check constraint violation. Callers
	// map it to a user-facing message; anything else is a generic failure.
	ErrConflict = errors.New("conflict")

	ErrNotFound = errors.New("not found")
)

// postgres SQLSTATE classes we treat as conflicts
const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// sqlite primary result code for any constraint failure
const sqliteConstraint = 19

// mapError normalizes backend-specific constraint failures into ErrConflict
// and sql.ErrNoRows into ErrNotFound. Unrecognized errors pass through.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation || pgErr.Code == pgCheckViolation {
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		}
		return err
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		if se.Code()&0xff == sqliteConstraint {
			return fmt.Errorf("%w: %s", ErrConflict, se.Error())
		}
	}
	return err
}

// IsConflict reports whether err stems from a constraint violation.
func IsConflict(err error) bool { return errors.Is(err, ErrConflict) }
