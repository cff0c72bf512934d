package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a unique constraint failure on either
// backing engine. When constraintName is provided, the constraint must also match.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && pgxErr.Code == pgUniqueViolation {
		return constraintName == "" || pgxErr.ConstraintName == constraintName
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation {
		return constraintName == "" || pqErr.Constraint == constraintName
	}

	msg := err.Error()
	matched := errors.Is(err, gorm.ErrDuplicatedKey) ||
		strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
	if !matched {
		return false
	}
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return true
}

// IsNotFound reports gorm's record-not-found sentinel.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
