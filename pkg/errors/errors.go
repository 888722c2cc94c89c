// Package errors classifies store errors independently of the SQL driver in use.
package errors

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation = "23505"
)

// ErrNotFound no row matched the given key
var ErrNotFound = gorm.ErrRecordNotFound

// ErrDuplicateKey a unique constraint rejected the write
var ErrDuplicateKey = gorm.ErrDuplicatedKey

// IsUniqueViolation reports whether err comes from a unique constraint, either
// already translated by GORM or as a raw PostgreSQL error.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrDuplicateKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsNotFound reports whether err means no matching row.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
