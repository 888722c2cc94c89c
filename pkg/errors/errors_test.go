package errors

import (
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", gorm.ErrDuplicatedKey, true},
		{"wrapped gorm", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"raw pg 23505", &pgconn.PgError{Code: "23505"}, true},
		{"raw pg other", &pgconn.PgError{Code: "23503"}, false},
		{"not found", gorm.ErrRecordNotFound, false},
		{"package sentinel", fmt.Errorf("create: %w", ErrDuplicateKey), true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsUniqueViolation(tc.err); got != tc.want {
				t.Errorf("IsUniqueViolation(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(fmt.Errorf("find: %w", gorm.ErrRecordNotFound)) {
		t.Error("expected wrapped ErrRecordNotFound to be not found")
	}
	if !IsNotFound(ErrNotFound) {
		t.Error("expected ErrNotFound to be not found")
	}
	if IsNotFound(gorm.ErrDuplicatedKey) {
		t.Error("duplicate key is not a not-found error")
	}
}
