package repository

import (
	"errors"
	"strings"

	"github.com/lib/pq"
)

// Postgres error codes relevant to the uniqueness and referential rules.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation reports whether err is a unique-constraint violation,
// optionally restricted to a constraint whose name contains the fragment. The
// pre-check queries produce the friendly message; this catch is what makes the
// check-then-insert race safe.
func IsUniqueViolation(err error, constraintFragment string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || string(pqErr.Code) != pgUniqueViolation {
		return false
	}
	if constraintFragment == "" {
		return true
	}
	return strings.Contains(pqErr.Constraint, constraintFragment)
}

// IsForeignKeyViolation reports whether err is a referential-integrity
// violation (referenced row missing, or row still referenced on delete).
func IsForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgForeignKeyViolation
}
