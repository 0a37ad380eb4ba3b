package database

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres error codes this service reacts to.
const (
	codeUndefinedTable  = "42P01"
	codeUniqueViolation = "23505"
)

// IsSchemaMissing reports whether the error means a referenced table does not
// exist in this deployment. Detection is by driver error code rather than by
// matching error message text.
func IsSchemaMissing(err error) bool {
	return hasCode(err, codeUndefinedTable)
}

// IsUniqueViolation reports whether the error is a unique constraint conflict.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

func hasCode(err error, code string) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == code
	}
	return false
}
