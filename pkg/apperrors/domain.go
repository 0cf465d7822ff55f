package apperrors

import (
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

/*
Factories and detection helpers for the domain error taxonomy:
constraint violation, validation failure, idempotency conflict,
not-found/soft-deleted, migration failure.
*/

// ErrNotFound wraps a repository miss (e.g. gorm.ErrRecordNotFound) as 404.
// A row hidden by a soft-delete or default scope reports the same way;
// callers that need to distinguish must query with the explicit override.
func ErrNotFound(err error) *AppError {
	return Wrap(err, CodeNotFound, "resource", "Resource not found", http.StatusNotFound)
}

// ErrAlreadyExists wraps a duplicate-creation failure as 409.
func ErrAlreadyExists(err error) *AppError {
	return Wrap(err, CodeAlreadyExists, "resource", "Resource already exists", http.StatusConflict)
}

// ErrConstraintViolation wraps a rejected write. The store failed atomically;
// no partial row was persisted.
func ErrConstraintViolation(err error, domain string) *AppError {
	return Wrap(err, CodeConstraintViolation, domain, "Write rejected by a store constraint", http.StatusConflict)
}

// ErrConflict is the general-purpose 409 factory.
func ErrConflict(err error, domain, message string) *AppError {
	return Wrap(err, CodeConflict, domain, message, http.StatusConflict)
}

// ErrInvalidStatus rejects an illegal state transition.
func ErrInvalidStatus(domain, message string) *AppError {
	return New(CodeInvalidStatus, domain, message, http.StatusBadRequest)
}

// ErrInvalidOperation rejects an operation the entity does not permit.
func ErrInvalidOperation(domain, message string) *AppError {
	return New(CodeInvalidOperation, domain, message, http.StatusBadRequest)
}

// ErrIdempotencyConflict: the same idempotency key was reused for a
// different logical request.
func ErrIdempotencyConflict(err error) *AppError {
	return Wrap(err, CodeIdempotencyConflict, "idempotency",
		"Idempotency key reused with a different request", http.StatusConflict)
}

// ErrIdempotencyInFlight: the first request carrying this key has not
// finished yet; the duplicate is rejected rather than blocked.
func ErrIdempotencyInFlight(err error) *AppError {
	return Wrap(err, CodeIdempotencyInFlight, "idempotency",
		"Original request is still being processed", http.StatusConflict)
}

// ErrMigrationFailed halts the migration runner at the failing step.
func ErrMigrationFailed(err error, id string) *AppError {
	return Wrap(err, CodeMigrationFailed, "migration",
		"Migration "+id+" failed; halting", http.StatusInternalServerError)
}

// IsUniqueViolation reports whether err is a unique-constraint rejection
// from the store. Postgres surfaces SQLSTATE 23505; the sqlite test driver
// reports a message-level UNIQUE failure.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
