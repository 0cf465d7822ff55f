package apperrors

// ErrorCode classifies an AppError.
type ErrorCode string

const (
	// System and unknown failures
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
	CodeDatabaseError ErrorCode = "DATABASE_ERROR"
	CodeUnknownError  ErrorCode = "UNKNOWN_ERROR"

	// Store-level integrity failures
	CodeConstraintViolation ErrorCode = "CONSTRAINT_VIOLATION"
	CodeMigrationFailed     ErrorCode = "MIGRATION_FAILED"

	// Generic business-rule failures
	CodeNotFound         ErrorCode = "NOT_FOUND"
	CodeAlreadyExists    ErrorCode = "ALREADY_EXISTS"
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	CodeConflict         ErrorCode = "CONFLICT"
	CodeInvalidStatus    ErrorCode = "INVALID_STATUS"
	CodeInvalidOperation ErrorCode = "INVALID_OPERATION"

	// Idempotent request handling. A conflict (same key, different request
	// fingerprint) is surfaced distinctly from a normal duplicate replay.
	CodeIdempotencyConflict ErrorCode = "IDEMPOTENCY_CONFLICT"
	CodeIdempotencyInFlight ErrorCode = "IDEMPOTENCY_IN_FLIGHT"
)
