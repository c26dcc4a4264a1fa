package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline errors
const (
	// ErrCodeValidationFailed indicates the business context or design
	// extraction is unusable. The run does not proceed past Validation.
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrCodeModelError indicates a generative-model failure (quota, safety
	// block, malformed request).
	ErrCodeModelError ErrorCode = "MODEL_ERROR"
	// ErrCodeModelTimeout indicates the generative-model call timed out.
	ErrCodeModelTimeout ErrorCode = "MODEL_TIMEOUT"
	// ErrCodeParseError indicates the model output could not be recovered
	// into structured data even after repair.
	ErrCodeParseError ErrorCode = "PARSE_ERROR"
	// ErrCodeInvariantViolation indicates the generated section count did
	// not match the extraction. Corrected in code, logged for audit.
	ErrCodeInvariantViolation ErrorCode = "INVARIANT_VIOLATION"
	// ErrCodePersistenceError indicates a store write failed. Logged as a
	// warning, never aborts a run.
	ErrCodePersistenceError ErrorCode = "PERSISTENCE_ERROR"
)

// Resource errors
const (
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Connection/Availability errors (retryable)
const (
	// ErrCodeServiceUnavailable indicates a collaborator is temporarily unavailable.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited indicates the client is rate limited.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// Internal errors
const (
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeServiceUnavailable: true,
	ErrCodeTimeout:            true,
	ErrCodeRateLimited:        true,
	ErrCodeModelTimeout:       true,
	ErrCodePersistenceError:   true,
	ErrCodeModelError:         false,
	ErrCodeParseError:         false,
	ErrCodeInternal:           false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
