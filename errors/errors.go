package errors

import (
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the recommended HTTP status code for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Common Error Constructors ---

// ValidationFailed creates an AppError for an unusable business context or
// design extraction.
func ValidationFailed(reason string) *AppError {
	return &AppError{
		Code: ErrCodeValidationFailed, Message: reason,
		HTTPStatus: http.StatusUnprocessableEntity, Retryable: false,
	}
}

// ModelError creates an AppError for a generative-model failure.
func ModelError(reason string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeModelError, Message: reason,
		HTTPStatus: http.StatusBadGateway, Retryable: false, Cause: cause,
	}
}

// ModelTimeout creates an AppError for a generative-model call that timed out.
func ModelTimeout(stage string) *AppError {
	return &AppError{
		Code: ErrCodeModelTimeout, Message: "The content model took too long to respond.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"stage": stage},
	}
}

// ParseError creates an AppError for unrecoverable malformed model output.
func ParseError(reason string) *AppError {
	return &AppError{
		Code: ErrCodeParseError, Message: reason,
		HTTPStatus: http.StatusBadGateway, Retryable: false,
	}
}

// InvariantViolation creates an AppError for a generated section count that
// does not match the extraction.
func InvariantViolation(expected, got int) *AppError {
	return &AppError{
		Code: ErrCodeInvariantViolation, Message: fmt.Sprintf("Generated output contained %d sections, expected %d.", got, expected),
		HTTPStatus: http.StatusInternalServerError, Retryable: false,
		Details: map[string]any{"expected": expected, "got": got},
	}
}

// PersistenceError creates an AppError for a store write failure.
func PersistenceError(op string, cause error) *AppError {
	return &AppError{
		Code: ErrCodePersistenceError, Message: fmt.Sprintf("Failed to persist %s.", op),
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Cause: cause,
		Details: map[string]any{"operation": op},
	}
}

// NotFound creates an AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Retryable: false, Details: details,
	}
}

// InvalidInput creates an AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Retryable: false, Details: details,
	}
}

// MissingField creates an AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		HTTPStatus: http.StatusBadRequest, Retryable: false,
		Details: map[string]any{"field": field},
	}
}

// Timeout creates an AppError for a request that timed out.
func Timeout(operation string) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: "The request took too long. Please try again.",
		HTTPStatus: http.StatusGatewayTimeout, Retryable: true,
		Details: map[string]any{"operation": operation},
	}
}

// Internal creates an AppError for an internal server error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred. Please try again.",
		HTTPStatus: http.StatusInternalServerError, Retryable: false, Cause: cause,
	}
}
