package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_New_Success(t *testing.T) {
	err := New(ErrCodeNotFound, "not found", http.StatusNotFound)
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, err.HTTPStatus)
	}
	if err.Retryable {
		t.Error("NOT_FOUND should not be retryable")
	}
}

func TestAppError_ModelTimeout_Retryable(t *testing.T) {
	err := ModelTimeout("content_generation")
	if !err.Retryable {
		t.Error("MODEL_TIMEOUT should be retryable")
	}
	if err.Details["stage"] != "content_generation" {
		t.Errorf("expected stage detail, got %v", err.Details["stage"])
	}
}

func TestAppError_ParseError_NotRetryable(t *testing.T) {
	err := ParseError("unbalanced braces")
	if err.Retryable {
		t.Error("PARSE_ERROR should not be retryable")
	}
}

func TestAppError_InvariantViolation_Details(t *testing.T) {
	err := InvariantViolation(3, 1)
	if err.Details["expected"] != 3 || err.Details["got"] != 1 {
		t.Errorf("expected count details, got %v", err.Details)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := PersistenceError("stage record", cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAppError_WrappedDetection(t *testing.T) {
	inner := ModelError("safety block", nil)
	wrapped := fmt.Errorf("stage failed: %w", inner)

	if !IsAppError(wrapped) {
		t.Error("expected wrapped AppError to be detected")
	}
	if !HasCode(wrapped, ErrCodeModelError) {
		t.Error("expected MODEL_ERROR code on wrapped error")
	}
	if IsRetryable(wrapped) {
		t.Error("MODEL_ERROR should not be retryable")
	}
}

func TestToResponse(t *testing.T) {
	err := ValidationFailed("business context name is required")
	resp := err.ToResponse()
	if resp.Error.Code != ErrCodeValidationFailed {
		t.Errorf("expected code in response, got %s", resp.Error.Code)
	}
	if resp.Error.Message == "" {
		t.Error("expected message in response")
	}
}
