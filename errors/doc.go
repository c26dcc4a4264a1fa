// Package errors provides unified error handling for the pageforge pipeline.
// It implements structured error types with machine-readable codes, HTTP
// status mapping, and retryable detection, so that the orchestrator can
// decide per stage whether to retry, fall back, or fail the run.
package errors
