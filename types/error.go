package types

import "fmt"

// ErrorCode represents a unified error code across the pipeline.
type ErrorCode string

// Input errors — reported to the caller immediately, never retried.
const (
	ErrInvalidRequest       ErrorCode = "INVALID_REQUEST"
	ErrInvalidRemeshRequest ErrorCode = "INVALID_REMESH_REQUEST"
)

// Fatal stage errors — abort the current request.
const (
	ErrGenerationFailed           ErrorCode = "GENERATION_FAILED"
	ErrReconstructionSubmitFailed ErrorCode = "RECONSTRUCTION_SUBMIT_FAILED"
	ErrRemeshSubmitFailed         ErrorCode = "REMESH_SUBMIT_FAILED"
)

// State errors — the session or task is not in the required state.
const (
	ErrSessionExpired    ErrorCode = "SESSION_EXPIRED"
	ErrArtifactNotFound  ErrorCode = "ARTIFACT_NOT_FOUND"
	ErrNotReady          ErrorCode = "NOT_READY"
	ErrFormatUnavailable ErrorCode = "FORMAT_UNAVAILABLE"
)

// Transport errors — distinct from a vendor-reported job failure.
const (
	ErrPollTransport ErrorCode = "POLL_TRANSPORT"
	ErrUpstream      ErrorCode = "UPSTREAM_ERROR"
	ErrInternalError ErrorCode = "INTERNAL_ERROR"
)

// Error represents a structured error with code, message, and metadata.
type Error struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	HTTPStatus int       `json:"http_status,omitempty"`
	Retryable  bool      `json:"retryable"`
	Provider   string    `json:"provider,omitempty"`
	// AvailableFormats is populated on FORMAT_UNAVAILABLE so the caller sees
	// exactly which formats the task does expose.
	AvailableFormats []string `json:"available_formats,omitempty"`
	Cause            error    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithHTTPStatus sets the HTTP status code.
func (e *Error) WithHTTPStatus(status int) *Error {
	e.HTTPStatus = status
	return e
}

// WithRetryable marks the error as retryable.
func (e *Error) WithRetryable(retryable bool) *Error {
	e.Retryable = retryable
	return e
}

// WithProvider sets the vendor name the failure originated from.
func (e *Error) WithProvider(provider string) *Error {
	e.Provider = provider
	return e
}

// WithAvailableFormats records the formats a task does expose.
func (e *Error) WithAvailableFormats(formats []string) *Error {
	e.AvailableFormats = formats
	return e
}

// IsRetryable checks if an error is retryable.
func IsRetryable(err error) bool {
	if e, ok := err.(*Error); ok {
		return e.Retryable
	}
	return false
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
