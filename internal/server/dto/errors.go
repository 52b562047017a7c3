// Package dto defines the API request and response types plus structured
// error handling.
//
// Request types carry path/query/json struct tags for parameter binding and
// implement Validatable. Error handling follows a structured pattern:
// ErrorCode gives machine-readable classification, APIError wraps errors with
// an HTTP status and optional details, and constructor functions create the
// common cases.
package dto

import (
	"fmt"
	"maps"
	"net/http"
)

// ErrorCode defines specific error types for the API.
type ErrorCode string

const (
	// ErrorCodeValidationFailed is returned when input data fails validation.
	ErrorCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	// ErrorCodeMissingField is returned when a required field is missing.
	ErrorCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrorCodeInvalidFormat is returned when input has an invalid format.
	ErrorCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	// ErrorCodeNotFound is returned when a resource is not found.
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodeStorageError is returned when a storage operation fails.
	ErrorCodeStorageError ErrorCode = "STORAGE_ERROR"
	// ErrorCodeInternal is returned when an unexpected server error occurs.
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
	// ErrorCodePayloadTooLarge is returned when a request body exceeds the limit.
	ErrorCodePayloadTooLarge ErrorCode = "PAYLOAD_TOO_LARGE"
	// ErrorCodeRateLimited is returned when a client exceeds its request quota.
	ErrorCodeRateLimited ErrorCode = "RATE_LIMITED"
)

// ErrorDetails defines the structured error information in a response.
type ErrorDetails struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// ErrorResponse is the standard API error response.
type ErrorResponse struct {
	Error   ErrorDetails   `json:"error"`
	Details map[string]any `json:"details,omitempty"`
}

// ErrorWithStatus is an error that includes an HTTP status code and error code.
type ErrorWithStatus interface {
	Error() string
	StatusCode() int
	Code() ErrorCode
	Details() map[string]any
}

// APIError is a concrete error type with status code and optional details.
type APIError struct {
	statusCode int
	code       ErrorCode
	message    string
	details    map[string]any
	wrappedErr error
}

// NewAPIError creates a new APIError with the given status code and message.
func NewAPIError(statusCode int, code ErrorCode, message string) *APIError {
	return &APIError{
		statusCode: statusCode,
		code:       code,
		message:    message,
		details:    make(map[string]any),
	}
}

// WithDetails adds details to the error.
func (e *APIError) WithDetails(details map[string]any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	maps.Copy(e.details, details)
	return e
}

// WithDetail adds a single detail to the error.
func (e *APIError) WithDetail(key string, value any) *APIError {
	if e.details == nil {
		e.details = make(map[string]any)
	}
	e.details[key] = value
	return e
}

// Wrap attaches an underlying error for errors.Is/As chains.
func (e *APIError) Wrap(err error) *APIError {
	e.wrappedErr = err
	return e
}

// Error implements error.
func (e *APIError) Error() string {
	return e.message
}

// Unwrap returns the wrapped error, if any.
func (e *APIError) Unwrap() error {
	return e.wrappedErr
}

// StatusCode implements ErrorWithStatus.
func (e *APIError) StatusCode() int {
	return e.statusCode
}

// Code implements ErrorWithStatus.
func (e *APIError) Code() ErrorCode {
	return e.code
}

// Details implements ErrorWithStatus.
func (e *APIError) Details() map[string]any {
	return e.details
}

// NotFound creates a 404 error for the named resource.
func NotFound(resource string) *APIError {
	return NewAPIError(http.StatusNotFound, ErrorCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// BadRequest creates a 400 error.
func BadRequest(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeValidationFailed, message)
}

// MissingField creates a 400 error naming the missing field.
func MissingField(field string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeMissingField, fmt.Sprintf("missing required field: %s", field)).
		WithDetail("field", field)
}

// InvalidFormat creates a 400 error for malformed input.
func InvalidFormat(message string) *APIError {
	return NewAPIError(http.StatusBadRequest, ErrorCodeInvalidFormat, message)
}

// Internal creates a 500 error.
func Internal(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrorCodeInternal, message)
}

// StorageError creates a 500 error for failed persistence.
func StorageError(message string) *APIError {
	return NewAPIError(http.StatusInternalServerError, ErrorCodeStorageError, message)
}

// PayloadTooLarge creates a 413 error carrying the limit.
func PayloadTooLarge(limit int64) *APIError {
	return NewAPIError(http.StatusRequestEntityTooLarge, ErrorCodePayloadTooLarge, "request body too large").
		WithDetail("limitBytes", limit)
}

// RateLimitExceeded creates a 429 error carrying the retry hint.
func RateLimitExceeded(retryAfterSeconds int) *APIError {
	return NewAPIError(http.StatusTooManyRequests, ErrorCodeRateLimited, "rate limit exceeded").
		WithDetail("retryAfterSeconds", retryAfterSeconds)
}
