// Package errors provides domain-specific error types.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes for domain errors.
const (
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeBadRequest         = "BAD_REQUEST"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
	ErrCodePathViolation      = "PATH_VIOLATION"
	ErrCodeConversion         = "CONVERSION_ERROR"
	ErrCodeClient             = "CLIENT_ERROR"
	ErrCodeResourceCleanup    = "RESOURCE_CLEANUP_ERROR"
	ErrCodeTurnInFlight       = "TURN_IN_FLIGHT"
	ErrCodeInvalidState       = "INVALID_STATE"
)

// DomainError represents a domain-specific error.
type DomainError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"`
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(resource, identifier string) *DomainError {
	return &DomainError{
		Code:       ErrCodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		Details:    identifier,
		HTTPStatus: http.StatusNotFound,
	}
}

// NewValidationError creates a new validation error.
func NewValidationError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeValidation,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewInternalError creates a new internal error.
func NewInternalError(message string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeInternal,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewBadRequestError creates a new bad request error.
func NewBadRequestError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeBadRequest,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// NewConflictError creates a new conflict error.
func NewConflictError(message string, details string) *DomainError {
	return &DomainError{
		Code:       ErrCodeConflict,
		Message:    message,
		Details:    details,
		HTTPStatus: http.StatusConflict,
	}
}

// NewServiceUnavailableError creates a new service unavailable error.
func NewServiceUnavailableError(service string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeServiceUnavailable,
		Message:    fmt.Sprintf("%s is unavailable", service),
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

// NewPayloadTooLargeError creates a new payload too large error.
func NewPayloadTooLargeError(limit int64) *DomainError {
	return &DomainError{
		Code:       ErrCodePayloadTooLarge,
		Message:    "payload too large",
		Details:    fmt.Sprintf("limit is %d bytes", limit),
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
}

// NewPathViolationError creates an error for a file that resolves outside the sandbox.
func NewPathViolationError(path, sandbox string) *DomainError {
	return &DomainError{
		Code:       ErrCodePathViolation,
		Message:    "attachment is outside the upload directory",
		Details:    fmt.Sprintf("%s not in %s", path, sandbox),
		HTTPStatus: http.StatusForbidden,
	}
}

// NewConversionError creates an error for a document that could not be converted to text.
func NewConversionError(file string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeConversion,
		Message:    fmt.Sprintf("failed to convert %s", file),
		Details:    details,
		HTTPStatus: http.StatusUnprocessableEntity,
		Err:        err,
	}
}

// NewClientError creates an error for a failed model backend call.
func NewClientError(model string, err error) *DomainError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &DomainError{
		Code:       ErrCodeClient,
		Message:    fmt.Sprintf("model %s request failed", model),
		Details:    details,
		HTTPStatus: http.StatusBadGateway,
		Err:        err,
	}
}

// NewResourceCleanupError creates an error for a temporary file that could not be removed.
func NewResourceCleanupError(path string, err error) *DomainError {
	return &DomainError{
		Code:       ErrCodeResourceCleanup,
		Message:    "failed to remove temporary file",
		Details:    path,
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// NewTurnInFlightError creates an error for a turn submitted while another is streaming.
func NewTurnInFlightError(sessionID string) *DomainError {
	return &DomainError{
		Code:       ErrCodeTurnInFlight,
		Message:    "a response is still being generated",
		Details:    sessionID,
		HTTPStatus: http.StatusConflict,
	}
}

// NewInvalidStateError creates an error for an operation not allowed in the session state.
func NewInvalidStateError(operation, state string) *DomainError {
	return &DomainError{
		Code:       ErrCodeInvalidState,
		Message:    fmt.Sprintf("%s is not allowed", operation),
		Details:    fmt.Sprintf("session is %s", state),
		HTTPStatus: http.StatusConflict,
	}
}

// NewTimeoutError creates a new timeout error.
func NewTimeoutError(operation string) *DomainError {
	return &DomainError{
		Code:       ErrCodeTimeout,
		Message:    fmt.Sprintf("%s timed out", operation),
		HTTPStatus: http.StatusGatewayTimeout,
	}
}

// IsDomainError checks if the error is a domain error.
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error.
func GetDomainError(err error) (*DomainError, bool) {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr, true
	}
	return nil, false
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

// IsValidationError checks if the error is a validation error.
func IsValidationError(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

// IsPathViolation checks if the error is a sandbox path violation.
func IsPathViolation(err error) bool {
	return hasCode(err, ErrCodePathViolation)
}

// IsConversionError checks if the error is a document conversion error.
func IsConversionError(err error) bool {
	return hasCode(err, ErrCodeConversion)
}

// IsClientError checks if the error is a model backend error.
func IsClientError(err error) bool {
	return hasCode(err, ErrCodeClient)
}

// IsTurnInFlight checks if the error is a single-flight rejection.
func IsTurnInFlight(err error) bool {
	return hasCode(err, ErrCodeTurnInFlight)
}

// IsInvalidState checks if the error is a lifecycle state error.
func IsInvalidState(err error) bool {
	return hasCode(err, ErrCodeInvalidState)
}

func hasCode(err error, code string) bool {
	domainErr, ok := GetDomainError(err)
	return ok && domainErr.Code == code
}
