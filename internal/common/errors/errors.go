// Package errors provides standardized error handling for the agent core.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeGatewayUnreachable ErrorCode = "GATEWAY_UNREACHABLE"
	ErrCodeGatewayTimeout     ErrorCode = "GATEWAY_TIMEOUT"
	ErrCodeGatewayBadStatus   ErrorCode = "GATEWAY_BAD_STATUS"
	ErrCodeResponseMalformed  ErrorCode = "RESPONSE_MALFORMED"

	ErrCodeStoreSourceFailed ErrorCode = "STORE_SOURCE_FAILED"
	ErrCodeStoreDecodeFailed ErrorCode = "STORE_DECODE_FAILED"
	ErrCodeStoreEmpty        ErrorCode = "STORE_EMPTY"

	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeInvalidViewMode   ErrorCode = "INVALID_VIEW_MODE"
	ErrCodeInvalidFilterMode ErrorCode = "INVALID_FILTER_MODE"

	ErrCodeConfigInvalid ErrorCode = "CONFIG_INVALID"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewGatewayUnreachableError creates a retryable gateway transport error.
func NewGatewayUnreachableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGatewayUnreachable,
		Message:   "Agent gateway transport error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGatewayTimeoutError creates a retryable gateway timeout error.
func NewGatewayTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGatewayTimeout,
		Message:   "Agent gateway call timed out",
		Details:   fmt.Sprintf("operation: %s", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGatewayBadStatusError creates a retryable non-2xx gateway error.
func NewGatewayBadStatusError(operation string, status int) *StandardError {
	return &StandardError{
		Code:      ErrCodeGatewayBadStatus,
		Message:   "Agent gateway returned an error status",
		Details:   fmt.Sprintf("operation: %s, status: %d", operation, status),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewResponseMalformedError creates a non-retryable payload error.
func NewResponseMalformedError(operation, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeResponseMalformed,
		Message:   "Agent gateway payload failed validation",
		Details:   fmt.Sprintf("operation: %s, %s", operation, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreSourceFailedError creates a retryable ticket source error.
func NewStoreSourceFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreSourceFailed,
		Message:   "Ticket source read failed",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreDecodeFailedError creates a non-retryable ticket decode error.
func NewStoreDecodeFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreDecodeFailed,
		Message:   "Ticket source payload could not be decoded",
		Details:   fmt.Sprintf("source: %s, error: %s", source, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewStoreEmptyError creates a non-retryable empty dataset error.
func NewStoreEmptyError(source string) *StandardError {
	return &StandardError{
		Code:      ErrCodeStoreEmpty,
		Message:   "Ticket source returned no records",
		Details:   fmt.Sprintf("source: %s", source),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionNotFoundError creates a non-retryable session lookup error.
func NewSessionNotFoundError(sessionID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "Session not found",
		Details:   fmt.Sprintf("sessionId: %s", sessionID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidViewModeError creates a non-retryable mode validation error.
func NewInvalidViewModeError(mode string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidViewMode,
		Message:   "Unknown interaction mode",
		Details:   fmt.Sprintf("mode: %s", mode),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidFilterModeError creates a non-retryable filter validation error.
func NewInvalidFilterModeError(filter string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidFilterMode,
		Message:   "Unknown ticket filter",
		Details:   fmt.Sprintf("filter: %s", filter),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a non-retryable configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// Generic constructors

func NewExternalServiceError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "EXTERNAL_SERVICE_ERROR",
		Message:   fmt.Sprintf("External service '%s' error", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewTimeoutError(service string, err error) *StandardError {
	return &StandardError{
		Code:      "TIMEOUT_ERROR",
		Message:   fmt.Sprintf("Service '%s' timeout", service),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// GetRetryCount returns the recommended retry count per error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeGatewayUnreachable,
		ErrCodeGatewayBadStatus,
		ErrCodeStoreSourceFailed:
		return 3

	case ErrCodeGatewayTimeout:
		return 1

	default:
		return 0
	}
}

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "GATEWAY") || strings.Contains(codeStr, "RESPONSE"):
		return "GATEWAY"
	case strings.Contains(codeStr, "STORE"):
		return "STORE"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "CONFIG"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
