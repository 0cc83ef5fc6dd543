// internal/common/errors/handler.go
package errors

import (
	"net/http"
	"time"
)

// ErrorHandler normalizes errors at the API boundary and decides the
// HTTP status they surface as.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRequestError normalizes err, logs it with its category, and
// returns the StandardError plus the HTTP status to respond with.
func (h *ErrorHandler) HandleRequestError(operation string, err error) (*StandardError, int) {
	stdErr := h.normalizeError(err)
	status := HTTPStatus(stdErr.Code)

	h.logger.Error("Request failed", map[string]interface{}{
		"operation":     operation,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
		"httpStatus":    status,
	})

	return stdErr, status
}

// normalizeError ensures we always have a StandardError
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := err.(*StandardError); ok {
		return stdErr
	}
	return &StandardError{
		Code:      "INTERNAL_ERROR",
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to the status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeSessionNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidViewMode, ErrCodeInvalidFilterMode:
		return http.StatusBadRequest
	case ErrCodeGatewayTimeout:
		return http.StatusGatewayTimeout
	case ErrCodeGatewayUnreachable, ErrCodeGatewayBadStatus:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
