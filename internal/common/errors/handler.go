// internal/common/errors/handler.go
package errors

import (
	"time"
)

// ErrorHandler normalizes and logs stage errors with standardized metadata.
// Pipeline stages swallow their own collaborator failures; the handler exists
// so every degradation path is logged in the same shape.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleStageError normalizes err, logs it with stage metadata, and returns
// the StandardError for callers that attach it to response metadata.
func (h *ErrorHandler) HandleStageError(stage string, err error) *StandardError {
	stdErr := h.normalizeError(err)

	fields := map[string]interface{}{
		"stage":         stage,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"retries":       GetRetryCount(stdErr.Code),
		"errorCategory": GetErrorCategory(stdErr.Code),
	}

	if stdErr.Retryable {
		h.logger.Warn("Stage degraded", fields)
	} else {
		h.logger.Error("Stage failed", fields)
	}

	return stdErr
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
