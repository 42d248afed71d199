// internal/common/errors/handler.go
package errors

import (
	"time"
)

// ErrorHandler normalizes and logs failures raised while driving the UI.
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

// Handle logs err for the given stage and returns its normalized form.
// Validation errors are expected user mistakes and are logged at warn level.
func (h *ErrorHandler) Handle(stage string, err error) *StandardError {
	if err == nil {
		return nil
	}
	if vErr, ok := err.(*ValidationError); ok {
		h.logger.Warn("Input incomplete", map[string]interface{}{
			"stage":   stage,
			"missing": vErr.Missing,
		})
		return &StandardError{
			Code:      ErrCodeValidation,
			Message:   vErr.Message,
			Retryable: false,
			Timestamp: time.Now().UTC(),
			cause:     err,
		}
	}

	stdErr := h.normalizeError(err)
	h.logger.Error("Stage failed", map[string]interface{}{
		"stage":         stage,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"statusCode":    stdErr.StatusCode,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	})
	return stdErr
}

// normalizeError ensures we always have a StandardError.
func (h *ErrorHandler) normalizeError(err error) *StandardError {
	if stdErr, ok := AsStandard(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Terjadi kesalahan",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}
