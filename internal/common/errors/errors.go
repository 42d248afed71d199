// Package errors provides the error taxonomy shared by the console components.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Transport, body read or decode failure while talking to the scoring service.
	ErrCodeNetwork ErrorCode = "NETWORK_ERROR"
	// The service answered with a non-success status.
	ErrCodeService ErrorCode = "SERVICE_ERROR"
	// Locally detected incomplete form input.
	ErrCodeValidation ErrorCode = "VALIDATION_FAILED"

	ErrCodeResponseShape     ErrorCode = "RESPONSE_SHAPE_INVALID"
	ErrCodeSubmissionBusy    ErrorCode = "SUBMISSION_IN_FLIGHT"
	ErrCodeNotInteractive    ErrorCode = "CONTROL_NOT_INTERACTIVE"
	ErrCodeOptionNotAllowed  ErrorCode = "OPTION_NOT_ALLOWED"
	ErrCodeChartRenderFailed ErrorCode = "CHART_RENDER_FAILED"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	StatusCode int                    `json:"statusCode,omitempty"`
	Retryable  bool                   `json:"retryable"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
	cause      error
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// ValidationError lists the required form fields that are still unset.
type ValidationError struct {
	Missing []string `json:"missing"`
	Message string   `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("ValidationError: %s (missing: %s)", e.Message, strings.Join(e.Missing, ", "))
}

// ==========================
// 2. Error Constructors
// ==========================

// NewNetworkError wraps a transport or parse failure. Retryable by the caller.
func NewNetworkError(endpoint string, err error) *StandardError {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return &StandardError{
		Code:      ErrCodeNetwork,
		Message:   "Gagal terhubung ke layanan",
		Details:   fmt.Sprintf("endpoint: %s, error: %s", endpoint, details),
		Retryable: true,
		Metadata:  map[string]interface{}{"endpoint": endpoint},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewServiceError carries the message the service put in its error body.
// An empty message falls back to the HTTP status text.
func NewServiceError(endpoint string, status int, message string) *StandardError {
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(status)
		if message == "" {
			message = "Terjadi kesalahan"
		}
	}
	return &StandardError{
		Code:       ErrCodeService,
		Message:    message,
		Details:    fmt.Sprintf("endpoint: %s, status: %d", endpoint, status),
		StatusCode: status,
		Retryable:  false,
		Metadata:   map[string]interface{}{"endpoint": endpoint},
		Timestamp:  time.Now().UTC(),
	}
}

// NewResponseShapeError reports a 2xx body that does not match the expected shape.
// It is classified as a network (parse) failure.
func NewResponseShapeError(endpoint string, problems []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNetwork,
		Message:   "Respons layanan tidak valid",
		Details:   fmt.Sprintf("endpoint: %s, shape: %s", endpoint, strings.Join(problems, "; ")),
		Retryable: true,
		Metadata: map[string]interface{}{
			"endpoint": endpoint,
			"reason":   string(ErrCodeResponseShape),
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationError builds the error returned by form validation.
func NewValidationError(missing []string) *ValidationError {
	return &ValidationError{
		Missing: missing,
		Message: "Silakan lengkapi semua field",
	}
}

func NewSubmissionBusyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionBusy,
		Message:   "Evaluasi sedang diproses",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotInteractiveError(control string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotInteractive,
		Message:   "Kontrol belum siap digunakan",
		Details:   fmt.Sprintf("control: %s", control),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewOptionNotAllowedError(field, value string) *StandardError {
	return &StandardError{
		Code:      ErrCodeOptionNotAllowed,
		Message:   fmt.Sprintf("Nilai %q tidak tersedia", value),
		Details:   fmt.Sprintf("field: %s", field),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewChartRenderFailedError(chart string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeChartRenderFailed,
		Message:   "Grafik gagal digambar",
		Details:   fmt.Sprintf("chart: %s, error: %v", chart, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Classification
// ==========================

// AsStandard extracts a *StandardError from err's chain.
func AsStandard(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

func IsNetworkError(err error) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == ErrCodeNetwork
}

func IsServiceError(err error) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == ErrCodeService
}

func IsValidationError(err error) bool {
	var vErr *ValidationError
	return stderrors.As(err, &vErr)
}

func IsSubmissionBusy(err error) bool {
	stdErr, ok := AsStandard(err)
	return ok && stdErr.Code == ErrCodeSubmissionBusy
}

// UserMessage is the text shown in a notification for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var vErr *ValidationError
	if stderrors.As(err, &vErr) {
		return vErr.Message
	}
	if stdErr, ok := AsStandard(err); ok && stdErr.Message != "" {
		return stdErr.Message
	}
	return "Terjadi kesalahan"
}

// GetErrorCategory groups codes for logs and metrics labels.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeNetwork, ErrCodeResponseShape:
		return "NETWORK"
	case ErrCodeService:
		return "SERVICE"
	case ErrCodeValidation, ErrCodeOptionNotAllowed:
		return "VALIDATION"
	case ErrCodeSubmissionBusy, ErrCodeNotInteractive:
		return "UI_STATE"
	case ErrCodeChartRenderFailed:
		return "RENDER"
	default:
		return "OTHER"
	}
}

// IsRetryableErrorCode reports whether the user can simply try again.
func IsRetryableErrorCode(code ErrorCode) bool {
	switch code {
	case ErrCodeNetwork, ErrCodeNotInteractive:
		return true
	default:
		return false
	}
}

// CodeOf returns the code used for labelling err.
func CodeOf(err error) ErrorCode {
	if err == nil {
		return ""
	}
	if IsValidationError(err) {
		return ErrCodeValidation
	}
	if stdErr, ok := AsStandard(err); ok {
		return stdErr.Code
	}
	return ErrCodeInternal
}
