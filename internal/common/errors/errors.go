// Package errors provides the standardized error taxonomy for the blog generator
// and its mapping onto API Gateway status codes and public messages.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeMalformedRequest   ErrorCode = "MALFORMED_REQUEST"
	ErrCodeGenerationFailed   ErrorCode = "GENERATION_FAILED"
	ErrCodeEmptyGeneration    ErrorCode = "EMPTY_GENERATION"
	ErrCodeStorageFailed      ErrorCode = "STORAGE_FAILED"
	ErrCodeNotificationFailed ErrorCode = "NOTIFICATION_FAILED"
	ErrCodeIndexFailed        ErrorCode = "INDEX_FAILED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// Public messages returned to API callers. The cause is logged, never echoed.
const (
	MsgSuccess          = "Blog generation and upload completed."
	MsgMissingTopic     = "Invalid request: Missing blog topic"
	MsgMalformedRequest = "Invalid request: Malformed request body"
	MsgGenerationFailed = "Blog generation failed."
	MsgInternal         = "Internal server error."
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	Cause     error                  `json:"-"`
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a non-retryable validation error for a missing or empty field.
func NewValidationError(field, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeValidationFailed,
		Message:   "Request validation failed",
		Details:   details,
		Retryable: false,
		Metadata:  map[string]interface{}{"field": field},
		Timestamp: time.Now().UTC(),
	}
}

// NewMalformedRequestError creates a non-retryable error for a body that cannot be decoded.
func NewMalformedRequestError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedRequest,
		Message:   "Request body could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewGenerationFailedError wraps a failed model invocation.
func NewGenerationFailedError(modelID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGenerationFailed,
		Message:   "Model invocation failed",
		Details:   fmt.Sprintf("modelId: %s, error: %s", modelID, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"modelId": modelID},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewEmptyGenerationError reports a model response without generated text.
func NewEmptyGenerationError(modelID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmptyGeneration,
		Message:   "Model returned no generated text",
		Details:   fmt.Sprintf("modelId: %s", modelID),
		Retryable: true,
		Metadata:  map[string]interface{}{"modelId": modelID},
		Timestamp: time.Now().UTC(),
	}
}

// NewStorageFailedError wraps a failed object write.
func NewStorageFailedError(bucket, key string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeStorageFailed,
		Message:   "Artifact write failed",
		Details:   fmt.Sprintf("bucket: %s, key: %s, error: %s", bucket, key, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"bucket": bucket, "key": key},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewNotificationFailedError wraps a failed SNS/SES delivery.
func NewNotificationFailedError(channel string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationFailed,
		Message:   "Notification delivery failed",
		Details:   fmt.Sprintf("channel: %s, error: %s", channel, err.Error()),
		Retryable: true,
		Metadata:  map[string]interface{}{"channel": channel},
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewIndexFailedError wraps a failed artifact index update.
func NewIndexFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexFailed,
		Message:   "Artifact index update failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// NewInternalError wraps anything unexpected.
func NewInternalError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}

// HTTPStatus maps an error code onto the status returned to the caller.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodeMalformedRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage maps an error code onto the message returned to the caller.
func PublicMessage(code ErrorCode) string {
	switch code {
	case ErrCodeValidationFailed:
		return MsgMissingTopic
	case ErrCodeMalformedRequest:
		return MsgMalformedRequest
	case ErrCodeGenerationFailed, ErrCodeEmptyGeneration:
		return MsgGenerationFailed
	default:
		return MsgInternal
	}
}

// CodeOf returns the code of the first StandardError in err's chain,
// or ErrCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "VALIDATION") || strings.Contains(codeStr, "MALFORMED"):
		return "VALIDATION"
	case strings.Contains(codeStr, "GENERATION"):
		return "AI"
	case strings.Contains(codeStr, "STORAGE") || strings.Contains(codeStr, "INDEX"):
		return "STORAGE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	default:
		return "OTHER"
	}
}
