package errors

import (
	stderrors "errors"
	"time"
)

// Outcome is the caller-facing result of resolving an error.
type Outcome struct {
	Status  int
	Message string
	Code    ErrorCode
}

// ErrorHandler normalizes pipeline errors, logs them and resolves the response.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Resolve logs err with the given fields and returns the status/message pair
// the caller should see.
func (h *ErrorHandler) Resolve(err error, fields map[string]interface{}) Outcome {
	stdErr := normalizeError(err)

	logFields := map[string]interface{}{
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		logFields[k] = v
	}
	for k, v := range fields {
		logFields[k] = v
	}
	h.logger.Error("request failed", logFields)

	return Outcome{
		Status:  HTTPStatus(stdErr.Code),
		Message: PublicMessage(stdErr.Code),
		Code:    stdErr.Code,
	}
}

func normalizeError(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		Cause:     err,
	}
}
