package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLogger struct {
	msgs   []string
	fields []map[string]interface{}
}

func (r *recordingLogger) Error(msg string, fields map[string]interface{}) {
	r.msgs = append(r.msgs, msg)
	r.fields = append(r.fields, fields)
}

func TestHTTPStatusAndPublicMessage(t *testing.T) {
	tests := []struct {
		code    ErrorCode
		status  int
		message string
	}{
		{ErrCodeValidationFailed, http.StatusBadRequest, MsgMissingTopic},
		{ErrCodeMalformedRequest, http.StatusBadRequest, MsgMalformedRequest},
		{ErrCodeGenerationFailed, http.StatusInternalServerError, MsgGenerationFailed},
		{ErrCodeEmptyGeneration, http.StatusInternalServerError, MsgGenerationFailed},
		{ErrCodeStorageFailed, http.StatusInternalServerError, MsgInternal},
		{ErrCodeInternal, http.StatusInternalServerError, MsgInternal},
		{ErrorCode("SOMETHING_NEW"), http.StatusInternalServerError, MsgInternal},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, HTTPStatus(tt.code))
			assert.Equal(t, tt.message, PublicMessage(tt.code))
		})
	}
}

func TestStandardError_UnwrapAndCodeOf(t *testing.T) {
	cause := stderrors.New("throttled")
	err := fmt.Errorf("invoke: %w", NewGenerationFailedError("meta.llama2-13b-chat-v1", cause))

	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, ErrCodeGenerationFailed, CodeOf(err))
	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("plain")))
	assert.Contains(t, err.Error(), "GENERATION_FAILED")
}

func TestErrorHandler_Resolve(t *testing.T) {
	log := &recordingLogger{}
	h := NewErrorHandler(log)

	out := h.Resolve(NewStorageFailedError("bucket", "blog-output/x.txt", stderrors.New("denied")),
		map[string]interface{}{"requestId": "r-1"})

	assert.Equal(t, http.StatusInternalServerError, out.Status)
	assert.Equal(t, MsgInternal, out.Message)
	assert.Equal(t, ErrCodeStorageFailed, out.Code)

	require.Len(t, log.fields, 1)
	assert.Equal(t, "STORAGE_FAILED", log.fields[0]["errorCode"])
	assert.Equal(t, "STORAGE", log.fields[0]["errorCategory"])
	assert.Equal(t, "blog-output/x.txt", log.fields[0]["key"])
	assert.Equal(t, "r-1", log.fields[0]["requestId"])
}

func TestErrorHandler_Resolve_UnknownError(t *testing.T) {
	log := &recordingLogger{}
	out := NewErrorHandler(log).Resolve(stderrors.New("nil map write"), nil)

	assert.Equal(t, http.StatusInternalServerError, out.Status)
	assert.Equal(t, MsgInternal, out.Message)
	assert.Equal(t, ErrCodeInternal, out.Code)
	assert.Equal(t, "nil map write", log.fields[0]["details"])
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeMalformedRequest))
	assert.Equal(t, "AI", GetErrorCategory(ErrCodeEmptyGeneration))
	assert.Equal(t, "STORAGE", GetErrorCategory(ErrCodeIndexFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}
