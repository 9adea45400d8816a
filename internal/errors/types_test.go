package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	err := New(ErrCodeInvalidConfig, "bad config")
	assert.Equal(t, "INVALID_CONFIG: bad config", err.Error())

	wrapped := Wrap(stderrors.New("underlying"), ErrCodeDatabaseQuery, "query failed")
	assert.Equal(t, "DATABASE_QUERY: query failed: underlying", wrapped.Error())
}

func TestAppError_Unwrap(t *testing.T) {
	cause := stderrors.New("underlying")
	err := Wrap(cause, ErrCodeDatabaseQuery, "query failed")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, cause, err.Unwrap())
	assert.Nil(t, New(ErrCodeInternalError, "no cause").Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	err := New(ErrCodeTelegramAPI, "fetch failed").
		WithContext("channel", "news").
		WithContext("status_code", 500)

	assert.Equal(t, "news", err.Context["channel"])
	assert.Equal(t, 500, err.Context["status_code"])
}

func TestAppError_WithUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "field empty").WithUserMessage("Channel is required")
	assert.Equal(t, "Channel is required", GetUserMessage(err))
}

func TestWrapRetryable(t *testing.T) {
	err := WrapRetryable(stderrors.New("timeout"), ErrCodeTelegramAPI, "fetch failed")
	assert.True(t, err.Retryable)
	assert.True(t, IsRetryable(err))
}

func TestIsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(stderrors.New("plain")))
	assert.False(t, IsRetryable(New(ErrCodeTelegramAPI, "not retryable")))
	assert.True(t, IsRetryable(WrapRetryable(nil, ErrCodeTelegramAPI, "retryable")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, ErrCodeDatabaseQuery, GetCode(New(ErrCodeDatabaseQuery, "x")))
	assert.Equal(t, ErrCodeInternalError, GetCode(stderrors.New("plain")))

	// Codes survive wrapping in plain fmt errors
	wrapped := fmt.Errorf("outer: %w", New(ErrCodeAuthentication, "denied"))
	assert.Equal(t, ErrCodeAuthentication, GetCode(wrapped))
}

func TestGetUserMessage(t *testing.T) {
	assert.Equal(t, "An internal error occurred", GetUserMessage(stderrors.New("plain")))
	assert.Equal(t, "An internal error occurred", GetUserMessage(New(ErrCodeInternalError, "no user message")))
	assert.Equal(t, "Storage operation failed", GetUserMessage(NewStorageError("save", stderrors.New("x"))))
}

func TestAs(t *testing.T) {
	var appErr *AppError
	require.True(t, As(fmt.Errorf("outer: %w", New(ErrCodeNotFound, "gone")), &appErr))
	assert.Equal(t, ErrCodeNotFound, appErr.Code)
}
