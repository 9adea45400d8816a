package errors

import (
	stderrors "errors"
	"fmt"
)

// NewConfigError creates a configuration error
func NewConfigError(key, message string) *AppError {
	return New(ErrCodeInvalidConfig, message).
		WithContext("config_key", key).
		WithUserMessage("Configuration error")
}

// NewStorageError creates a persistence-layer error with operation context
func NewStorageError(operation string, err error) *AppError {
	return Wrap(err, ErrCodeDatabaseQuery, fmt.Sprintf("database %s failed", operation)).
		WithContext("operation", operation).
		WithUserMessage("Storage operation failed")
}

// NewFetchError creates an error for a failed gateway fetch. Transient
// transport and 5xx failures are retryable on a later cycle; the core itself
// never retries them.
func NewFetchError(channel string, statusCode int, err error) *AppError {
	retryable := statusCode == 0 || statusCode >= 500 || statusCode == 429 || statusCode == 408

	appErr := Wrap(err, ErrCodeTelegramAPI, "telegram gateway fetch failed").
		WithContext("channel", channel).
		WithContext("status_code", statusCode).
		WithUserMessage("Failed to fetch messages from channel")
	appErr.Retryable = retryable

	return appErr
}

// NewAuthError creates an authentication error for a rejected gateway call
func NewAuthError(channel string, statusCode int) *AppError {
	return New(ErrCodeAuthentication, "telegram gateway rejected credentials").
		WithContext("channel", channel).
		WithContext("status_code", statusCode).
		WithUserMessage("Authentication with the message gateway failed")
}

// NewValidationError creates a validation error with field context
func NewValidationError(field, message string) *AppError {
	return New(ErrCodeInvalidInput, message).
		WithContext("field", field).
		WithUserMessage(fmt.Sprintf("Invalid %s: %s", field, message))
}

// IsFetchError reports whether err originated from the gateway fetch layer
func IsFetchError(err error) bool {
	code := GetCode(err)
	return code == ErrCodeTelegramAPI || code == ErrCodeAuthentication
}

// IsStorageError reports whether err originated from the persistence layer
func IsStorageError(err error) bool {
	switch GetCode(err) {
	case ErrCodeDatabaseConnection, ErrCodeDatabaseQuery, ErrCodeDatabaseMigration:
		return true
	}
	return false
}

// IsConfigError reports whether err is a configuration failure
func IsConfigError(err error) bool {
	code := GetCode(err)
	return code == ErrCodeInvalidConfig || code == ErrCodeMissingConfig
}

// HTTPStatusCode maps error codes to appropriate HTTP status codes
func HTTPStatusCode(err error) int {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeMissingConfig:
		return 400
	case ErrCodeAuthentication:
		return 401
	case ErrCodeNotFound:
		return 404
	case ErrCodeTimeout:
		return 408
	case ErrCodeTelegramAPI:
		if IsRetryable(err) {
			return 502
		}
		return 500
	case ErrCodeDatabaseConnection, ErrCodeDatabaseQuery, ErrCodeDatabaseMigration:
		return 503
	default:
		return 500
	}
}

// As is a convenience re-export so callers don't need both errors packages
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}
