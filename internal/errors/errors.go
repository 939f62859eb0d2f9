package errors

import (
	"errors"
	"fmt"
)

// NewValidationError creates a new validation error
func NewValidationError(message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Code:    "VALIDATION_FAILED",
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource string, identifier string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, identifier),
		Code:    "NOT_FOUND",
		Context: map[string]interface{}{
			"resource":   resource,
			"identifier": identifier,
		},
	}
}

// NewDatabaseError creates a new database error. Database errors are fatal to the caller.
func NewDatabaseError(operation string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeDatabase,
		Message: fmt.Sprintf("database operation failed: %s", operation),
		Code:    "DATABASE_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
		},
	}
}

// NewInvalidInputError creates a new invalid input error
func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidInput,
		Message: fmt.Sprintf("invalid input for %s: %s", field, reason),
		Code:    "INVALID_INPUT",
		Context: map[string]interface{}{
			"field":  field,
			"value":  value,
			"reason": reason,
		},
	}
}

// NewSnapshotError creates an error for a snapshot file that could not be read or written
func NewSnapshotError(operation string, path string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeSnapshot,
		Message: fmt.Sprintf("snapshot %s failed: %s", operation, path),
		Code:    "SNAPSHOT_ERROR",
		Cause:   cause,
		Context: map[string]interface{}{
			"operation": operation,
			"path":      path,
		},
	}
}

// NewCorruptSnapshotError creates an error for a snapshot file that exists but cannot be parsed
func NewCorruptSnapshotError(path string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeSnapshot,
		Message: fmt.Sprintf("snapshot is corrupt: %s", path),
		Code:    "SNAPSHOT_CORRUPT",
		Cause:   cause,
		Context: map[string]interface{}{
			"path": path,
		},
	}
}

// NewLifecycleError creates an error for an operation invoked in the wrong application state
func NewLifecycleError(operation string, state string) *AppError {
	return &AppError{
		Type:    ErrorTypeLifecycle,
		Message: fmt.Sprintf("cannot %s while %s", operation, state),
		Code:    "LIFECYCLE",
		Context: map[string]interface{}{
			"operation": operation,
			"state":     state,
		},
	}
}

// IsAppError checks if the error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsErrorType checks if the error is of the specified type
func IsErrorType(err error, errorType ErrorType) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.IsType(errorType)
	}
	return false
}

// IsCorruptSnapshot reports whether err is a corrupt snapshot error
func IsCorruptSnapshot(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == "SNAPSHOT_CORRUPT"
	}
	return false
}

// GetUserMessage returns a message suitable for the terminal
func GetUserMessage(err error) string {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput, ErrorTypeLifecycle:
			return appErr.Message
		case ErrorTypeDatabase:
			return "The task database could not be accessed. Check that the data directory is writable."
		case ErrorTypeSnapshot:
			return "The saved session state could not be accessed. Check that the data directory is writable."
		default:
			return "An unexpected error occurred."
		}
	}
	return err.Error()
}

// GetErrorCode returns the error code for the error
func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError reports whether an error is a system failure worth logging
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		switch appErr.Type {
		case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput:
			return false
		default:
			return true
		}
	}
	return true
}
