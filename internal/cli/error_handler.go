package cli

import (
	stderrors "errors"
	"fmt"
	"log/slog"

	"singletask/internal/errors"
	"singletask/internal/validation"
)

// UserError carries a message for the terminal while keeping the original error
// available to errors.Is and errors.As
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle prefixes the user message with the failed operation
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if err == nil {
		return nil
	}
	return &UserError{
		Message: fmt.Sprintf("failed to %s: %s", operation, eh.message(err)),
		Err:     err,
	}
}

// HandleSimple provides user-friendly error messages without operation context
func (eh *ErrorHandler) HandleSimple(err error) error {
	if err == nil {
		return nil
	}
	return &UserError{Message: eh.message(err), Err: err}
}

func (eh *ErrorHandler) message(err error) string {
	var validationErr *validation.ValidationError
	if stderrors.As(err, &validationErr) {
		return validationErr.GetUserFriendlyMessage()
	}
	if errors.IsAppError(err) {
		return errors.GetUserMessage(err)
	}
	return err.Error()
}

// Log records system failures with their underlying cause. Mistakes in user
// input are only shown, never logged.
func (eh *ErrorHandler) Log(logger *slog.Logger, operation string, err error) {
	if err == nil || validation.IsValidationError(err) || !errors.ShouldLogError(err) {
		return
	}
	var userErr *UserError
	if stderrors.As(err, &userErr) && userErr.Err != nil {
		err = userErr.Err
	}
	logger.Error(operation+" failed", "code", errors.GetErrorCode(err), "error", err)
}

// IsFatal reports whether err means the database can no longer be trusted
func (eh *ErrorHandler) IsFatal(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeDatabase)
}
