package errors

import (
	"errors"
	"fmt"
)

// AppError represents an application error with additional context
type AppError struct {
	Code    string // Error code for callers to branch on
	Message string // Human-readable message, shown to the user verbatim
	Err     error  // Underlying error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Error codes for the transaction workflow and its collaborators.
const (
	// CodeValidation: rejected locally, the request never reached the network
	CodeValidation = "VALIDATION_ERROR"
	// CodeRequest: the ledger service rejected the request or was unreachable
	CodeRequest = "REQUEST_ERROR"
	// CodeRefresh: the mutation succeeded but the follow-up dashboard
	// fetch failed, so the rendered view may be stale
	CodeRefresh = "REFRESH_ERROR"
	// CodeUnauthorized: the session credential is missing, expired or rejected
	CodeUnauthorized = "UNAUTHORIZED"
	// CodeDataIntegrity: a server record violates a documented invariant
	CodeDataIntegrity = "DATA_INTEGRITY"
)

// Validation creates a validation error
func Validation(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

// Request creates a request error carrying the server's message
func Request(message string, err error) *AppError {
	return &AppError{
		Code:    CodeRequest,
		Message: message,
		Err:     err,
	}
}

// Refresh creates a refresh error. The wrapped error is the fetch
// failure; the mutation itself already went through.
func Refresh(err error) *AppError {
	return &AppError{
		Code:    CodeRefresh,
		Message: "transaction submitted, but refreshing the dashboard failed",
		Err:     err,
	}
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

// DataIntegrity creates a data integrity error
func DataIntegrity(message string) *AppError {
	return &AppError{
		Code:    CodeDataIntegrity,
		Message: message,
	}
}

// HasCode reports whether err is (or wraps) an AppError with the given code
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// UserMessage extracts the message to surface to the user. Non-AppError
// failures are shown as-is.
func UserMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
