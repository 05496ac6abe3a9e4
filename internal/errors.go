package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation     ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound       ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized   ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden      ErrorType = "FORBIDDEN"
	ErrorTypeConflict       ErrorType = "CONFLICT"
	ErrorTypeInvalidExpired ErrorType = "INVALID_OR_EXPIRED"
	ErrorTypeInternal       ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeCommentsRequired ErrorCode = "COMMENTS_REQUIRED"
	ErrCodeInvalidManager   ErrorCode = "INVALID_MANAGER"
	ErrCodeManagerCycle     ErrorCode = "MANAGER_CYCLE"

	ErrCodeExpenseNotFoundOrForbidden ErrorCode = "EXPENSE_NOT_FOUND_OR_FORBIDDEN"
	ErrCodeUserNotFound               ErrorCode = "USER_NOT_FOUND"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeAdminRequired      ErrorCode = "ADMIN_REQUIRED"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodeResetTokenInvalid  ErrorCode = "RESET_TOKEN_INVALID"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) fieldErrors() []ValidationError {
	if details, ok := e.Details.(ValidationErrors); ok {
		return details.Errors
	}
	return nil
}

func (e *AppError) Error() string {
	if fields := e.fieldErrors(); len(fields) > 0 {
		return fields[0].Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins every field message, or falls back to Message.
func (e *AppError) GetDetailedMessage() string {
	fields := e.fieldErrors()
	if len(fields) == 0 {
		return e.Message
	}
	messages := make([]string, len(fields))
	for i, f := range fields {
		messages[i] = f.Message
	}
	return strings.Join(messages, "; ")
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func newAppError(t ErrorType, status int, code ErrorCode, message string) *AppError {
	return &AppError{Type: t, Code: code, Message: message, StatusCode: status}
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeValidation, http.StatusBadRequest, code, message)
}

// NewValidationFieldError reports a single offending field under the generic
// VALIDATION_FAILED code.
func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return NewValidationError("Validation failed", ErrCodeValidationFailed).WithDetails(ValidationErrors{
		Errors: []ValidationError{{Field: field, Message: message, Code: string(code)}},
	})
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeNotFound, http.StatusNotFound, code, message)
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeUnauthorized, http.StatusUnauthorized, code, message)
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeForbidden, http.StatusForbidden, code, message)
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeConflict, http.StatusConflict, code, message)
}

// NewInvalidOrExpiredError is for credentials that were once valid, such as a
// consumed or stale reset token.
func NewInvalidOrExpiredError(message string, code ErrorCode) *AppError {
	return newAppError(ErrorTypeInvalidExpired, http.StatusBadRequest, code, message)
}

// NewInternalError wraps a store or transport failure. The cause is kept for
// logging and never serialized.
func NewInternalError(message string, cause error) *AppError {
	appErr := newAppError(ErrorTypeInternal, http.StatusInternalServerError, ErrCodeInternal, message)
	appErr.Cause = cause
	return appErr
}

var (
	ErrNotFoundOrForbidden = NewNotFoundError("Expense not found or you are not authorized to act on it.", ErrCodeExpenseNotFoundOrForbidden)
	ErrCommentsRequired    = NewValidationError("Comments are required for rejection.", ErrCodeCommentsRequired)

	ErrInvalidCredentials = NewUnauthorizedError("Invalid credentials.", ErrCodeInvalidCredentials)
	ErrInvalidToken       = NewUnauthorizedError("Token is not valid.", ErrCodeInvalidToken)
	ErrEmailTaken         = NewConflictError("Email already in use.", ErrCodeEmailTaken)
	ErrResetTokenInvalid  = NewInvalidOrExpiredError("Password reset token is invalid or has expired.", ErrCodeResetTokenInvalid)

	ErrAdminRequired  = NewForbiddenError("Administrator access required.", ErrCodeAdminRequired)
	ErrUserNotFound   = NewNotFoundError("User not found.", ErrCodeUserNotFound)
	ErrInvalidManager = NewValidationError("Manager must be an existing user in the same company.", ErrCodeInvalidManager)
	ErrManagerCycle   = NewValidationError("Manager assignment would create a reporting cycle.", ErrCodeManagerCycle)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

type Response struct {
	Error *AppError `json:"error"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	return e.StatusCode, Response{Error: e}
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
