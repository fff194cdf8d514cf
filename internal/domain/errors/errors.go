package errors

import (
	"net/http"

	"credgate/internal/errors"
)

// AppError defines the interface for application-specific errors
type AppError interface {
	error
	HTTPCode() int     // HTTP status code
	ErrorCode() string // Business error code
	Message() string   // User-friendly error message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface
type BaseError struct {
	httpCode  int
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error
func NewBaseError(httpCode int, errorCode, message, details string) *BaseError {
	return &BaseError{
		httpCode:  httpCode,
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface
func (e *BaseError) Error() string {
	return e.message
}

// WrapMessage wraps the error with additional context message
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// HTTPCode returns the HTTP status code
func (e *BaseError) HTTPCode() int {
	return e.httpCode
}

// ErrorCode returns the business error code
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-friendly error message
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information
func (e *BaseError) Details() string {
	return e.details
}

// Predefined error types
var (
	// Token errors, returned by TokenService.Validate.
	ErrTokenMalformed = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_MALFORMED",
		"token could not be parsed",
		"",
	)

	ErrTokenBadSignature = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_BAD_SIGNATURE",
		"token signature is invalid",
		"",
	)

	ErrTokenExpired = NewBaseError(
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
		"token has expired",
		"",
	)

	// Access gate errors
	ErrAuthHeaderMalformed = NewBaseError(
		http.StatusUnauthorized,
		"AUTH_HEADER_MALFORMED",
		"authorization header is missing or is not a bearer token",
		"",
	)

	ErrUnknownSubject = NewBaseError(
		http.StatusUnauthorized,
		"UNKNOWN_SUBJECT",
		"token subject does not match a known user",
		"",
	)

	// Registration errors
	ErrUsernameTaken = NewBaseError(
		http.StatusConflict,
		"USERNAME_TAKEN",
		"username already registered",
		"",
	)

	// Login errors. Unknown user and wrong password share this value.
	ErrInvalidCredentials = NewBaseError(
		http.StatusUnauthorized,
		"INVALID_CREDENTIALS",
		"incorrect username or password",
		"",
	)

	ErrPasswordHashFailed = NewBaseError(
		http.StatusBadRequest,
		"PASSWORD_HASH_FAILED",
		"password could not be processed",
		"",
	)

	ErrTokenIssueFailed = NewBaseError(
		http.StatusInternalServerError,
		"TOKEN_ISSUE_FAILED",
		"access token could not be issued",
		"",
	)

	// Validation-related errors
	ErrValidationFailed = NewBaseError(
		http.StatusBadRequest,
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	// General errors
	ErrInternalError = NewBaseError(
		http.StatusInternalServerError,
		"INTERNAL_ERROR",
		"internal server error",
		"",
	)
)

// InvalidTokenError is returned by the access gate when the presented token fails validation.
// Reason is one of ErrTokenMalformed, ErrTokenBadSignature or ErrTokenExpired.
type InvalidTokenError struct {
	Reason *BaseError
}

// NewInvalidTokenError wraps a token validation failure for the access gate.
// Errors that are not token errors are treated as malformed tokens.
func NewInvalidTokenError(err error) *InvalidTokenError {
	reason := ErrTokenMalformed
	for _, candidate := range []*BaseError{ErrTokenMalformed, ErrTokenBadSignature, ErrTokenExpired} {
		if errors.Is(err, candidate) {
			reason = candidate

			break
		}
	}

	return &InvalidTokenError{Reason: reason}
}

// Error implements the error interface
func (e *InvalidTokenError) Error() string {
	return "invalid token: " + e.Reason.Error()
}

// Unwrap exposes the reason so errors.Is(err, ErrTokenExpired) holds.
func (e *InvalidTokenError) Unwrap() error {
	return e.Reason
}

// HTTPCode returns the HTTP status code
func (e *InvalidTokenError) HTTPCode() int {
	return http.StatusUnauthorized
}

// ErrorCode returns the business error code of the underlying reason
func (e *InvalidTokenError) ErrorCode() string {
	return e.Reason.ErrorCode()
}

// Message returns the user-friendly error message
func (e *InvalidTokenError) Message() string {
	return e.Reason.Message()
}

// Details returns detailed error information
func (e *InvalidTokenError) Details() string {
	return ""
}

// DatabaseExecuteError represents a database execution error, implementing the AppError interface
type DatabaseExecuteError struct {
	err     error
	details string
}

// NewDatabaseExecuteError creates a database-related error
func NewDatabaseExecuteError(err error, details string) AppError {
	return &DatabaseExecuteError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface
func (e *DatabaseExecuteError) Error() string {
	return errors.Wrap(e.err, "database execution failed").Error()
}

// Unwrap returns the underlying driver error
func (e *DatabaseExecuteError) Unwrap() error {
	return e.err
}

// HTTPCode returns the HTTP status code
func (e *DatabaseExecuteError) HTTPCode() int {
	return http.StatusInternalServerError
}

// ErrorCode returns the business error code
func (e *DatabaseExecuteError) ErrorCode() string {
	return "DATABASE_EXECUTE_FAILED"
}

// Message returns the user-friendly error message
func (e *DatabaseExecuteError) Message() string {
	return "database operation failed"
}

// Details returns detailed error information
func (e *DatabaseExecuteError) Details() string {
	return e.details
}
