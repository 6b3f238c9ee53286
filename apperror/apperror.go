// Package apperror defines a centralized system for application-specific errors.
// Every failure produced by the core packages is an *AppError carrying one ErrorType,
// and the HTTP boundary maps each type to exactly one status code.
package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorType is an enumeration (using `iota`) for the categories of application errors.
type ErrorType int

const (
	// UnknownError is for unspecified errors
	UnknownError ErrorType = iota
	// DatabaseError represents an error originating from the database
	DatabaseError
	// ConfigError represents an error related to application configuration
	ConfigError
	// InternalError represents a generic internal server error
	InternalError
	// DuplicateUsernameError is returned when registering a username that is taken
	DuplicateUsernameError
	// InvalidCredentialsError is returned when a username/password pair does not verify
	InvalidCredentialsError
	// InvalidTokenError covers malformed, tampered or wrongly signed bearer tokens
	InvalidTokenError
	// ExpiredTokenError is returned for a well-formed token past its expiry
	ExpiredTokenError
	// UnauthenticatedError is what protected endpoints see when no identity can be resolved
	UnauthenticatedError
	// NotFoundError represents a resource not found error
	NotFoundError
	// ForbiddenError represents an authenticated caller acting on a record it does not own
	ForbiddenError
	// InvalidInputError represents an input validation error
	InvalidInputError
)

var typeNames = map[ErrorType]string{
	UnknownError:            "unknown",
	DatabaseError:           "database",
	ConfigError:             "config",
	InternalError:           "internal",
	DuplicateUsernameError:  "duplicate_username",
	InvalidCredentialsError: "invalid_credentials",
	InvalidTokenError:       "invalid_token",
	ExpiredTokenError:       "expired_token",
	UnauthenticatedError:    "unauthenticated",
	NotFoundError:           "not_found",
	ForbiddenError:          "forbidden",
	InvalidInputError:       "invalid_input",
}

// String returns a stable snake_case name, used as a log field and metrics label.
func (t ErrorType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("error_type(%d)", int(t))
}

// AppError is a custom error type for the application.
// It wraps an optional underlying error (`Err`) for debugging; the underlying error is
// never shown to API clients.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error // Underlying error
}

// Error returns the string representation of the error, satisfying the `error` interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error so `errors.Is` and `errors.As` can walk the chain.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type. It lets callers compare
// against the kind sentinels below, e.g. errors.Is(err, apperror.ErrExpiredToken).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type
}

// StatusCode returns the HTTP status code appropriate for the error type
func (e *AppError) StatusCode() int {
	switch e.Type {
	case DatabaseError, ConfigError, InternalError:
		return http.StatusInternalServerError
	case DuplicateUsernameError:
		// Registration conflicts are reported as 400 rather than 409.
		return http.StatusBadRequest
	case InvalidCredentialsError, InvalidTokenError, ExpiredTokenError, UnauthenticatedError:
		return http.StatusUnauthorized
	case ForbiddenError:
		return http.StatusForbidden
	case NotFoundError:
		return http.StatusNotFound
	case InvalidInputError:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsAuthFailure reports whether the error type is one of the authentication failures that
// surface as 401.
func (e *AppError) IsAuthFailure() bool {
	return e.StatusCode() == http.StatusUnauthorized
}

// NewAppError creates a new AppError. It is the generic constructor used by the
// type-specific helpers below.
func NewAppError(errType ErrorType, message string, underlyingError error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Err:     underlyingError,
	}
}

// MsgUnauthenticated is the client message of every 401 on a protected route.
const MsgUnauthenticated = "Could not validate credentials"

// Kind sentinels. They carry no message and only exist for errors.Is comparisons.
var (
	ErrDuplicateUsername  = &AppError{Type: DuplicateUsernameError}
	ErrInvalidCredentials = &AppError{Type: InvalidCredentialsError}
	ErrInvalidToken       = &AppError{Type: InvalidTokenError}
	ErrExpiredToken       = &AppError{Type: ExpiredTokenError}
	ErrUnauthenticated    = &AppError{Type: UnauthenticatedError}
	ErrNotFound           = &AppError{Type: NotFoundError}
	ErrForbidden          = &AppError{Type: ForbiddenError}
	ErrInvalidInput       = &AppError{Type: InvalidInputError}
)

// NewDatabaseError creates a new DatabaseError
func NewDatabaseError(message string, underlyingError error) *AppError {
	return NewAppError(DatabaseError, message, underlyingError)
}

// NewConfigError creates a new ConfigError
func NewConfigError(message string, underlyingError error) *AppError {
	return NewAppError(ConfigError, message, underlyingError)
}

// NewInternalError creates a new InternalError
func NewInternalError(message string, underlyingError error) *AppError {
	return NewAppError(InternalError, message, underlyingError)
}

// NewDuplicateUsernameError creates a new DuplicateUsernameError
func NewDuplicateUsernameError(message string, underlyingError error) *AppError {
	return NewAppError(DuplicateUsernameError, message, underlyingError)
}

// NewInvalidCredentialsError creates a new InvalidCredentialsError
func NewInvalidCredentialsError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidCredentialsError, message, underlyingError)
}

// NewInvalidTokenError creates a new InvalidTokenError
func NewInvalidTokenError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidTokenError, message, underlyingError)
}

// NewExpiredTokenError creates a new ExpiredTokenError
func NewExpiredTokenError(message string, underlyingError error) *AppError {
	return NewAppError(ExpiredTokenError, message, underlyingError)
}

// NewUnauthenticatedError creates a new UnauthenticatedError
func NewUnauthenticatedError(message string, underlyingError error) *AppError {
	return NewAppError(UnauthenticatedError, message, underlyingError)
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(message string, underlyingError error) *AppError {
	return NewAppError(NotFoundError, message, underlyingError)
}

// NewForbiddenError creates a new ForbiddenError
func NewForbiddenError(message string, underlyingError error) *AppError {
	return NewAppError(ForbiddenError, message, underlyingError)
}

// NewInvalidInputError creates a new InvalidInputError
func NewInvalidInputError(message string, underlyingError error) *AppError {
	return NewAppError(InvalidInputError, message, underlyingError)
}

// ErrorResponse represents a generic error response payload for API clients.
type ErrorResponse struct {
	Error string `json:"error" example:"A description of the error"`
}

// ToResponse converts an AppError to an ErrorResponse suitable for API responses.
// Only the user-facing `Message` is included; server-side failures get a fixed message.
func (e *AppError) ToResponse() ErrorResponse {
	if e.StatusCode() >= http.StatusInternalServerError {
		return ErrorResponse{Error: "internal server error"}
	}
	return ErrorResponse{Error: e.Message}
}

// FromError attempts to convert a generic error to an *AppError, looking through wrapped errors.
// It returns the *AppError and true if successful, otherwise nil and false.
func FromError(err error) (*AppError, bool) {
	if err == nil {
		return nil, false
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// TypeOf returns the ErrorType of err, or UnknownError when err is not an *AppError.
func TypeOf(err error) ErrorType {
	if ae, ok := FromError(err); ok {
		return ae.Type
	}
	return UnknownError
}

// IsNotFound checks if an error is a NotFound error
func IsNotFound(err error) bool {
	return TypeOf(err) == NotFoundError
}

// IsForbidden checks if an error is a Forbidden error
func IsForbidden(err error) bool {
	return TypeOf(err) == ForbiddenError
}

// IsInvalidInput checks if an error is an InvalidInput error
func IsInvalidInput(err error) bool {
	return TypeOf(err) == InvalidInputError
}
