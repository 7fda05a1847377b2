package errors

import (
	"errors"
	"net/http"
)

// Error kinds. Specific errors below wrap one of these so callers can match
// on the kind with errors.Is.
var (
	// ErrValidation is returned when required fields are missing or malformed.
	ErrValidation = errors.New("validation error")
	// ErrDuplicate is returned on a unique constraint violation.
	ErrDuplicate = errors.New("duplicate")
	// ErrNotFound is returned when a referenced entity is absent or its id is malformed.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthorized is returned when the caller lacks ownership, membership or admin rights.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrUnauthenticated is returned when the session token is missing, invalid or expired.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidCredentials is returned when username or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrForbidden is returned for actions no role may perform in the current state.
	ErrForbidden = errors.New("forbidden")
	// ErrAlreadyMember is returned when joining a group twice.
	ErrAlreadyMember = errors.New("already a member of this group")
	// ErrNotAMember is returned when leaving a group the caller is not in.
	ErrNotAMember = errors.New("not a member of this group")
)

var (
	ErrDuplicateUsername = New(ErrDuplicate, "username already exists")
	ErrDuplicateEmail    = New(ErrDuplicate, "email already exists")

	ErrUserNotFound     = New(ErrNotFound, "user not found")
	ErrExerciseNotFound = New(ErrNotFound, "exercise not found")
	ErrDietNotFound     = New(ErrNotFound, "diet entry not found")
	ErrGoalNotFound     = New(ErrNotFound, "goal not found")
	ErrGroupNotFound    = New(ErrNotFound, "group not found")
	ErrInvalidInvite    = New(ErrNotFound, "invalid invite code")

	ErrAdminCannotLeave = New(ErrForbidden, "as the admin, you cannot leave the group; delete it or transfer admin rights first")
)

// DomainError carries a user-facing message and the kind it belongs to.
type DomainError struct {
	kind    error
	message string
}

// New creates an error of the given kind with a specific message.
func New(kind error, message string) *DomainError {
	return &DomainError{kind: kind, message: message}
}

// Validation is shorthand for a validation error with a message.
func Validation(message string) *DomainError {
	return New(ErrValidation, message)
}

// NotAuthorized is shorthand for an authorization error with a message.
func NotAuthorized(message string) *DomainError {
	return New(ErrNotAuthorized, message)
}

func (e *DomainError) Error() string {
	return e.message
}

func (e *DomainError) Unwrap() error {
	return e.kind
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// IsInternal reports whether err does not belong to any known domain kind.
func IsInternal(err error) bool {
	return MapErrorToHTTP(err).StatusCode == http.StatusInternalServerError
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrDuplicate):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "DUPLICATE")
	case errors.Is(err, ErrAlreadyMember):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "ALREADY_MEMBER")
	case errors.Is(err, ErrNotAMember):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "NOT_A_MEMBER")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrNotAuthorized):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "NOT_AUTHORIZED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
