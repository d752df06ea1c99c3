package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrAgencyNotFound is returned when an agency is not found.
	ErrAgencyNotFound = errors.New("agency not found")
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrRideNotFound is returned when a ride is not found.
	ErrRideNotFound = errors.New("ride not found")
	// ErrNotRideOwner is returned when someone other than the driver touches a ride.
	ErrNotRideOwner = errors.New("only the driver can modify this ride")
	// ErrAgencyInUse is returned when deleting an agency still referenced by users or rides.
	ErrAgencyInUse = errors.New("agency is still referenced by users or rides")
	// ErrUserInUse is returned when deleting a user who still drives rides.
	ErrUserInUse = errors.New("user still drives rides")
	// ErrEmailTaken is returned when an email already belongs to another user.
	ErrEmailTaken = errors.New("email already in use")
	// ErrSelfDelete is returned when an administrator tries to delete their own account.
	ErrSelfDelete = errors.New("cannot delete your own account")
	// ErrInvalidCredentials is returned when login fails.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError carries a message safe to show to the user.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a new validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// IsValidation reports whether err is a ValidationError and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
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

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	if ve, ok := IsValidation(err); ok {
		return NewHTTPError(http.StatusBadRequest, ve.Message, "VALIDATION_FAILED")
	}
	switch {
	case errors.Is(err, ErrAgencyNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "AGENCY_NOT_FOUND")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrRideNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "RIDE_NOT_FOUND")
	case errors.Is(err, ErrNotRideOwner):
		return NewHTTPError(http.StatusForbidden, err.Error(), "NOT_RIDE_OWNER")
	case errors.Is(err, ErrAgencyInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "AGENCY_IN_USE")
	case errors.Is(err, ErrUserInUse):
		return NewHTTPError(http.StatusConflict, err.Error(), "USER_IN_USE")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrSelfDelete):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "SELF_DELETE")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "INVALID_CREDENTIALS")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
