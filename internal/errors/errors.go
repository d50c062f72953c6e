package errors

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// FaultMessage is the only text a client ever sees for an internal failure.
const FaultMessage = "Failed to process request: Error occured"

var (
	// ErrVersionConflict is returned when a conditional write lost against a concurrent update.
	ErrVersionConflict = errors.New("version conflict")
	// ErrUnauthorized is returned when the bearer token is missing, invalid or revoked.
	ErrUnauthorized = errors.New("unauthorized")
)

// Rejection is a business-rule violation. It is a normal outcome, not a
// fault, and is reported to the client as a failed envelope with Message as
// the body.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

// Reject creates a Rejection carrying a human-readable reason.
func Reject(message string) error {
	return &Rejection{Message: message}
}

// AsRejection reports whether err is (or wraps) a Rejection.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool { return errors.As(err, target) }

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// AuthFailedResponse is written when authentication fails.
type AuthFailedResponse struct {
	Auth string `json:"auth" example:"failed"`
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

// MapErrorToHTTP maps an error that escaped a handler to the status code and
// message the client receives. Anything unrecognised is a fault.
func MapErrorToHTTP(err error) *HTTPError {
	if rej, ok := AsRejection(err); ok {
		return NewHTTPError(http.StatusOK, rej.Message, "REJECTED")
	}

	var he *HTTPError
	if errors.As(err, &he) {
		return he
	}

	var ee *echo.HTTPError
	if errors.As(err, &ee) && ee.Code < http.StatusInternalServerError {
		msg := http.StatusText(ee.Code)
		if s, ok := ee.Message.(string); ok {
			msg = s
		}
		return NewHTTPError(ee.Code, msg, "HTTP_ERROR")
	}

	switch {
	case errors.Is(err, ErrUnauthorized):
		return NewHTTPError(http.StatusUnauthorized, "failed", "AUTH_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, FaultMessage, "")
	}
}
