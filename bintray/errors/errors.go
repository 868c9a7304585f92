// Package errors provides error types and handling for Bintray REST operations.
package errors

import (
	"errors"
	"fmt"
	"net/http"

	rooterrors "github.com/rabbitmq/concourse-bintray-resources/errors"
)

// Error represents a failed Bintray operation with context about what was attempted.
type Error struct {
	// Op is the operation that failed (e.g., "upload", "publish", "get package")
	Op string

	// Path is the API path or content path involved (if applicable)
	Path string

	// StatusCode is the HTTP status returned by the API, 0 for transport failures
	StatusCode int

	// Err is the underlying error
	Err error
}

// Error implements the error interface by providing a formatted error message.
func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.StatusCode != 0:
		return fmt.Sprintf("bintray.%s %s (HTTP %d): %v", e.Op, e.Path, e.StatusCode, e.Err)
	case e.Path != "":
		return fmt.Sprintf("bintray.%s %s: %v", e.Op, e.Path, e.Err)
	default:
		return fmt.Sprintf("bintray.%s: %v", e.Op, e.Err)
	}
}

// Unwrap returns the underlying error for error chaining support.
func (e *Error) Unwrap() error {
	return e.Err
}

// Code maps the error to the shared error code taxonomy.
func (e *Error) Code() rooterrors.ErrorCode {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return rooterrors.CodeNotFound
	case errors.Is(e.Err, ErrUnauthorized):
		return rooterrors.CodeUnauthorized
	case errors.Is(e.Err, ErrForbidden):
		return rooterrors.CodeForbidden
	case errors.Is(e.Err, ErrConflict):
		return rooterrors.CodeConflict
	case errors.Is(e.Err, ErrBadRequest), errors.Is(e.Err, ErrInvalidInput):
		return rooterrors.CodeInvalidInput
	case errors.Is(e.Err, ErrTooManyRequests):
		return rooterrors.CodeRateLimit
	case errors.Is(e.Err, ErrServer):
		return rooterrors.CodeUnavailable
	case e.StatusCode == 0:
		if code := rooterrors.CodeOf(e.Err); code != rooterrors.CodeUnknown {
			return code
		}
		return rooterrors.CodeNetwork
	default:
		return rooterrors.CodeUnknown
	}
}

// NewError creates a new Error with the given operation and underlying error.
func NewError(op string, err error) *Error {
	return &Error{Op: op, Err: err}
}

// NewPathError creates a new Error with path context.
func NewPathError(op, path string, err error) *Error {
	return &Error{Op: op, Path: path, Err: err}
}

// NewStatusError creates an Error for a non-2xx API response. The sentinel
// matching the status is wrapped together with the server message so that
// both errors.Is and the human readable text work.
func NewStatusError(op, path string, status int, message string) *Error {
	sentinel := FromStatus(status)
	err := sentinel
	if message != "" {
		err = fmt.Errorf("%w: %s", sentinel, message)
	}
	return &Error{Op: op, Path: path, StatusCode: status, Err: err}
}

// Sentinel errors for common Bintray API failures.
// These can be used with errors.Is() for error checking.
var (
	// ErrNotFound indicates that the requested entity does not exist
	ErrNotFound = errors.New("bintray: not found")

	// ErrUnauthorized indicates missing or invalid credentials
	ErrUnauthorized = errors.New("bintray: unauthorized")

	// ErrForbidden indicates the credentials lack permission for the operation
	ErrForbidden = errors.New("bintray: forbidden")

	// ErrConflict indicates the entity already exists or is in a conflicting state
	ErrConflict = errors.New("bintray: conflict")

	// ErrBadRequest indicates the API rejected the request
	ErrBadRequest = errors.New("bintray: bad request")

	// ErrTooManyRequests indicates the request rate is too high
	ErrTooManyRequests = errors.New("bintray: too many requests")

	// ErrServer indicates a server side failure
	ErrServer = errors.New("bintray: server error")

	// ErrUnexpectedStatus indicates a status code with no dedicated sentinel
	ErrUnexpectedStatus = errors.New("bintray: unexpected status")

	// ErrInvalidInput indicates that the caller provided invalid input
	ErrInvalidInput = errors.New("bintray: invalid input")
)

// FromStatus returns the sentinel error matching an HTTP status code.
func FromStatus(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusConflict:
		return ErrConflict
	case status == http.StatusBadRequest:
		return ErrBadRequest
	case status == http.StatusTooManyRequests:
		return ErrTooManyRequests
	case status >= http.StatusInternalServerError:
		return ErrServer
	default:
		return ErrUnexpectedStatus
	}
}

// NewValidationError creates an Error for invalid caller input.
func NewValidationError(message string) *Error {
	return &Error{Op: "validate", Err: fmt.Errorf("%w: %s", ErrInvalidInput, message)}
}

// IsNotFound checks if an error indicates that an entity was not found.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsUnauthorized checks if an error indicates rejected credentials.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
