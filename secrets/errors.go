package secrets

import (
	"errors"
	"fmt"

	rooterrors "github.com/rabbitmq/concourse-bintray-resources/errors"
)

// Standard error types for secret resolution.
var (
	// ErrSecretNotFound indicates that the secret or the selected key does not exist.
	ErrSecretNotFound = errors.New("secret not found")

	// ErrProviderError indicates a failure inside the provider.
	ErrProviderError = errors.New("provider error")

	// ErrInvalidRef indicates a malformed reference or secret layout.
	ErrInvalidRef = errors.New("invalid secret reference")

	// ErrAccessDenied indicates the provider refused access to the secret.
	ErrAccessDenied = errors.New("access denied")

	// ErrProviderNotFound indicates that no provider is registered under a name.
	ErrProviderNotFound = errors.New("provider not registered")
)

// ProviderError wraps a provider failure with the provider and secret involved.
type ProviderError struct {
	Provider string    // Name of the provider where the error occurred
	Ref      SecretRef // The secret reference that caused the error
	Err      error     // The underlying error
}

// Error implements the error interface. The secret value is never included.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("provider %q error for secret %q: %v", e.Provider, e.Ref.Name, e.Err)
}

// Unwrap returns the underlying error for error chain traversal.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Code maps the error to the shared error code taxonomy.
func (e *ProviderError) Code() rooterrors.ErrorCode {
	switch {
	case errors.Is(e.Err, ErrSecretNotFound):
		return rooterrors.CodeNotFound
	case errors.Is(e.Err, ErrAccessDenied):
		return rooterrors.CodeForbidden
	case errors.Is(e.Err, ErrInvalidRef):
		return rooterrors.CodeInvalidInput
	default:
		return rooterrors.CodeExecutionFailed
	}
}

// NewProviderError creates a new ProviderError.
func NewProviderError(provider string, ref SecretRef, err error) *ProviderError {
	return &ProviderError{Provider: provider, Ref: ref, Err: err}
}

// IsProviderError checks if an error is a ProviderError or contains one in its chain.
func IsProviderError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe)
}
