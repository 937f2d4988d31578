package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a rejected notification or a failed relay
type DomainError struct {
	Code    string
	Message string
	IP      string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Rejection and failure codes
const (
	ErrCodeIPNotAllowed        = "ip_not_allowed"
	ErrCodeInvalidPayload      = "invalid_payload"
	ErrCodeMissingPublicKey    = "missing_public_key"
	ErrCodeUnknownPublicKey    = "unknown_public_key"
	ErrCodeForwardFailed       = "forward_failed"
	ErrCodeRegistryUnavailable = "registry_unavailable"
)

var ErrDestinationNotFound = errors.New("destination not found")

func NewIPNotAllowedError(ip string) *DomainError {
	return &DomainError{
		Code:    ErrCodeIPNotAllowed,
		Message: "IP not allowed",
		IP:      ip,
	}
}

func NewInvalidPayloadError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeInvalidPayload,
		Message: "payload must be a JSON object",
		Err:     err,
	}
}

func NewMissingPublicKeyError() *DomainError {
	return &DomainError{
		Code:    ErrCodeMissingPublicKey,
		Message: "public_key missing",
	}
}

func NewUnknownPublicKeyError() *DomainError {
	return &DomainError{
		Code:    ErrCodeUnknownPublicKey,
		Message: "unknown public_key",
		Err:     ErrDestinationNotFound,
	}
}

func NewForwardFailedError(attempts int, err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeForwardFailed,
		Message: fmt.Sprintf("destination could not be reached after %d attempts", attempts),
		Err:     err,
	}
}

func NewRegistryUnavailableError(err error) *DomainError {
	return &DomainError{
		Code:    ErrCodeRegistryUnavailable,
		Message: "destination registry unavailable",
		Err:     err,
	}
}

// IsErrorCode checks if an error is a DomainError with a specific code
func IsErrorCode(err error, code string) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}
