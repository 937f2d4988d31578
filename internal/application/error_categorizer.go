package application

import (
	"context"
	"errors"
	"net/http"

	"github.com/DanielPopoola/ipn-relay/internal/domain"
)

// ErrorCategory groups failures by how they are surfaced and whether they are retried
type ErrorCategory string

const (
	CategoryAuthorization ErrorCategory = "AUTHORIZATION"
	CategoryValidation    ErrorCategory = "VALIDATION"
	CategoryResolution    ErrorCategory = "RESOLUTION"
	CategoryTransport     ErrorCategory = "TRANSPORT"
	CategoryStorage       ErrorCategory = "STORAGE"
	CategoryInternal      ErrorCategory = "INTERNAL"
)

// CategorizeError determines error category for retry and logging purposes
func CategorizeError(err error) ErrorCategory {
	if err == nil {
		return ""
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		switch domainErr.Code {
		case domain.ErrCodeIPNotAllowed:
			return CategoryAuthorization
		case domain.ErrCodeInvalidPayload, domain.ErrCodeMissingPublicKey:
			return CategoryValidation
		case domain.ErrCodeUnknownPublicKey:
			return CategoryResolution
		case domain.ErrCodeRegistryUnavailable:
			return CategoryStorage
		case domain.ErrCodeForwardFailed:
			return CategoryTransport
		}
	}

	if errors.Is(err, domain.ErrDestinationNotFound) {
		return CategoryResolution
	}

	if _, ok := IsForwardError(err); ok {
		return CategoryTransport
	}

	return CategoryInternal
}

// IsRetryable reports whether another delivery attempt may succeed.
// Shutdown cancellation stops the loop; every other transport failure is retried.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	return CategorizeError(err) == CategoryTransport
}

// ToHTTPStatus maps error to appropriate HTTP status code
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	switch CategorizeError(err) {
	case CategoryAuthorization, CategoryResolution:
		return http.StatusForbidden
	case CategoryValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// ToErrorCode gives the reason code sent to callers
func ToErrorCode(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	if _, ok := IsForwardError(err); ok {
		return domain.ErrCodeForwardFailed
	}
	return "internal_error"
}

// PublicMessage is the caller-facing description; it never carries transport internals.
func PublicMessage(err error) string {
	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "an internal error occurred"
}
