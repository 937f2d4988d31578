package application

import (
	"context"
)

// Registry resolves a merchant public key to its forwarding URL.
type Registry interface {
	Resolve(ctx context.Context, publicKey string) (string, error)
}

// ForwardClient performs exactly one delivery attempt.
type ForwardClient interface {
	Post(ctx context.Context, url string, payload []byte) (*ForwardResponse, error)
}

// Forwarder delivers a payload, retrying as its policy allows, and returns the parsed
// response body of the successful attempt.
type Forwarder interface {
	Forward(ctx context.Context, url string, payload []byte) (any, error)
}

// ActivityLog is the append-only audit sink.
type ActivityLog interface {
	Record(message string)
}

// ActivityStore exposes the audit log contents for retrieval and truncation.
type ActivityStore interface {
	ActivityLog
	Read() ([]byte, error)
	Clear() error
}

// ForwardResponse is what one attempt observed from the destination.
type ForwardResponse struct {
	StatusCode int
	Body       any
}
