package domain

import (
	"bytes"
	"encoding/json"
)

// OutcomeStatus is the terminal state of one notification.
type OutcomeStatus string

const (
	OutcomeForwarded     OutcomeStatus = "FORWARDED"
	OutcomeRejected      OutcomeStatus = "REJECTED"
	OutcomeForwardFailed OutcomeStatus = "FORWARD_FAILED"
)

// Outcome is produced once per notification and returned to the caller.
type Outcome struct {
	DeliveryID  string
	Status      OutcomeStatus
	Destination string
	Response    any
	Err         error
}

// ParseResponseBody returns the body as a JSON value when it is valid JSON and as the
// literal text otherwise.
func ParseResponseBody(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	return string(body)
}
