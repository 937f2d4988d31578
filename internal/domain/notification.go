// Package domain encodes an inbound payment notification and the outcome of relaying it
package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// PublicKeyField is the notification field carrying the merchant public key.
const PublicKeyField = "public_key"

// Notification is an inbound IPN payload. Fields are producer-defined and opaque apart
// from the merchant public key; Raw holds the bytes that get forwarded.
type Notification struct {
	Fields map[string]any
	Raw    json.RawMessage
}

// ParseNotification decodes body as a JSON object. An empty body is treated as {}.
func ParseNotification(body []byte) (*Notification, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		trimmed = []byte("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()

	var fields map[string]any
	if err := dec.Decode(&fields); err != nil {
		return nil, NewInvalidPayloadError(err)
	}
	if fields == nil {
		return nil, NewInvalidPayloadError(nil)
	}
	if dec.More() {
		return nil, NewInvalidPayloadError(nil)
	}

	return &Notification{
		Fields: fields,
		Raw:    json.RawMessage(trimmed),
	}, nil
}

// PublicKey returns the trimmed merchant public key, or "" when it is absent or not a string.
func (n *Notification) PublicKey() string {
	v, ok := n.Fields[PublicKeyField].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
