package testhelpers

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

const (
	AllowedAddr    = "127.0.0.1:51234"
	ForeignAddr    = "203.0.113.9:40000"
	MerchantURL    = "https://merchant.example/ipn"
	KnownPublicKey = "pk_live_merchant"
)

// IPNPayload builds a provider-style notification body. Extra fields override the defaults.
func IPNPayload(t *testing.T, extra map[string]any) []byte {
	t.Helper()

	fields := map[string]any{
		"public_key":     KnownPublicKey,
		"transaction_id": "tx-" + uuid.New().String(),
		"amount":         "125.40",
		"currency":       "EUR",
		"status":         "COMPLETED",
	}
	for k, v := range extra {
		if v == nil {
			delete(fields, k)
			continue
		}
		fields[k] = v
	}

	body, err := json.Marshal(fields)
	require.NoError(t, err)
	return body
}
