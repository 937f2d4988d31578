package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/DanielPopoola/ipn-relay/internal/application/services"
	"github.com/DanielPopoola/ipn-relay/internal/application/services/testhelpers"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newGate(registry *testhelpers.MockRegistry, activity *testhelpers.ActivityRecorder) *services.Gate {
	return services.NewGate(domain.NewAllowlist(domain.DefaultAllowedIPs), registry, activity, discardLogger())
}

func TestGate_Admit_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		body       func(t *testing.T) []byte
		resolves   bool
		wantCode   string
		wantEntry  string
	}{
		{
			name:       "source outside allowlist",
			remoteAddr: testhelpers.ForeignAddr,
			body:       func(t *testing.T) []byte { return testhelpers.IPNPayload(t, nil) },
			wantCode:   domain.ErrCodeIPNotAllowed,
			wantEntry:  "rejected IPN from 203.0.113.9: IP not allowed",
		},
		{
			name:       "mapped IPv6 of a foreign host",
			remoteAddr: "[::ffff:10.0.0.8]:443",
			body:       func(t *testing.T) []byte { return testhelpers.IPNPayload(t, nil) },
			wantCode:   domain.ErrCodeIPNotAllowed,
			wantEntry:  "10.0.0.8",
		},
		{
			name:       "array payload",
			remoteAddr: testhelpers.AllowedAddr,
			body:       func(*testing.T) []byte { return []byte(`[{"public_key":"pk"}]`) },
			wantCode:   domain.ErrCodeInvalidPayload,
			wantEntry:  "payload is not a JSON object",
		},
		{
			name:       "empty body has no key",
			remoteAddr: testhelpers.AllowedAddr,
			body:       func(*testing.T) []byte { return nil },
			wantCode:   domain.ErrCodeMissingPublicKey,
			wantEntry:  "public_key missing",
		},
		{
			name:       "blank key",
			remoteAddr: testhelpers.AllowedAddr,
			body:       func(t *testing.T) []byte { return testhelpers.IPNPayload(t, map[string]any{"public_key": "   "}) },
			wantCode:   domain.ErrCodeMissingPublicKey,
			wantEntry:  "public_key missing",
		},
		{
			name:       "numeric key",
			remoteAddr: testhelpers.AllowedAddr,
			body:       func(t *testing.T) []byte { return testhelpers.IPNPayload(t, map[string]any{"public_key": 42}) },
			wantCode:   domain.ErrCodeMissingPublicKey,
			wantEntry:  "public_key missing",
		},
		{
			name:       "unknown key",
			remoteAddr: testhelpers.AllowedAddr,
			body:       func(t *testing.T) []byte { return testhelpers.IPNPayload(t, nil) },
			resolves:   true,
			wantCode:   domain.ErrCodeUnknownPublicKey,
			wantEntry:  "no destination for public_key pk_live_merchant",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registry := &testhelpers.MockRegistry{}
			if tt.resolves {
				registry.On("Resolve", mock.Anything, testhelpers.KnownPublicKey).
					Return("", domain.NewUnknownPublicKeyError()).
					Once()
			}
			activity := &testhelpers.ActivityRecorder{}
			gate := newGate(registry, activity)

			admission, err := gate.Admit(context.Background(), tt.remoteAddr, tt.body(t), nil)

			require.Error(t, err)
			assert.Nil(t, admission)
			assert.True(t, domain.IsErrorCode(err, tt.wantCode), "got %v", err)

			entries := activity.Entries()
			require.Len(t, entries, 2)
			assert.Contains(t, entries[0], "IPN received from")
			assert.Contains(t, entries[1], tt.wantEntry)
			registry.AssertExpectations(t)
		})
	}
}

func TestGate_Admit_IPRejectionCarriesNormalizedIP(t *testing.T) {
	gate := newGate(&testhelpers.MockRegistry{}, &testhelpers.ActivityRecorder{})

	_, err := gate.Admit(context.Background(), "[::ffff:198.51.100.7]:9000", []byte(`{}`), nil)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "198.51.100.7", domainErr.IP)
}

func TestGate_Admit_Accepted(t *testing.T) {
	registry := &testhelpers.MockRegistry{}
	registry.On("Resolve", mock.Anything, testhelpers.KnownPublicKey).
		Return(testhelpers.MerchantURL, nil).
		Once()
	activity := &testhelpers.ActivityRecorder{}
	gate := newGate(registry, activity)
	body := testhelpers.IPNPayload(t, map[string]any{"public_key": "  " + testhelpers.KnownPublicKey + " "})

	admission, err := gate.Admit(context.Background(), "[::ffff:127.0.0.1]:5000", body, nil)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", admission.SourceIP)
	assert.Equal(t, testhelpers.KnownPublicKey, admission.PublicKey)
	assert.Equal(t, testhelpers.MerchantURL, admission.Destination)
	assert.JSONEq(t, string(body), string(admission.Notification.Raw))
	assert.Len(t, activity.Entries(), 1)
	registry.AssertExpectations(t)
}

func TestGate_Admit_ReadErrorIsCheckedAfterAllowlist(t *testing.T) {
	readErr := errors.New("http: request body too large")

	t.Run("foreign source", func(t *testing.T) {
		activity := &testhelpers.ActivityRecorder{}
		gate := newGate(&testhelpers.MockRegistry{}, activity)

		_, err := gate.Admit(context.Background(), testhelpers.ForeignAddr, nil, readErr)

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeIPNotAllowed))
		entries := activity.Entries()
		require.Len(t, entries, 2)
		assert.Contains(t, entries[0], "unreadable body")
	})

	t.Run("allowed source", func(t *testing.T) {
		activity := &testhelpers.ActivityRecorder{}
		gate := newGate(&testhelpers.MockRegistry{}, activity)

		_, err := gate.Admit(context.Background(), testhelpers.AllowedAddr, nil, readErr)

		assert.True(t, domain.IsErrorCode(err, domain.ErrCodeInvalidPayload))
		assert.ErrorIs(t, err, readErr)
		assert.True(t, activity.Contains("body could not be read"))
	})
}
