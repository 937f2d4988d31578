package registry_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/DanielPopoola/ipn-relay/internal/domain"
	"github.com/DanielPopoola/ipn-relay/internal/infrastructure/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingLog struct {
	mu      sync.Mutex
	entries []string
}

func (l *recordingLog) Record(message string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, message)
}

type stubSource struct {
	url   string
	found bool
	err   error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Lookup(context.Context, string) (string, bool, error) {
	return s.url, s.found, s.err
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeMap(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webhook-map.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRegistry_Resolve(t *testing.T) {
	tests := []struct {
		name      string
		source    stubSource
		wantURL   string
		wantErr   bool
		wantEntry bool
	}{
		{
			name:    "found",
			source:  stubSource{url: "https://shop.example/ipn", found: true},
			wantURL: "https://shop.example/ipn",
		},
		{
			name:    "not found",
			source:  stubSource{},
			wantErr: true,
		},
		{
			name:    "empty url counts as absent",
			source:  stubSource{url: "  ", found: true},
			wantErr: true,
		},
		{
			name:      "load failure reads as empty registry",
			source:    stubSource{err: errors.New("disk on fire")},
			wantErr:   true,
			wantEntry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			activity := &recordingLog{}
			r := registry.New(tt.source, activity, testLogger())

			url, err := r.Resolve(context.Background(), "pk_live_1")

			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, domain.IsErrorCode(err, domain.ErrCodeUnknownPublicKey))
				assert.ErrorIs(t, err, domain.ErrDestinationNotFound)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantURL, url)
			}

			if tt.wantEntry {
				require.Len(t, activity.entries, 1)
				assert.Contains(t, activity.entries[0], "registry load failed")
				assert.Contains(t, activity.entries[0], "disk on fire")
			} else {
				assert.Empty(t, activity.entries)
			}
		})
	}
}

func TestFileSource_Lookup(t *testing.T) {
	path := writeMap(t, `{"pk_a": "https://a.example/ipn", "pk_b": 42, "pk_c": null}`)
	src := registry.NewFileSource(path)
	ctx := context.Background()

	url, found, err := src.Lookup(ctx, "pk_a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "https://a.example/ipn", url)

	_, found, err = src.Lookup(ctx, "pk_missing")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = src.Lookup(ctx, "pk_c")
	require.NoError(t, err)
	assert.False(t, found)

	_, _, err = src.Lookup(ctx, "pk_b")
	require.Error(t, err)
}

func TestFileSource_LoadFailures(t *testing.T) {
	ctx := context.Background()

	_, _, err := registry.NewFileSource(filepath.Join(t.TempDir(), "absent.json")).Lookup(ctx, "pk_a")
	require.Error(t, err)

	_, _, err = registry.NewFileSource(writeMap(t, `{not json`)).Lookup(ctx, "pk_a")
	require.Error(t, err)

	_, _, err = registry.NewFileSource(writeMap(t, `["pk_a"]`)).Lookup(ctx, "pk_a")
	require.Error(t, err)
}

func TestFileSource_PicksUpEditsWithoutRestart(t *testing.T) {
	path := writeMap(t, `{}`)
	r := registry.New(registry.NewFileSource(path), &recordingLog{}, testLogger())
	ctx := context.Background()

	_, err := r.Resolve(ctx, "pk_new")
	require.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"pk_new": "https://new.example/hook"}`), 0o600))

	url, err := r.Resolve(ctx, "pk_new")
	require.NoError(t, err)
	assert.Equal(t, "https://new.example/hook", url)
}
