package testhelpers

import (
	"context"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
)

type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) Resolve(ctx context.Context, publicKey string) (string, error) {
	args := m.Called(ctx, publicKey)
	return args.String(0), args.Error(1)
}

type MockForwarder struct {
	mock.Mock
}

func (m *MockForwarder) Forward(ctx context.Context, url string, payload []byte) (any, error) {
	args := m.Called(ctx, url, payload)
	return args.Get(0), args.Error(1)
}

// ActivityRecorder keeps activity entries in memory.
type ActivityRecorder struct {
	mu      sync.Mutex
	entries []string
}

func (r *ActivityRecorder) Record(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, message)
}

func (r *ActivityRecorder) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

func (r *ActivityRecorder) Contains(substr string) bool {
	for _, e := range r.Entries() {
		if strings.Contains(e, substr) {
			return true
		}
	}
	return false
}
