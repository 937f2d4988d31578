package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DanielPopoola/ipn-relay/internal/infrastructure/metrics"
	vm "github.com/VictoriaMetrics/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandler_ExposesRegisteredCounters(t *testing.T) {
	vm.GetOrCreateCounter(`metrics_handler_test_total{result="ok"}`).Inc()

	rec := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `metrics_handler_test_total{result="ok"} 1`)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}
