package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestClient wraps HTTP calls to the relay
type TestClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTestClient(baseURL string) *TestClient {
	return &TestClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PostIPN sends body to /payment-ipn and decodes the JSON reply.
func (c *TestClient) PostIPN(t *testing.T, body []byte) (int, map[string]any) {
	t.Helper()

	resp, err := c.httpClient.Post(c.baseURL+"/payment-ipn", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func (c *TestClient) Logs(t *testing.T) string {
	t.Helper()

	resp, err := c.httpClient.Get(c.baseURL + "/logs")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(data)
}

func (c *TestClient) ClearLogs(t *testing.T) {
	t.Helper()

	resp, err := c.httpClient.Post(c.baseURL+"/logs/clear", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

// Merchant is a destination endpoint that answers with scripted statuses in order
// and keeps every body it received.
type Merchant struct {
	Server *httptest.Server

	mu       sync.Mutex
	statuses []int
	reply    string
	received [][]byte
}

// NewMerchant answers with statuses in turn, then 200 for every later call.
func NewMerchant(reply string, statuses ...int) *Merchant {
	m := &Merchant{statuses: statuses, reply: reply}
	m.Server = httptest.NewServer(http.HandlerFunc(m.serve))
	return m
}

func (m *Merchant) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	m.mu.Lock()
	m.received = append(m.received, body)
	status := http.StatusOK
	if len(m.statuses) > 0 {
		status, m.statuses = m.statuses[0], m.statuses[1:]
	}
	m.mu.Unlock()

	w.WriteHeader(status)
	io.WriteString(w, m.reply)
}

func (m *Merchant) Received() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.received...)
}

func (m *Merchant) Close() {
	m.Server.Close()
}
