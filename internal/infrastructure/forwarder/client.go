// Package forwarder delivers accepted notifications to merchant endpoints.
package forwarder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/DanielPopoola/ipn-relay/internal/application"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
)

const maxResponseBytes = 1 << 20

var ErrResponseTooLarge = errors.New("response body exceeds 1 MiB")

type HTTPForwardClient struct {
	httpClient *http.Client
}

// NewHTTPForwardClient bounds every attempt by attemptTimeout, independent of the retry delay.
func NewHTTPForwardClient(attemptTimeout time.Duration) *HTTPForwardClient {
	return &HTTPForwardClient{
		httpClient: &http.Client{
			Timeout: attemptTimeout,
		},
	}
}

// Post performs a single delivery. Any non-2xx status is returned as a *application.ForwardError
// carrying the status and body text.
func (c *HTTPForwardClient) Post(ctx context.Context, url string, payload []byte) (*application.ForwardResponse, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, &application.ForwardError{URL: url, Err: fmt.Errorf("error creating request: %w", err)}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &application.ForwardError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return nil, &application.ForwardError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("error reading response body: %w", err),
		}
	}
	if len(body) > maxResponseBytes {
		return nil, &application.ForwardError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(body[:512]),
			Err:        ErrResponseTooLarge,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &application.ForwardError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Body:       string(body),
		}
	}

	return &application.ForwardResponse{
		StatusCode: resp.StatusCode,
		Body:       domain.ParseResponseBody(body),
	}, nil
}
