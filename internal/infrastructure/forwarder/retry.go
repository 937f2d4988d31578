package forwarder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DanielPopoola/ipn-relay/internal/application"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
	"github.com/VictoriaMetrics/metrics"
)

// Delivery budget agreed with merchants.
const (
	MaxAttempts = 3
	RetryDelay  = 5 * time.Second
)

var (
	attemptSuccessCounter = metrics.GetOrCreateCounter(`ipn_forward_attempts_total{result="success"}`)
	attemptHTTPCounter    = metrics.GetOrCreateCounter(`ipn_forward_attempts_total{result="http_error"}`)
	attemptNetCounter     = metrics.GetOrCreateCounter(`ipn_forward_attempts_total{result="transport_error"}`)

	attemptDurationHistogram = metrics.GetOrCreateHistogram(`ipn_forward_duration_milliseconds`)
)

type RetryForwarder struct {
	inner    application.ForwardClient
	activity application.ActivityLog
	logger   *slog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

func NewRetryForwarder(inner application.ForwardClient, activity application.ActivityLog, logger *slog.Logger) *RetryForwarder {
	return &RetryForwarder{
		inner:    inner,
		activity: activity,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Forward tries up to MaxAttempts times with a fixed RetryDelay between attempts and
// returns the parsed body of the first 2xx response.
func (f *RetryForwarder) Forward(ctx context.Context, url string, payload []byte) (any, error) {
	var lastErr error
	attempt := 0

	for attempt < MaxAttempts {
		attempt++
		f.activity.Record(fmt.Sprintf("forwarding to %s (attempt %d/%d)", url, attempt, MaxAttempts))

		startTime := time.Now()
		resp, err := f.inner.Post(ctx, url, payload)
		attemptDurationHistogram.Update(float64(time.Since(startTime).Milliseconds()))

		if err == nil {
			attemptSuccessCounter.Inc()
			f.activity.Record(fmt.Sprintf("response from %s: HTTP %d %s", url, resp.StatusCode, bodyText(resp.Body)))
			return resp.Body, nil
		}

		lastErr = err
		f.recordFailure(ctx, url, attempt, err)

		if !application.IsRetryable(err) {
			break
		}

		if attempt < MaxAttempts {
			f.activity.Record(fmt.Sprintf("retrying %s in %dms", url, RetryDelay.Milliseconds()))
			if sleepErr := f.sleep(ctx, RetryDelay); sleepErr != nil {
				lastErr = errors.Join(lastErr, sleepErr)
				break
			}
		}
	}

	return nil, domain.NewForwardFailedError(attempt, lastErr)
}

func (f *RetryForwarder) recordFailure(ctx context.Context, url string, attempt int, err error) {
	fwdErr, ok := application.IsForwardError(err)
	if ok {
		fwdErr.Attempt = attempt
	}

	if ok && fwdErr.StatusCode != 0 {
		attemptHTTPCounter.Inc()
		f.activity.Record(fmt.Sprintf("response from %s: HTTP %d %s", url, fwdErr.StatusCode, fwdErr.Body))
	} else {
		attemptNetCounter.Inc()
	}

	f.activity.Record(fmt.Sprintf("attempt %d failed: %v", attempt, err))
	f.logger.WarnContext(ctx, "forward attempt failed",
		"url", url,
		"attempt", attempt,
		"max_attempts", MaxAttempts,
		"error", err,
	)
}

func bodyText(body any) string {
	switch b := body.(type) {
	case json.RawMessage:
		return string(b)
	case string:
		return b
	default:
		return fmt.Sprint(b)
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
