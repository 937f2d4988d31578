package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/ipn-relay/internal/application"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
	"github.com/VictoriaMetrics/metrics"
	"github.com/google/uuid"
)

var (
	requestsForwardedCounter = metrics.GetOrCreateCounter(`ipn_requests_total{result="forwarded"}`)
	requestsRejectedCounter  = metrics.GetOrCreateCounter(`ipn_requests_total{result="rejected"}`)
	requestsFailedCounter    = metrics.GetOrCreateCounter(`ipn_requests_total{result="forward_failed"}`)
)

type RelayService struct {
	lifetime  context.Context
	gate      *Gate
	forwarder application.Forwarder
	activity  application.ActivityLog
	logger    *slog.Logger
}

// NewRelayService builds the relay. Cancelling lifetime aborts in-flight deliveries,
// which is how process shutdown reaches the retry loop.
func NewRelayService(
	lifetime context.Context,
	gate *Gate,
	forwarder application.Forwarder,
	activity application.ActivityLog,
	logger *slog.Logger,
) *RelayService {
	return &RelayService{
		lifetime:  lifetime,
		gate:      gate,
		forwarder: forwarder,
		activity:  activity,
		logger:    logger,
	}
}

// Relay admits one inbound notification and forwards it. readErr carries a failed body
// read through to the gate. The returned outcome is always non-nil; err is set for
// every status other than FORWARDED.
func (s *RelayService) Relay(ctx context.Context, remoteAddr string, body []byte, readErr error) (*domain.Outcome, error) {
	deliveryID := uuid.New().String()
	logger := s.logger.With("delivery_id", deliveryID)

	admission, err := s.gate.Admit(ctx, remoteAddr, body, readErr)
	if err != nil {
		requestsRejectedCounter.Inc()
		return &domain.Outcome{
			DeliveryID: deliveryID,
			Status:     domain.OutcomeRejected,
			Err:        err,
		}, err
	}

	logger = logger.With("public_key", admission.PublicKey, "url", admission.Destination)
	logger.InfoContext(ctx, "forwarding IPN")

	// A dropped inbound connection must not abort delivery.
	fwdCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()
	stop := context.AfterFunc(s.lifetime, cancel)
	defer stop()

	response, err := s.forwarder.Forward(fwdCtx, admission.Destination, admission.Notification.Raw)
	if err != nil {
		requestsFailedCounter.Inc()
		s.activity.Record(fmt.Sprintf("webhook forwarding failed for %s: %v", admission.Destination, err))
		logger.ErrorContext(ctx, "IPN could not be delivered", "error", err)
		return &domain.Outcome{
			DeliveryID:  deliveryID,
			Status:      domain.OutcomeForwardFailed,
			Destination: admission.Destination,
			Err:         err,
		}, err
	}

	requestsForwardedCounter.Inc()
	s.activity.Record(fmt.Sprintf("webhook processed on %s", admission.Destination))
	logger.InfoContext(ctx, "IPN delivered")

	return &domain.Outcome{
		DeliveryID:  deliveryID,
		Status:      domain.OutcomeForwarded,
		Destination: admission.Destination,
		Response:    response,
	}, nil
}
