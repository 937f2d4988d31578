package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DanielPopoola/ipn-relay/internal/application"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
)

// Admission is an inbound notification that passed every gate check.
type Admission struct {
	SourceIP     string
	PublicKey    string
	Destination  string
	Notification *domain.Notification
}

// Gate decides whether an inbound IPN may be forwarded. Checks run in a fixed order
// and the first failure is returned.
type Gate struct {
	allowlist *domain.Allowlist
	registry  application.Registry
	activity  application.ActivityLog
	logger    *slog.Logger
}

func NewGate(allowlist *domain.Allowlist, registry application.Registry, activity application.ActivityLog, logger *slog.Logger) *Gate {
	return &Gate{
		allowlist: allowlist,
		registry:  registry,
		activity:  activity,
		logger:    logger,
	}
}

// Admit runs the checks for one request. readErr is the error met while reading the
// body, if any; it is reported as an invalid payload, but only once the source is allowed.
func (g *Gate) Admit(ctx context.Context, remoteAddr string, body []byte, readErr error) (*Admission, error) {
	ip := domain.NormalizeIP(remoteAddr)
	if readErr != nil {
		g.activity.Record(fmt.Sprintf("IPN received from %s: unreadable body (%v)", ip, readErr))
	} else {
		g.activity.Record(fmt.Sprintf("IPN received from %s: %s", ip, body))
	}

	if !g.allowlist.Allows(ip) {
		return nil, g.reject(ctx, domain.NewIPNotAllowedError(ip), fmt.Sprintf("rejected IPN from %s: IP not allowed", ip))
	}

	if readErr != nil {
		return nil, g.reject(ctx, domain.NewInvalidPayloadError(readErr),
			fmt.Sprintf("rejected IPN from %s: body could not be read: %v", ip, readErr))
	}

	notification, err := domain.ParseNotification(body)
	if err != nil {
		return nil, g.reject(ctx, err, fmt.Sprintf("rejected IPN from %s: payload is not a JSON object: %s", ip, body))
	}

	publicKey := notification.PublicKey()
	if publicKey == "" {
		return nil, g.reject(ctx, domain.NewMissingPublicKeyError(),
			fmt.Sprintf("rejected IPN from %s: public_key missing in payload: %s", ip, notification.Raw))
	}

	destination, err := g.registry.Resolve(ctx, publicKey)
	if err != nil {
		return nil, g.reject(ctx, err, fmt.Sprintf("rejected IPN from %s: no destination for public_key %s", ip, publicKey))
	}

	return &Admission{
		SourceIP:     ip,
		PublicKey:    publicKey,
		Destination:  destination,
		Notification: notification,
	}, nil
}

func (g *Gate) reject(ctx context.Context, err error, entry string) error {
	g.activity.Record(entry)
	g.logger.WarnContext(ctx, "IPN rejected",
		"code", application.ToErrorCode(err),
		"category", application.CategorizeError(err),
		"error", err,
	)
	return err
}
