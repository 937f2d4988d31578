// Package registry resolves merchant public keys to their callback URLs.
//
// The backing source is read on every lookup so out-of-band edits take effect
// without a restart. A source that cannot be read is treated as empty for that
// call.
package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DanielPopoola/ipn-relay/internal/application"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
	"github.com/VictoriaMetrics/metrics"
)

var (
	lookupFoundCounter    = metrics.GetOrCreateCounter(`registry_lookup_total{result="found"}`)
	lookupNotFoundCounter = metrics.GetOrCreateCounter(`registry_lookup_total{result="not_found"}`)
	lookupErrorCounter    = metrics.GetOrCreateCounter(`registry_lookup_total{result="load_failed"}`)
)

// Source is one backing store of the public key to URL mapping.
type Source interface {
	Lookup(ctx context.Context, publicKey string) (url string, found bool, err error)
	Name() string
}

type Registry struct {
	source   Source
	activity application.ActivityLog
	logger   *slog.Logger
}

func New(source Source, activity application.ActivityLog, logger *slog.Logger) *Registry {
	return &Registry{
		source:   source,
		activity: activity,
		logger:   logger.With("registry", source.Name()),
	}
}

func (r *Registry) Resolve(ctx context.Context, publicKey string) (string, error) {
	url, found, err := r.source.Lookup(ctx, publicKey)
	if err != nil {
		loadErr := domain.NewRegistryUnavailableError(err)
		lookupErrorCounter.Inc()
		r.activity.Record(fmt.Sprintf("registry load failed: %v", err))
		r.logger.ErrorContext(ctx, "destination registry could not be read",
			"code", loadErr.Code,
			"error", err,
		)
		return "", domain.NewUnknownPublicKeyError()
	}

	url = strings.TrimSpace(url)
	if !found || url == "" {
		lookupNotFoundCounter.Inc()
		return "", domain.NewUnknownPublicKeyError()
	}

	lookupFoundCounter.Inc()
	return url, nil
}
