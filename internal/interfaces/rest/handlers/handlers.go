package handlers

import (
	"context"
	"log/slog"

	"github.com/DanielPopoola/ipn-relay/internal/application"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
)

// Relayer is the relay operation the IPN endpoint drives.
type Relayer interface {
	Relay(ctx context.Context, remoteAddr string, body []byte, readErr error) (*domain.Outcome, error)
}

type Handlers struct {
	relay    Relayer
	activity application.ActivityStore
	version  string
	logger   *slog.Logger
}

func NewHandlers(relay Relayer, activity application.ActivityStore, version string, logger *slog.Logger) *Handlers {
	return &Handlers{
		relay:    relay,
		activity: activity,
		version:  version,
		logger:   logger,
	}
}
