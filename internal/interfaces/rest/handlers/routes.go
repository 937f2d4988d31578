package handlers

import (
	"net/http"
	"time"

	"github.com/DanielPopoola/ipn-relay/internal/interfaces/rest/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

type RouterOptions struct {
	HandlerTimeout time.Duration
	Metrics        http.Handler
	Docs           http.Handler
}

// NewRouter wires every endpoint. The IPN route is outside the handler timeout because
// a full delivery can take several retry delays.
func (h *Handlers) NewRouter(opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logging(h.logger))
	r.Use(middleware.Recovery(h.logger))
	r.Use(chimiddleware.Heartbeat("/ping"))

	r.Post("/payment-ipn", h.ReceiveIPN)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(opts.HandlerTimeout))

		r.Get("/health", h.Health)
		r.Get("/logs", h.GetLogs)
		r.Post("/logs/clear", h.ClearLogs)

		if opts.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", opts.Metrics)
		}
		if opts.Docs != nil {
			r.Method(http.MethodGet, "/openapi.json", opts.Docs)
		}
	})

	return r
}
