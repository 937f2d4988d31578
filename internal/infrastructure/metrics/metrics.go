// Package metrics configures process-wide metric export.
package metrics

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/DanielPopoola/ipn-relay/internal/config"
	"github.com/VictoriaMetrics/metrics"
)

// Setup starts pushing the default metric set when a push URL is configured.
func Setup(cfg config.MetricsConfig, logger *slog.Logger) {
	if cfg.PushURL == "" {
		return
	}

	err := metrics.InitPush(cfg.PushURL, cfg.PushInterval, cfg.ExtraLabels, true)
	if err != nil {
		logger.Error("failed to initialise metrics push", "url", cfg.PushURL, "error", err)
		return
	}

	logger.Info("metrics push enabled", "url", cfg.PushURL, "interval", cfg.PushInterval)
}

// Handler exposes every registered metric in Prometheus text format.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		WriteTo(w)
	})
}

func WriteTo(w io.Writer) {
	metrics.WritePrometheus(w, true)
}
