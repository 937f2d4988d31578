package config

import (
	"log/slog"
	"os"
	"strings"

	"github.com/grafana/loki-client-go/loki"
	slogloki "github.com/samber/slog-loki/v3"
)

func (c LoggerConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger builds the process logger: JSON to stdout, or Loki when a push URL is set.
func (c LoggerConfig) NewLogger() *slog.Logger {
	if c.LokiURL == "" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.SlogLevel()}))
	}

	lokiConfig, err := loki.NewDefaultConfig(c.LokiURL)
	if err != nil {
		fallback := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.SlogLevel()}))
		fallback.Error("invalid loki url, logging to stdout", "error", err)
		return fallback
	}

	client, err := loki.New(lokiConfig)
	if err != nil {
		fallback := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: c.SlogLevel()}))
		fallback.Error("failed to create loki client, logging to stdout", "error", err)
		return fallback
	}

	return slog.New(slogloki.Option{
		Level:  c.SlogLevel(),
		Client: client,
	}.NewLokiHandler()).With("service", "ipn-relay")
}
