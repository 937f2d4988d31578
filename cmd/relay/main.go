package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DanielPopoola/ipn-relay/internal/api"
	"github.com/DanielPopoola/ipn-relay/internal/application/services"
	"github.com/DanielPopoola/ipn-relay/internal/config"
	"github.com/DanielPopoola/ipn-relay/internal/domain"
	"github.com/DanielPopoola/ipn-relay/internal/infrastructure/activitylog"
	"github.com/DanielPopoola/ipn-relay/internal/infrastructure/forwarder"
	"github.com/DanielPopoola/ipn-relay/internal/infrastructure/metrics"
	"github.com/DanielPopoola/ipn-relay/internal/infrastructure/persistence"
	"github.com/DanielPopoola/ipn-relay/internal/infrastructure/registry"
	"github.com/DanielPopoola/ipn-relay/internal/interfaces/rest/handlers"
	"github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := cfg.Logger.NewLogger()
	slog.SetDefault(logger)

	logger.Info("starting ipn relay",
		"port", cfg.Server.Port,
		"registry", cfg.Registry.Driver,
		"log_level", cfg.Logger.Level,
	)

	metrics.Setup(cfg.Metrics, logger)

	var mirrors []activitylog.Mirror
	if brokers := cfg.ActivityLog.KafkaBrokerList(); len(brokers) > 0 {
		kafkaMirror := activitylog.NewKafkaMirror(
			activitylog.NewKafkaWriter(brokers, cfg.ActivityLog.KafkaTopic),
			logger,
		)
		defer kafkaMirror.Close()
		mirrors = append(mirrors, kafkaMirror)
		logger.Info("mirroring activity log to kafka", "brokers", brokers, "topic", cfg.ActivityLog.KafkaTopic)
	}

	activity, err := activitylog.Open(cfg.ActivityLog.Path, logger, mirrors...)
	if err != nil {
		logger.Error("failed to open activity log", "error", err)
		os.Exit(1)
	}
	defer activity.Close()

	ctx := context.Background()
	source, closeSource, err := newRegistrySource(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialise destination registry", "driver", cfg.Registry.Driver, "error", err)
		os.Exit(1)
	}
	defer closeSource()

	destinations := registry.New(source, activity, logger)

	forwardClient := forwarder.NewHTTPForwardClient(cfg.Forwarder.AttemptTimeout)
	retryForwarder := forwarder.NewRetryForwarder(forwardClient, activity, logger)

	relayCtx, cancelRelays := context.WithCancel(context.Background())
	defer cancelRelays()

	gate := services.NewGate(domain.NewAllowlist(domain.DefaultAllowedIPs), destinations, activity, logger)
	relayService := services.NewRelayService(relayCtx, gate, retryForwarder, activity, logger)

	doc, err := api.LoadSpec(ctx)
	if err != nil {
		logger.Error("failed to load openapi document", "error", err)
		os.Exit(1)
	}
	docsHandler, err := api.DocsHandler(doc)
	if err != nil {
		logger.Error("failed to build docs handler", "error", err)
		os.Exit(1)
	}

	h := handlers.NewHandlers(relayService, activity, version, logger)
	router := h.NewRouter(handlers.RouterOptions{
		HandlerTimeout: cfg.Server.HandlerTimeout,
		Metrics:        metrics.Handler(),
		Docs:           docsHandler,
	})

	server := &http.Server{
		Addr:         "0.0.0.0:" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("server starting", "addr", server.Addr)
		activity.Record("IPN relay listening on port " + cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// In-flight relays sit in a retry delay for up to several seconds; stop them first.
	cancelRelays()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

// newRegistrySource builds the configured destination source and its cleanup.
func newRegistrySource(ctx context.Context, cfg *config.Config, logger *slog.Logger) (registry.Source, func(), error) {
	switch cfg.Registry.Driver {
	case config.RegistryDriverPostgres:
		db, err := persistence.Connect(ctx, &cfg.Database, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return registry.NewPostgresSource(db.Pool), db.Close, nil

	case config.RegistryDriverRedis:
		client := redis.NewClient(&redis.Options{Addr: cfg.Registry.RedisAddr})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("redis not reachable at startup, lookups will report unknown keys until it is",
				"addr", cfg.Registry.RedisAddr,
				"error", err,
			)
		}
		return registry.NewRedisSource(client, cfg.Registry.RedisKey), func() { client.Close() }, nil

	default:
		return registry.NewFileSource(cfg.Registry.FilePath), func() {}, nil
	}
}
