package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

type Config struct {
	Server      ServerConfig      `koanf:"server"`
	Registry    RegistryConfig    `koanf:"registry"`
	Database    DatabaseConfig    `koanf:"database"`
	Forwarder   ForwarderConfig   `koanf:"forwarder"`
	ActivityLog ActivityLogConfig `koanf:"activity_log"`
	Logger      LoggerConfig      `koanf:"logger"`
	Metrics     MetricsConfig     `koanf:"metrics"`
}

type ServerConfig struct {
	Port           string        `koanf:"port" validate:"required"`
	ReadTimeout    time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout   time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout    time.Duration `koanf:"idle_timeout" validate:"required"`
	HandlerTimeout time.Duration `koanf:"handler_timeout" validate:"required"`
}

const (
	RegistryDriverFile     = "file"
	RegistryDriverPostgres = "postgres"
	RegistryDriverRedis    = "redis"
)

type RegistryConfig struct {
	Driver    string `koanf:"driver" validate:"required,oneof=file postgres redis"`
	FilePath  string `koanf:"file_path"`
	RedisAddr string `koanf:"redis_addr"`
	RedisKey  string `koanf:"redis_key"`
}

// DatabaseConfig is only read when the registry driver is postgres.
type DatabaseConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type ForwarderConfig struct {
	AttemptTimeout time.Duration `koanf:"attempt_timeout" validate:"required"`
}

type ActivityLogConfig struct {
	Path         string `koanf:"path" validate:"required"`
	KafkaBrokers string `koanf:"kafka_brokers"`
	KafkaTopic   string `koanf:"kafka_topic"`
}

type LoggerConfig struct {
	Level   string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	LokiURL string `koanf:"loki_url"`
}

type MetricsConfig struct {
	PushURL      string        `koanf:"push_url"`
	PushInterval time.Duration `koanf:"push_interval"`
	ExtraLabels  string        `koanf:"extra_labels"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":            "3000",
		"server.read_timeout":    "15s",
		"server.write_timeout":   "90s",
		"server.idle_timeout":    "60s",
		"server.handler_timeout": "15s",

		"registry.driver":     RegistryDriverFile,
		"registry.file_path":  "./webhook-map.json",
		"registry.redis_addr": "localhost:6379",
		"registry.redis_key":  "ipn:destinations",

		"database.host":               "localhost",
		"database.port":               5432,
		"database.ssl_mode":           "disable",
		"database.max_open_conns":     10,
		"database.max_idle_conns":     2,
		"database.conn_max_lifetime":  "1h",
		"database.conn_max_idle_time": "30m",

		"forwarder.attempt_timeout": "10s",

		"activity_log.path":        "./webhook.log",
		"activity_log.kafka_topic": "ipn-activity",

		"logger.level": "info",

		"metrics.push_interval": "10s",
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	// PORT is honoured for compatibility with the usual PaaS convention.
	if port := os.Getenv("PORT"); port != "" {
		if err := k.Load(confmap.Provider(map[string]interface{}{"server.port": port}, "."), nil); err != nil {
			logger.Error("failed to load PORT", "error", err)
			return nil, err
		}
	}

	err := k.Load(env.Provider("RELAY_", ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, "RELAY_")),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// KafkaBrokerList splits the comma separated broker setting.
func (c ActivityLogConfig) KafkaBrokerList() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
