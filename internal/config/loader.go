package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "tasksync.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// YAML file is optional; missing file is not an error.
func Load() (*Config, error) {
	path := DefaultConfigFile
	if p := os.Getenv("TASKSYNC_CONFIG"); p != "" {
		path = p
	}
	return LoadFrom(path)
}

// LoadFrom returns a Config loaded from the given YAML path using the
// hierarchy: defaults < YAML < ENV. The YAML file is optional.
func LoadFrom(yamlPath string) (*Config, error) {
	cfg := Defaults()

	if err := loadYAML(&cfg, yamlPath); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}

	return &cfg, nil
}

// loadYAML reads the YAML file and unmarshals it over cfg.
// Returns nil if the file does not exist.
func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from operator config
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays environment variables onto cfg.
// Only non-empty env values override the current config.
func loadEnv(cfg *Config) {
	setString(&cfg.Server.Port, "TASKSYNC_PORT")
	setString(&cfg.Server.CORSOrigin, "TASKSYNC_CORS_ORIGIN")
	setInt64(&cfg.Server.BodyLimit, "TASKSYNC_BODY_LIMIT")

	setString(&cfg.Postgres.DSN, "DATABASE_URL")
	setInt32(&cfg.Postgres.MaxConns, "TASKSYNC_PG_MAX_CONNS")
	setInt32(&cfg.Postgres.MinConns, "TASKSYNC_PG_MIN_CONNS")
	setDuration(&cfg.Postgres.MaxConnLifetime, "TASKSYNC_PG_MAX_CONN_LIFETIME")
	setDuration(&cfg.Postgres.MaxConnIdleTime, "TASKSYNC_PG_MAX_CONN_IDLE_TIME")
	setDuration(&cfg.Postgres.HealthCheck, "TASKSYNC_PG_HEALTH_CHECK")

	setString(&cfg.NATS.URL, "NATS_URL")
	setString(&cfg.NATS.Stream, "TASKSYNC_NATS_STREAM")

	setInt(&cfg.WebSocket.SendBuffer, "TASKSYNC_WS_SEND_BUFFER")
	setDuration(&cfg.WebSocket.WriteTimeout, "TASKSYNC_WS_WRITE_TIMEOUT")
	setDuration(&cfg.WebSocket.PingInterval, "TASKSYNC_WS_PING_INTERVAL")
	setList(&cfg.WebSocket.OriginPatterns, "TASKSYNC_WS_ORIGINS")
	setInt64(&cfg.WebSocket.ReadLimit, "TASKSYNC_WS_READ_LIMIT")

	setInt64(&cfg.Cache.MaxSizeMB, "TASKSYNC_CACHE_SIZE_MB")
	setDuration(&cfg.Cache.TTL, "TASKSYNC_CACHE_TTL")

	setInt(&cfg.Auth.BcryptCost, "TASKSYNC_BCRYPT_COST")

	setString(&cfg.Logging.Level, "TASKSYNC_LOG_LEVEL")
	setString(&cfg.Logging.Service, "TASKSYNC_LOG_SERVICE")
	setBool(&cfg.Logging.Async, "TASKSYNC_LOG_ASYNC")

	setInt(&cfg.Breaker.MaxFailures, "TASKSYNC_BREAKER_MAX_FAILURES")
	setDuration(&cfg.Breaker.Timeout, "TASKSYNC_BREAKER_TIMEOUT")

	// OpenTelemetry
	setBool(&cfg.OTEL.Enabled, "TASKSYNC_OTEL_ENABLED")
	setString(&cfg.OTEL.Endpoint, "OTEL_EXPORTER_OTLP_ENDPOINT")
	setBool(&cfg.OTEL.Insecure, "TASKSYNC_OTEL_INSECURE")
	setString(&cfg.OTEL.ServiceName, "OTEL_SERVICE_NAME")
	setFloat64(&cfg.OTEL.SampleRate, "TASKSYNC_OTEL_SAMPLE_RATE")
}

// validate checks that required fields are set.
func validate(cfg *Config) error {
	if cfg.Server.Port == "" {
		return errors.New("server.port is required")
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if cfg.Postgres.MaxConns < 1 {
		return errors.New("postgres.max_conns must be >= 1")
	}
	if cfg.NATS.URL != "" && cfg.NATS.Stream == "" {
		return errors.New("nats.stream is required when nats.url is set")
	}
	if cfg.WebSocket.SendBuffer < 1 {
		return errors.New("websocket.send_buffer must be >= 1")
	}
	if cfg.WebSocket.WriteTimeout <= 0 {
		return errors.New("websocket.write_timeout must be > 0")
	}
	if cfg.WebSocket.PingInterval < 0 {
		return errors.New("websocket.ping_interval must be >= 0")
	}
	if cfg.Auth.BcryptCost < 4 || cfg.Auth.BcryptCost > 31 {
		return errors.New("auth.bcrypt_cost must be between 4 and 31")
	}
	if cfg.Breaker.MaxFailures < 1 {
		return errors.New("breaker.max_failures must be >= 1")
	}
	if cfg.OTEL.SampleRate < 0 || cfg.OTEL.SampleRate > 1 {
		return errors.New("otel.sample_rate must be between 0 and 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setList(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		var out []string
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
		*dst = out
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setInt32(dst *int32, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 32); err == nil {
			*dst = int32(n)
		}
	}
}

func setInt64(dst *int64, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
