package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverMemory   = "memory"

	SinkLog      = "log"
	SinkKafka    = "kafka"
	SinkRabbitMQ = "rabbitmq"
	SinkNone     = "none"
)

type Config struct {
	HTTPAddr string
	GRPCAddr string

	StoreDriver string
	MySQLDSN    string
	DatabaseURL string
	SQLitePath  string
	RedisAddr   string

	IdempotencyEnabled bool
	IdempotencyTTL     time.Duration
	LowStockThreshold  int

	EventSink        string
	KafkaBrokers     []string
	KafkaTopic       string
	RabbitMQURL      string
	RabbitMQExchange string
	WorkerCount      int
	EventQueueSize   int

	OTLPEndpoint    string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
	GinMode         string
}

// Load reads the process environment, preloading .env when present.
// Variables already set win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup. Every malformed value is reported,
// not just the first.
func FromEnv(lookup func(string) (string, bool)) (*Config, error) {
	r := reader{lookup: lookup}

	cfg := &Config{
		HTTPAddr:           r.httpAddr(":3000"),
		GRPCAddr:           r.str("GRPC_ADDR", ":50051"),
		StoreDriver:        r.oneOf("STORE_DRIVER", DriverSQLite, DriverMySQL, DriverPostgres, DriverSQLite, DriverRedis, DriverMemory),
		MySQLDSN:           r.str("MYSQL_DSN", ""),
		DatabaseURL:        r.str("DATABASE_URL", ""),
		SQLitePath:         r.str("SQLITE_PATH", "shirts.db"),
		RedisAddr:          r.str("REDIS_ADDR", "localhost:6379"),
		IdempotencyEnabled: r.boolean("IDEMPOTENCY_ENABLED", false),
		IdempotencyTTL:     r.duration("IDEMPOTENCY_TTL", 24*time.Hour),
		LowStockThreshold:  r.integer("LOW_STOCK_THRESHOLD", 5, 0),
		EventSink:          r.oneOf("EVENT_SINK", SinkLog, SinkLog, SinkKafka, SinkRabbitMQ, SinkNone),
		KafkaBrokers:       r.list("KAFKA_BROKERS"),
		KafkaTopic:         r.str("KAFKA_TOPIC", "shirt-stock-events"),
		RabbitMQURL:        r.str("RABBITMQ_URL", ""),
		RabbitMQExchange:   r.str("RABBITMQ_EXCHANGE", "shirt_inventory"),
		WorkerCount:        r.integer("WORKER_COUNT", 4, 1),
		EventQueueSize:     r.integer("EVENT_QUEUE_SIZE", 1024, 0),
		OTLPEndpoint:       r.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:           r.oneOf("LOG_LEVEL", "info", "debug", "info", "warn", "error"),
		LogFormat:          r.oneOf("LOG_FORMAT", "text", "text", "json"),
		ShutdownTimeout:    r.duration("SHUTDOWN_TIMEOUT", 30*time.Second),
		GinMode:            r.str("GIN_MODE", ""),
	}

	r.requireFor("MYSQL_DSN", cfg.MySQLDSN, cfg.StoreDriver == DriverMySQL)
	r.requireFor("DATABASE_URL", cfg.DatabaseURL, cfg.StoreDriver == DriverPostgres)
	r.requireFor("KAFKA_BROKERS", strings.Join(cfg.KafkaBrokers, ","), cfg.EventSink == SinkKafka)
	r.requireFor("RABBITMQ_URL", cfg.RabbitMQURL, cfg.EventSink == SinkRabbitMQ)

	if err := errors.Join(r.errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

type reader struct {
	lookup func(string) (string, bool)
	errs   []error
}

func (r *reader) get(key string) (string, bool) {
	v, ok := r.lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func (r *reader) fail(key, value, reason string) {
	r.errs = append(r.errs, fmt.Errorf("invalid %s=%q: %s", key, value, reason))
}

func (r *reader) str(key, def string) string {
	if v, ok := r.get(key); ok {
		return v
	}
	return def
}

// httpAddr prefers HTTP_ADDR and falls back to a bare PORT, as platform
// hosts usually inject only the latter.
func (r *reader) httpAddr(def string) string {
	if v, ok := r.get("HTTP_ADDR"); ok {
		return v
	}
	v, ok := r.get("PORT")
	if !ok {
		return def
	}
	if n, err := strconv.Atoi(v); err != nil || n < 1 || n > 65535 {
		r.fail("PORT", v, "not a TCP port")
		return def
	}
	return ":" + v
}

func (r *reader) integer(key string, def, min int) int {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, "not an integer")
		return def
	}
	if n < min {
		r.fail(key, v, fmt.Sprintf("must be at least %d", min))
		return def
	}
	return n
}

func (r *reader) boolean(key string, def bool) bool {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, "not a boolean")
		return def
	}
	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, "not a duration")
		return def
	}
	if d <= 0 {
		r.fail(key, v, "must be positive")
		return def
	}
	return d
}

func (r *reader) oneOf(key, def string, allowed ...string) string {
	v, ok := r.get(key)
	if !ok {
		return def
	}
	v = strings.ToLower(v)
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	r.fail(key, v, "must be one of "+strings.Join(allowed, "|"))
	return def
}

func (r *reader) list(key string) []string {
	v, ok := r.get(key)
	if !ok {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r *reader) requireFor(key, value string, needed bool) {
	if needed && value == "" {
		r.errs = append(r.errs, fmt.Errorf("missing %s", key))
	}
}
