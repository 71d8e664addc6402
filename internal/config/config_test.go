package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envOf(nil))
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTPAddr)
	assert.Equal(t, ":50051", cfg.GRPCAddr)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "shirts.db", cfg.SQLitePath)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.False(t, cfg.IdempotencyEnabled)
	assert.Equal(t, 24*time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 5, cfg.LowStockThreshold)
	assert.Equal(t, SinkLog, cfg.EventSink)
	assert.Equal(t, "shirt-stock-events", cfg.KafkaTopic)
	assert.Equal(t, "shirt_inventory", cfg.RabbitMQExchange)
	assert.Equal(t, 4, cfg.WorkerCount)
	assert.Equal(t, 1024, cfg.EventQueueSize)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{
		"STORE_DRIVER":        "Redis",
		"IDEMPOTENCY_ENABLED": "true",
		"IDEMPOTENCY_TTL":     "1h",
		"LOW_STOCK_THRESHOLD": "10",
		"EVENT_SINK":          "kafka",
		"KAFKA_BROKERS":       "k1:9092, k2:9092,",
		"LOG_FORMAT":          "json",
	}))
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.StoreDriver)
	assert.True(t, cfg.IdempotencyEnabled)
	assert.Equal(t, time.Hour, cfg.IdempotencyTTL)
	assert.Equal(t, 10, cfg.LowStockThreshold)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestFromEnv_HTTPAddrFallsBackToPort(t *testing.T) {
	cfg, err := FromEnv(envOf(map[string]string{"PORT": "8080"}))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.HTTPAddr)

	cfg, err = FromEnv(envOf(map[string]string{"PORT": "8080", "HTTP_ADDR": "127.0.0.1:9000"}))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)

	_, err = FromEnv(envOf(map[string]string{"PORT": "http"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestFromEnv_InvalidValuesNameTheKey(t *testing.T) {
	tests := []struct {
		key   string
		value string
	}{
		{"LOW_STOCK_THRESHOLD", "five"},
		{"LOW_STOCK_THRESHOLD", "-1"},
		{"WORKER_COUNT", "0"},
		{"IDEMPOTENCY_ENABLED", "maybe"},
		{"SHUTDOWN_TIMEOUT", "soon"},
		{"STORE_DRIVER", "oracle"},
		{"EVENT_SINK", "smtp"},
		{"LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			_, err := FromEnv(envOf(map[string]string{tt.key: tt.value}))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}

func TestFromEnv_RequiresBackendSettings(t *testing.T) {
	tests := []struct {
		vars map[string]string
		want string
	}{
		{map[string]string{"STORE_DRIVER": "mysql"}, "MYSQL_DSN"},
		{map[string]string{"STORE_DRIVER": "postgres"}, "DATABASE_URL"},
		{map[string]string{"EVENT_SINK": "kafka"}, "KAFKA_BROKERS"},
		{map[string]string{"EVENT_SINK": "rabbitmq"}, "RABBITMQ_URL"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			_, err := FromEnv(envOf(tt.vars))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestFromEnv_ReportsEveryError(t *testing.T) {
	_, err := FromEnv(envOf(map[string]string{
		"WORKER_COUNT":     "x",
		"EVENT_QUEUE_SIZE": "y",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WORKER_COUNT")
	assert.Contains(t, err.Error(), "EVENT_QUEUE_SIZE")
}
