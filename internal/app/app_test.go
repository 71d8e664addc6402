package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rl1809/shirt-inventory/internal/adapter/messaging"
	"github.com/rl1809/shirt-inventory/internal/adapter/storage"
	"github.com/rl1809/shirt-inventory/internal/config"
	"github.com/rl1809/shirt-inventory/internal/platform/logging"
)

func TestOpenStore_Memory(t *testing.T) {
	cfg := &config.Config{StoreDriver: config.DriverMemory, IdempotencyEnabled: true}
	s, err := OpenStore(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)
	defer s.Close()

	assert.IsType(t, &storage.MemoryAdapter{}, s.Repo)
	assert.NotNil(t, s.Idempotency)
}

func TestOpenStore_SQLite(t *testing.T) {
	cfg := &config.Config{
		StoreDriver: config.DriverSQLite,
		SQLitePath:  filepath.Join(t.TempDir(), "shirts.db"),
	}
	s, err := OpenStore(context.Background(), cfg, logging.Discard())
	require.NoError(t, err)

	assert.IsType(t, &storage.SQLiteAdapter{}, s.Repo)
	assert.Nil(t, s.Idempotency)
	assert.NoError(t, s.Repo.Ping(context.Background()))
	assert.NoError(t, s.Close())
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{StoreDriver: "oracle"}, logging.Discard())
	assert.ErrorContains(t, err, "oracle")
}

func TestOpenPublisher(t *testing.T) {
	p, err := OpenPublisher(&config.Config{EventSink: config.SinkLog}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &messaging.LogPublisher{}, p)

	p, err = OpenPublisher(&config.Config{EventSink: config.SinkNone}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, messaging.NopPublisher{}, p)

	p, err = OpenPublisher(&config.Config{
		EventSink:    config.SinkKafka,
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "shirt-stock-events",
	}, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &messaging.KafkaPublisher{}, p)

	_, err = OpenPublisher(&config.Config{EventSink: "smtp"}, logging.Discard())
	assert.Error(t, err)
}
