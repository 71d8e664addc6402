package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func newSQLiteTestAdapter(t *testing.T) *SQLiteAdapter {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "shirts.db"))
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	adapter := NewSQLiteAdapter(db)
	if err := adapter.Migrate(context.Background()); err != nil {
		t.Fatalf("Failed to migrate database: %v", err)
	}
	return adapter
}

func TestSQLiteAdapter_Repository(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) contractRepo {
		return newSQLiteTestAdapter(t)
	})
}

func TestSQLiteAdapter_ConcurrentAdjust(t *testing.T) {
	runConcurrentAdjust(t, newSQLiteTestAdapter(t), 20, 50)
}

func TestSQLiteAdapter_Ping(t *testing.T) {
	adapter := newSQLiteTestAdapter(t)
	if err := adapter.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}
