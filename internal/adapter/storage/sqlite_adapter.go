package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

type shirtRow struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Name      *string   `gorm:"size:255"`
	Color     string    `gorm:"not null;index:idx_shirts_color_size"`
	Size      string    `gorm:"not null;index:idx_shirts_color_size"`
	Price     float64   `gorm:"not null;default:0"`
	Stock     int       `gorm:"not null;default:0;index"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (shirtRow) TableName() string {
	return "shirts"
}

func rowFromShirt(s domain.Shirt) shirtRow {
	return shirtRow{
		ID:        s.ID,
		Name:      s.Name,
		Color:     s.Color,
		Size:      s.Size,
		Price:     s.Price,
		Stock:     s.Stock,
		CreatedAt: s.CreatedAt.UTC(),
		UpdatedAt: s.UpdatedAt.UTC(),
	}
}

func (r shirtRow) toDomain() domain.Shirt {
	return domain.Shirt{
		ID:        r.ID,
		Name:      r.Name,
		Color:     r.Color,
		Size:      r.Size,
		Price:     r.Price,
		Stock:     r.Stock,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

// SQLiteAdapter is the default store, backed by gorm.
type SQLiteAdapter struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLiteAdapter(db *gorm.DB) *SQLiteAdapter {
	return &SQLiteAdapter{db: db, now: time.Now}
}

// OpenSQLite opens the database file at path. SQLite takes one writer at a
// time, so the pool is capped at a single connection.
func OpenSQLite(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("sqlite pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

func (s *SQLiteAdapter) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&shirtRow{}); err != nil {
		return fmt.Errorf("migrate shirts: %w", err)
	}
	return nil
}

func (s *SQLiteAdapter) Get(ctx context.Context, id string) (*domain.Shirt, error) {
	return s.find(s.db.WithContext(ctx), id)
}

func (s *SQLiteAdapter) find(tx *gorm.DB, id string) (*domain.Shirt, error) {
	var row shirtRow
	err := tx.First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shirt: %w", err)
	}
	shirt := row.toDomain()
	return &shirt, nil
}

func (s *SQLiteAdapter) List(ctx context.Context, filter domain.Filter) ([]domain.Shirt, error) {
	q := s.db.WithContext(ctx).Model(&shirtRow{})
	if cond, args := filterConditions(filter, questionMark); cond != "" {
		q = q.Where(cond, args...)
	}

	var rows []shirtRow
	if err := q.Order("created_at, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query shirts: %w", err)
	}

	out := make([]domain.Shirt, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func (s *SQLiteAdapter) Insert(ctx context.Context, shirt domain.Shirt) error {
	row := rowFromShirt(shirt)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("insert shirt: %w", err)
	}
	return nil
}

func (s *SQLiteAdapter) Replace(ctx context.Context, id string, patch domain.ShirtPatch) (*domain.Shirt, error) {
	updates := map[string]interface{}{"updated_at": s.now().UTC()}
	if patch.Name != nil {
		updates["name"] = *patch.Name
	}
	if patch.Color != nil {
		updates["color"] = *patch.Color
	}
	if patch.Size != nil {
		updates["size"] = *patch.Size
	}
	if patch.Price != nil {
		updates["price"] = *patch.Price
	}
	if patch.Stock != nil {
		updates["stock"] = *patch.Stock
	}

	var shirt *domain.Shirt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&shirtRow{}).Where("id = ?", id).Updates(updates)
		if result.Error != nil {
			return fmt.Errorf("update shirt: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		var err error
		shirt, err = s.find(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return shirt, nil
}

func (s *SQLiteAdapter) AdjustStock(ctx context.Context, id string, delta int) (*domain.Shirt, error) {
	var shirt *domain.Shirt
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&shirtRow{}).
			Where("id = ? AND (? >= 0 OR stock + ? >= 0)", id, delta, delta).
			Updates(map[string]interface{}{
				"stock":      gorm.Expr("stock + ?", delta),
				"updated_at": s.now().UTC(),
			})
		if result.Error != nil {
			return fmt.Errorf("update stock: %w", result.Error)
		}

		var err error
		shirt, err = s.find(tx, id)
		if err != nil {
			return err
		}
		if result.RowsAffected == 0 {
			return domain.ErrInsufficientStock
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return shirt, nil
}

func (s *SQLiteAdapter) Remove(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&shirtRow{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("delete shirt: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *SQLiteAdapter) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
