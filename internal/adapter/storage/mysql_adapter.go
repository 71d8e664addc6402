package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

const mysqlSchema = `
	CREATE TABLE IF NOT EXISTS shirts (
		id CHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(255) NULL,
		color VARCHAR(64) NOT NULL,
		size VARCHAR(16) NOT NULL,
		price DOUBLE NOT NULL DEFAULT 0,
		stock INT NOT NULL DEFAULT 0,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		INDEX idx_shirts_stock (stock),
		INDEX idx_shirts_color_size (color, size)
	)`

const shirtColumns = "id, name, color, size, price, stock, created_at, updated_at"

type MySQLAdapter struct {
	db  *sql.DB
	now func() time.Time
}

func NewMySQLAdapter(db *sql.DB) *MySQLAdapter {
	return &MySQLAdapter{db: db, now: time.Now}
}

// OpenMySQL opens a pool for dsn with time parsing forced on, since the
// adapter scans DATETIME columns into time.Time.
func OpenMySQL(dsn string) (*sql.DB, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(100)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)
	return db, nil
}

func (m *MySQLAdapter) Migrate(ctx context.Context) error {
	if _, err := m.db.ExecContext(ctx, mysqlSchema); err != nil {
		return fmt.Errorf("create shirts table: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) Get(ctx context.Context, id string) (*domain.Shirt, error) {
	return getSQLShirt(ctx, m.db, `SELECT `+shirtColumns+` FROM shirts WHERE id = ?`, id)
}

func (m *MySQLAdapter) List(ctx context.Context, filter domain.Filter) ([]domain.Shirt, error) {
	where, args := whereClause(filter, questionMark)
	rows, err := m.db.QueryContext(ctx,
		`SELECT `+shirtColumns+` FROM shirts`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query shirts: %w", err)
	}
	return scanSQLShirts(rows)
}

func (m *MySQLAdapter) Insert(ctx context.Context, shirt domain.Shirt) error {
	_, err := m.db.ExecContext(ctx, `
		INSERT INTO shirts (`+shirtColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		shirt.ID, shirt.Name, shirt.Color, shirt.Size, shirt.Price, shirt.Stock,
		shirt.CreatedAt.UTC(), shirt.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert shirt: %w", err)
	}
	return nil
}

func (m *MySQLAdapter) Replace(ctx context.Context, id string, patch domain.ShirtPatch) (*domain.Shirt, error) {
	sets, args := setClause(patch, questionMark)
	sets = append(sets, "updated_at = ?")
	args = append(args, m.now().UTC(), id)

	if _, err := m.db.ExecContext(ctx,
		`UPDATE shirts SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...); err != nil {
		return nil, fmt.Errorf("update shirt: %w", err)
	}

	// MySQL reports zero affected rows when nothing changed, so the lookup
	// decides NotFound rather than RowsAffected.
	return m.Get(ctx, id)
}

func (m *MySQLAdapter) AdjustStock(ctx context.Context, id string, delta int) (*domain.Shirt, error) {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
		UPDATE shirts
		SET stock = stock + ?, updated_at = ?
		WHERE id = ? AND (? >= 0 OR stock + ? >= 0)`,
		delta, m.now().UTC(), id, delta, delta,
	)
	if err != nil {
		return nil, fmt.Errorf("update stock: %w", err)
	}

	shirt, err := getSQLShirt(ctx, tx, `SELECT `+shirtColumns+` FROM shirts WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 && !domain.CanAdjust(shirt.Stock, delta) {
		return nil, domain.ErrInsufficientStock
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit stock: %w", err)
	}
	return shirt, nil
}

func (m *MySQLAdapter) Remove(ctx context.Context, id string) error {
	result, err := m.db.ExecContext(ctx, `DELETE FROM shirts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete shirt: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (m *MySQLAdapter) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

type rowQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func getSQLShirt(ctx context.Context, q rowQuerier, query string, id string) (*domain.Shirt, error) {
	shirt, err := scanSQLShirt(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query shirt: %w", err)
	}
	return shirt, nil
}

func scanSQLShirt(row rowScanner) (*domain.Shirt, error) {
	var s domain.Shirt
	var name sql.NullString
	if err := row.Scan(&s.ID, &name, &s.Color, &s.Size, &s.Price, &s.Stock, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	if name.Valid {
		s.Name = &name.String
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

func scanSQLShirts(rows *sql.Rows) ([]domain.Shirt, error) {
	defer rows.Close()
	out := make([]domain.Shirt, 0)
	for rows.Next() {
		s, err := scanSQLShirt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan shirt: %w", err)
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shirts: %w", err)
	}
	return out, nil
}
