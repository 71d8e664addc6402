package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rl1809/shirt-inventory/internal/core/domain"
)

const postgresSchema = `
	CREATE TABLE IF NOT EXISTS shirts (
		id TEXT PRIMARY KEY,
		name TEXT NULL,
		color TEXT NOT NULL,
		size TEXT NOT NULL,
		price DOUBLE PRECISION NOT NULL DEFAULT 0,
		stock INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_shirts_stock ON shirts (stock);
	CREATE INDEX IF NOT EXISTS idx_shirts_color_size ON shirts (color, size)`

type PostgresAdapter struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

func NewPostgresAdapter(pool *pgxpool.Pool) *PostgresAdapter {
	return &PostgresAdapter{pool: pool, now: time.Now}
}

func OpenPostgres(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 50
	cfg.MaxConnLifetime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return pool, nil
}

func (p *PostgresAdapter) Migrate(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create shirts table: %w", err)
	}
	return nil
}

func (p *PostgresAdapter) Get(ctx context.Context, id string) (*domain.Shirt, error) {
	row := p.pool.QueryRow(ctx, `SELECT `+shirtColumns+` FROM shirts WHERE id = $1`, id)
	return scanPgShirt(row)
}

func (p *PostgresAdapter) List(ctx context.Context, filter domain.Filter) ([]domain.Shirt, error) {
	where, args := whereClause(filter, dollarN)
	rows, err := p.pool.Query(ctx,
		`SELECT `+shirtColumns+` FROM shirts`+where+` ORDER BY created_at, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("query shirts: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Shirt, 0)
	for rows.Next() {
		s, err := scanPgShirt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate shirts: %w", err)
	}
	return out, nil
}

func (p *PostgresAdapter) Insert(ctx context.Context, shirt domain.Shirt) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO shirts (`+shirtColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		shirt.ID, shirt.Name, shirt.Color, shirt.Size, shirt.Price, shirt.Stock,
		shirt.CreatedAt.UTC(), shirt.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert shirt: %w", err)
	}
	return nil
}

func (p *PostgresAdapter) Replace(ctx context.Context, id string, patch domain.ShirtPatch) (*domain.Shirt, error) {
	sets, args := setClause(patch, dollarN)
	args = append(args, p.now().UTC())
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(args)))
	args = append(args, id)

	row := p.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE shirts SET %s WHERE id = $%d RETURNING `+shirtColumns,
			strings.Join(sets, ", "), len(args)),
		args...)
	return scanPgShirt(row)
}

func (p *PostgresAdapter) AdjustStock(ctx context.Context, id string, delta int) (*domain.Shirt, error) {
	row := p.pool.QueryRow(ctx, `
		UPDATE shirts
		SET stock = stock + $1, updated_at = $2
		WHERE id = $3 AND ($1 >= 0 OR stock + $1 >= 0)
		RETURNING `+shirtColumns,
		delta, p.now().UTC(), id,
	)
	shirt, err := scanPgShirt(row)
	if !errors.Is(err, domain.ErrNotFound) {
		return shirt, err
	}

	// The guarded update matched nothing: either the shirt is gone or the
	// floor check failed.
	if _, err := p.Get(ctx, id); err != nil {
		return nil, err
	}
	return nil, domain.ErrInsufficientStock
}

func (p *PostgresAdapter) Remove(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM shirts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete shirt: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (p *PostgresAdapter) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func scanPgShirt(row pgx.Row) (*domain.Shirt, error) {
	var s domain.Shirt
	err := row.Scan(&s.ID, &s.Name, &s.Color, &s.Size, &s.Price, &s.Stock, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan shirt: %w", err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}
