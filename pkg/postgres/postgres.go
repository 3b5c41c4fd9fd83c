package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"goodfood/pkg/config"
)

// Connect opens a pgx pool and verifies the connection.
func Connect(ctx context.Context, cfg *config.Postgres) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
	)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS carts (
		id BIGSERIAL PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		time_created TIMESTAMPTZ NOT NULL,
		time_updated TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS carts_user_id_idx ON carts (user_id)`,
	`CREATE TABLE IF NOT EXISTS cart_lines (
		cart_id BIGINT NOT NULL REFERENCES carts (id) ON DELETE CASCADE,
		food_id INT NOT NULL,
		food_name TEXT NOT NULL DEFAULT '',
		food_description TEXT NOT NULL DEFAULT '',
		food_image_path TEXT NOT NULL DEFAULT '',
		quantity INT NOT NULL,
		price NUMERIC(12, 2) NOT NULL,
		PRIMARY KEY (cart_id, food_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id UUID PRIMARY KEY,
		user_id TEXT NOT NULL,
		user_name TEXT NOT NULL,
		status TEXT NOT NULL,
		discount_amount NUMERIC(12, 2) NOT NULL,
		total_amount NUMERIC(12, 2) NOT NULL,
		last_update TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS orders_user_id_idx ON orders (user_id)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		order_id UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
		food_id INT NOT NULL,
		quantity INT NOT NULL,
		food_price NUMERIC(12, 2) NOT NULL,
		PRIMARY KEY (order_id, food_id)
	)`,
}

// EnsureSchema creates the tables if they do not exist yet. The pass is
// idempotent and replaces a migration tool for this schema size.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}
