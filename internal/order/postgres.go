package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"goodfood/internal/domain"
)

// PostgresStore persists orders in the orders and order_lines tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	o := &domain.Order{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, user_id, user_name, status, discount_amount, total_amount, last_update
		FROM orders
		WHERE id = $1
	`, id).Scan(&o.ID, &o.Customer.UserID, &o.Customer.UserName, &o.Status,
		&o.DiscountAmount, &o.TotalAmount, &o.LastUpdate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	if err := s.loadLines(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *PostgresStore) Add(ctx context.Context, order *domain.Order) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, user_name, status, discount_amount, total_amount, last_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, order.ID, order.Customer.UserID, order.Customer.UserName, order.Status,
		order.DiscountAmount, order.TotalAmount, order.LastUpdate)
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}

	for _, line := range order.Lines {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_lines (order_id, food_id, quantity, food_price)
			VALUES ($1, $2, $3, $4)
		`, order.ID, line.FoodID, line.Quantity, line.FoodPrice)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// Update persists a lifecycle transition. Order lines are immutable after
// placement, only status and timestamps move.
func (s *PostgresStore) Update(ctx context.Context, order *domain.Order) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE orders SET status = $2, last_update = $3 WHERE id = $1
	`, order.ID, order.Status, order.LastUpdate)
	if err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrOrderNotFound
	}
	return nil
}

func (s *PostgresStore) All(ctx context.Context) ([]*domain.Order, error) {
	return s.list(ctx, `
		SELECT id, user_id, user_name, status, discount_amount, total_amount, last_update
		FROM orders
		ORDER BY last_update
	`)
}

func (s *PostgresStore) AllByUser(ctx context.Context, userID string) ([]*domain.Order, error) {
	return s.list(ctx, `
		SELECT id, user_id, user_name, status, discount_amount, total_amount, last_update
		FROM orders
		WHERE user_id = $1
		ORDER BY last_update
	`, userID)
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*domain.Order, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []*domain.Order
	for rows.Next() {
		o := &domain.Order{}
		err := rows.Scan(&o.ID, &o.Customer.UserID, &o.Customer.UserName, &o.Status,
			&o.DiscountAmount, &o.TotalAmount, &o.LastUpdate)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, o := range orders {
		if err := s.loadLines(ctx, o); err != nil {
			return nil, err
		}
	}
	return orders, nil
}

func (s *PostgresStore) loadLines(ctx context.Context, order *domain.Order) error {
	rows, err := s.pool.Query(ctx, `
		SELECT food_id, quantity, food_price
		FROM order_lines
		WHERE order_id = $1
	`, order.ID)
	if err != nil {
		return fmt.Errorf("failed to query order lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.OrderLine
		if err := rows.Scan(&line.FoodID, &line.Quantity, &line.FoodPrice); err != nil {
			return fmt.Errorf("failed to scan order line: %w", err)
		}
		order.Lines = append(order.Lines, line)
	}
	return rows.Err()
}
