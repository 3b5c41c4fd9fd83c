package cart

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"goodfood/internal/domain"
)

// PostgresStore persists carts in the carts and cart_lines tables.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) FindByCustomer(ctx context.Context, customer domain.CustomerInfo) ([]*domain.Cart, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, user_name, time_created, time_updated
		FROM carts
		WHERE user_id = $1
	`, customer.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query carts: %w", err)
	}

	carts, err := scanCarts(rows)
	if err != nil {
		return nil, err
	}

	for _, c := range carts {
		if err := s.loadLines(ctx, c); err != nil {
			return nil, err
		}
	}
	return carts, nil
}

func (s *PostgresStore) Add(ctx context.Context, cart *domain.Cart) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `
		INSERT INTO carts (user_id, user_name, time_created, time_updated)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`, cart.Customer.UserID, cart.Customer.UserName, cart.TimeCreated, cart.TimeUpdated).Scan(&cart.ID)
	if err != nil {
		return fmt.Errorf("failed to insert cart: %w", err)
	}

	if err := insertLines(ctx, tx, cart); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Update(ctx context.Context, cart *domain.Cart) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `
		UPDATE carts SET time_updated = $2 WHERE id = $1
	`, cart.ID, cart.TimeUpdated)
	if err != nil {
		return fmt.Errorf("failed to update cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCartNotFound
	}

	// Lines are rewritten wholesale; the set is small by construction.
	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart lines: %w", err)
	}
	if err := insertLines(ctx, tx, cart); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *PostgresStore) Remove(ctx context.Context, cartID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

func (s *PostgresStore) All(ctx context.Context) ([]*domain.Cart, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, user_name, time_created, time_updated
		FROM carts
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query carts: %w", err)
	}

	carts, err := scanCarts(rows)
	if err != nil {
		return nil, err
	}
	for _, c := range carts {
		if err := s.loadLines(ctx, c); err != nil {
			return nil, err
		}
	}
	return carts, nil
}

func (s *PostgresStore) loadLines(ctx context.Context, cart *domain.Cart) error {
	rows, err := s.pool.Query(ctx, `
		SELECT food_id, food_name, food_description, food_image_path, quantity, price
		FROM cart_lines
		WHERE cart_id = $1
	`, cart.ID)
	if err != nil {
		return fmt.Errorf("failed to query cart lines: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		err := rows.Scan(&line.FoodID, &line.FoodName, &line.FoodDescription,
			&line.FoodImagePath, &line.Quantity, &line.Price)
		if err != nil {
			return fmt.Errorf("failed to scan cart line: %w", err)
		}
		cart.Lines = append(cart.Lines, line)
	}
	return rows.Err()
}

func insertLines(ctx context.Context, tx pgx.Tx, cart *domain.Cart) error {
	for _, line := range cart.Lines {
		_, err := tx.Exec(ctx, `
			INSERT INTO cart_lines (cart_id, food_id, food_name, food_description, food_image_path, quantity, price)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, cart.ID, line.FoodID, line.FoodName, line.FoodDescription, line.FoodImagePath, line.Quantity, line.Price)
		if err != nil {
			return fmt.Errorf("failed to insert cart line: %w", err)
		}
	}
	return nil
}

func scanCarts(rows pgx.Rows) ([]*domain.Cart, error) {
	defer rows.Close()

	var carts []*domain.Cart
	for rows.Next() {
		c := &domain.Cart{}
		err := rows.Scan(&c.ID, &c.Customer.UserID, &c.Customer.UserName,
			&c.TimeCreated, &c.TimeUpdated)
		if err != nil {
			return nil, fmt.Errorf("failed to scan cart: %w", err)
		}
		carts = append(carts, c)
	}
	return carts, rows.Err()
}
