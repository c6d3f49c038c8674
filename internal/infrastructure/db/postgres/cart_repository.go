package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

type CartRepository struct {
	db *sqlx.DB
}

func NewCartRepository(db *sqlx.DB) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) FindByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.db.GetContext(ctx, &cart,
		`SELECT id, user_id, restaurant_id, updated_at FROM carts WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	err = r.db.SelectContext(ctx, &cart.Items,
		`SELECT menu_item_id, name, price_vnd, quantity, note
		 FROM cart_items WHERE cart_id = $1 ORDER BY position`, cart.ID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}
	return &cart, nil
}

// Save upserts the cart row and replaces its items wholesale inside one
// transaction, so a concurrent reader never sees a half-written cart.
func (r *CartRepository) Save(ctx context.Context, cart *domain.Cart) (*domain.Cart, error) {
	rec := *cart
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin cart tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const upsert = `
		INSERT INTO carts (id, user_id, restaurant_id, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET restaurant_id = EXCLUDED.restaurant_id, updated_at = EXCLUDED.updated_at
		RETURNING id`

	if err := tx.GetContext(ctx, &rec.ID, upsert, rec.ID, rec.UserID, rec.RestaurantID, rec.UpdatedAt); err != nil {
		return nil, fmt.Errorf("upsert cart: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, rec.ID); err != nil {
		return nil, fmt.Errorf("clear cart items: %w", err)
	}

	const insertItem = `
		INSERT INTO cart_items (cart_id, position, menu_item_id, name, price_vnd, quantity, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, it := range rec.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			rec.ID, i, it.MenuItemID, it.Name, it.PriceVND, it.Quantity, it.Note); err != nil {
			return nil, fmt.Errorf("insert cart item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit cart tx: %w", err)
	}
	return &rec, nil
}

func (r *CartRepository) Delete(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM carts WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}
