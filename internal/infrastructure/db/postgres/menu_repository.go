package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

type MenuRepository struct {
	db *sqlx.DB
}

func NewMenuRepository(db *sqlx.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

func (r *MenuRepository) CreateItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	rec := *item
	rec.ID = uuid.NewString()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	const query = `
		INSERT INTO menu_items (id, restaurant_id, name, description, category, price_vnd,
			image_url, available, created_at, updated_at)
		VALUES (:id, :restaurant_id, :name, :description, :category, :price_vnd,
			:image_url, :available, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return nil, fmt.Errorf("insert menu item: %w", err)
	}
	return &rec, nil
}

func (r *MenuRepository) UpdateItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	rec := *item
	rec.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE menu_items SET name = :name, description = :description, category = :category,
			price_vnd = :price_vnd, image_url = :image_url, available = :available,
			updated_at = :updated_at
		WHERE id = :id AND restaurant_id = :restaurant_id`

	res, err := r.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		return nil, fmt.Errorf("update menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrMenuItemNotFound
	}
	return r.FindItemByID(ctx, rec.ID)
}

func (r *MenuRepository) DeleteItem(ctx context.Context, restaurantID, itemID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM menu_items WHERE id = $1 AND restaurant_id = $2`, itemID, restaurantID)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrMenuItemNotFound
	}
	return nil
}

func (r *MenuRepository) FindItemByID(ctx context.Context, id string) (*domain.MenuItem, error) {
	var rec domain.MenuItem
	err := r.db.GetContext(ctx, &rec, `SELECT * FROM menu_items WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("find menu item: %w", err)
	}
	return &rec, nil
}

func (r *MenuRepository) FindItemsByIDs(ctx context.Context, ids []string) ([]*domain.MenuItem, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var recs []*domain.MenuItem
	err := r.db.SelectContext(ctx, &recs,
		`SELECT * FROM menu_items WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("find menu items: %w", err)
	}
	return recs, nil
}

func (r *MenuRepository) ListByRestaurant(ctx context.Context, restaurantID string, onlyAvailable bool) ([]*domain.MenuItem, error) {
	query := `SELECT * FROM menu_items WHERE restaurant_id = $1`
	if onlyAvailable {
		query += ` AND available = TRUE`
	}
	query += ` ORDER BY category, name`

	var recs []*domain.MenuItem
	if err := r.db.SelectContext(ctx, &recs, query, restaurantID); err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	return recs, nil
}
