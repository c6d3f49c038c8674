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
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

type RestaurantRepository struct {
	db *sqlx.DB
}

func NewRestaurantRepository(db *sqlx.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) Create(ctx context.Context, rest *domain.Restaurant) (*domain.Restaurant, error) {
	rec := *rest
	rec.ID = uuid.NewString()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	const query = `
		INSERT INTO restaurants (id, owner_id, name, description, address, lat, lng, phone,
			open_time, close_time, active, rating, review_count, created_at, updated_at)
		VALUES (:id, :owner_id, :name, :description, :address, :lat, :lng, :phone,
			:open_time, :close_time, :active, :rating, :review_count, :created_at, :updated_at)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		return nil, fmt.Errorf("insert restaurant: %w", err)
	}
	return &rec, nil
}

func (r *RestaurantRepository) Update(ctx context.Context, rest *domain.Restaurant) (*domain.Restaurant, error) {
	rec := *rest
	rec.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE restaurants SET name = :name, description = :description, address = :address,
			lat = :lat, lng = :lng, phone = :phone, open_time = :open_time,
			close_time = :close_time, active = :active, updated_at = :updated_at
		WHERE id = :id`

	res, err := r.db.NamedExecContext(ctx, query, rec)
	if err != nil {
		return nil, fmt.Errorf("update restaurant: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrRestaurantNotFound
	}
	return r.FindByID(ctx, rec.ID)
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id string) (*domain.Restaurant, error) {
	var rec domain.Restaurant
	err := r.db.GetContext(ctx, &rec, `SELECT * FROM restaurants WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRestaurantNotFound
		}
		return nil, fmt.Errorf("find restaurant: %w", err)
	}
	return &rec, nil
}

func (r *RestaurantRepository) List(ctx context.Context, filter ports.ListRestaurantsFilter) ([]*domain.Restaurant, int64, error) {
	where := "WHERE 1=1"
	args := map[string]any{
		"search": "%" + filter.Search + "%",
		"limit":  filter.Limit,
		"offset": (filter.Page - 1) * filter.Limit,
	}
	if filter.OnlyActive {
		where += " AND active = TRUE"
	}
	if filter.Search != "" {
		where += " AND name ILIKE :search"
	}

	var total int64
	countQuery, countArgs, err := sqlx.Named(`SELECT COUNT(*) FROM restaurants `+where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count restaurants: %w", err)
	}

	listQuery, listArgs, err := sqlx.Named(
		`SELECT * FROM restaurants `+where+` ORDER BY name LIMIT :limit OFFSET :offset`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list restaurants: %w", err)
	}
	var recs []*domain.Restaurant
	if err := r.db.SelectContext(ctx, &recs, r.db.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, fmt.Errorf("list restaurants: %w", err)
	}
	return recs, total, nil
}

// Nearby runs the distance filter inside PostGIS so the index on the
// geography expression does the work.
func (r *RestaurantRepository) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]*domain.Restaurant, error) {
	const query = `
		SELECT * FROM restaurants
		WHERE active = TRUE
		  AND ST_DWithin(
			geography(ST_MakePoint(lng, lat)),
			geography(ST_MakePoint($2, $1)),
			$3)
		ORDER BY geography(ST_MakePoint(lng, lat)) <-> geography(ST_MakePoint($2, $1))
		LIMIT $4`

	var recs []*domain.Restaurant
	if err := r.db.SelectContext(ctx, &recs, query, lat, lng, radiusKm*1000, limit); err != nil {
		return nil, fmt.Errorf("nearby restaurants: %w", err)
	}
	return recs, nil
}

// UpdateRating stores the recomputed aggregate after a new review lands.
func (r *RestaurantRepository) UpdateRating(ctx context.Context, id string, rating float64, count int64) error {
	const query = `
		UPDATE restaurants SET rating = $2, review_count = $3, updated_at = $4
		WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, id, rating, count, time.Now().UTC()); err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	return nil
}
