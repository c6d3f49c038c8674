package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

type ReviewRepository struct {
	db *sqlx.DB
}

func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) Insert(ctx context.Context, review *domain.Review) (*domain.Review, error) {
	rec := *review
	rec.ID = uuid.NewString()

	const query = `
		INSERT INTO reviews (id, order_id, user_id, restaurant_id, rating, comment, created_at)
		VALUES (:id, :order_id, :user_id, :restaurant_id, :rating, :comment, :created_at)`

	if _, err := r.db.NamedExecContext(ctx, query, rec); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, domain.ErrReviewExists
		}
		return nil, fmt.Errorf("insert review: %w", err)
	}
	return &rec, nil
}

func (r *ReviewRepository) ListByRestaurant(ctx context.Context, restaurantID string, page, limit int) ([]*domain.Review, int64, error) {
	var total int64
	if err := r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM reviews WHERE restaurant_id = $1`, restaurantID); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	var recs []*domain.Review
	err := r.db.SelectContext(ctx, &recs,
		`SELECT * FROM reviews WHERE restaurant_id = $1
		 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		restaurantID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return recs, total, nil
}

func (r *ReviewRepository) Aggregate(ctx context.Context, restaurantID string) (float64, int64, error) {
	var agg struct {
		Avg   float64 `db:"avg"`
		Count int64   `db:"count"`
	}
	err := r.db.GetContext(ctx, &agg,
		`SELECT COALESCE(AVG(rating), 0) AS avg, COUNT(*) AS count
		 FROM reviews WHERE restaurant_id = $1`, restaurantID)
	if err != nil {
		return 0, 0, fmt.Errorf("aggregate reviews: %w", err)
	}
	return agg.Avg, agg.Count, nil
}
