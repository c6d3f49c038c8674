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

type OrderRepository struct {
	db *sqlx.DB
}

func NewOrderRepository(db *sqlx.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) (*domain.Order, error) {
	rec := *o
	rec.ID = uuid.NewString()
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin order tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	const insert = `
		INSERT INTO orders (id, reference, user_id, restaurant_id, total_vnd, status,
			payment_status, pickup_at, note, created_at, updated_at)
		VALUES (:id, :reference, :user_id, :restaurant_id, :total_vnd, :status,
			:payment_status, :pickup_at, :note, :created_at, :updated_at)`

	if _, err := tx.NamedExecContext(ctx, insert, rec); err != nil {
		return nil, fmt.Errorf("insert order: %w", err)
	}

	const insertItem = `
		INSERT INTO order_items (order_id, position, menu_item_id, name, price_vnd, quantity, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, it := range rec.Items {
		if _, err := tx.ExecContext(ctx, insertItem,
			rec.ID, i, it.MenuItemID, it.Name, it.PriceVND, it.Quantity, it.Note); err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit order tx: %w", err)
	}
	return &rec, nil
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.findOne(ctx, `SELECT * FROM orders WHERE id = $1`, id)
}

func (r *OrderRepository) FindByReference(ctx context.Context, reference string) (*domain.Order, error) {
	return r.findOne(ctx, `SELECT * FROM orders WHERE reference = $1`, reference)
}

func (r *OrderRepository) findOne(ctx context.Context, query, arg string) (*domain.Order, error) {
	var rec domain.Order
	err := r.db.GetContext(ctx, &rec, query, arg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	if err := r.loadItems(ctx, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *OrderRepository) loadItems(ctx context.Context, o *domain.Order) error {
	err := r.db.SelectContext(ctx, &o.Items,
		`SELECT menu_item_id, name, price_vnd, quantity, note
		 FROM order_items WHERE order_id = $1 ORDER BY position`, o.ID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	return nil
}

func (r *OrderRepository) List(ctx context.Context, filter ports.ListOrdersFilter) ([]*domain.Order, int64, error) {
	where := "WHERE 1=1"
	args := map[string]any{
		"user_id":       filter.UserID,
		"restaurant_id": filter.RestaurantID,
		"status":        filter.Status,
		"date_from":     filter.DateFrom,
		"date_to":       filter.DateTo,
		"limit":         filter.Limit,
		"offset":        (filter.Page - 1) * filter.Limit,
	}
	if filter.UserID != "" {
		where += " AND user_id = :user_id"
	}
	if filter.RestaurantID != "" {
		where += " AND restaurant_id = :restaurant_id"
	}
	if filter.Status != "" {
		where += " AND status = :status"
	}
	if !filter.DateFrom.IsZero() {
		where += " AND created_at >= :date_from"
	}
	if !filter.DateTo.IsZero() {
		where += " AND created_at < :date_to"
	}

	var total int64
	countQuery, countArgs, err := sqlx.Named(`SELECT COUNT(*) FROM orders `+where, args)
	if err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(countQuery), countArgs...); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	listQuery, listArgs, err := sqlx.Named(
		`SELECT * FROM orders `+where+` ORDER BY created_at DESC LIMIT :limit OFFSET :offset`, args)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	var recs []*domain.Order
	if err := r.db.SelectContext(ctx, &recs, r.db.Rebind(listQuery), listArgs...); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	for _, o := range recs {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return recs, total, nil
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET status = $2, updated_at = $3 WHERE id = $1`,
		id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// MarkPaid flips payment_status only while the order is still unpaid. The
// WHERE guard makes concurrent webhook deliveries settle exactly once.
func (r *OrderRepository) MarkPaid(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = $3
		 WHERE id = $1 AND payment_status = $4`,
		id, domain.PaymentPaid, time.Now().UTC(), domain.PaymentUnpaid)
	if err != nil {
		return fmt.Errorf("mark order paid: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrOrderNotPayable
	}
	return nil
}
