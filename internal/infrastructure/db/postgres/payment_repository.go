package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

type PaymentRepository struct {
	db *sqlx.DB
}

func NewPaymentRepository(db *sqlx.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// Insert records a gateway transaction. The unique index on provider_tx_id
// turns webhook redelivery into ErrDuplicatePayment.
func (r *PaymentRepository) Insert(ctx context.Context, p *domain.Payment) error {
	const query = `
		INSERT INTO payments (id, provider_tx_id, order_id, gateway, amount_vnd,
			transfer_type, reference, content, received_at)
		VALUES (:id, :provider_tx_id, :order_id, :gateway, :amount_vnd,
			:transfer_type, :reference, :content, :received_at)`

	if _, err := r.db.NamedExecContext(ctx, query, p); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicatePayment
		}
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *PaymentRepository) FindByProviderTxID(ctx context.Context, providerTxID int64) (*domain.Payment, error) {
	var p domain.Payment
	err := r.db.GetContext(ctx, &p, `SELECT * FROM payments WHERE provider_tx_id = $1`, providerTxID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment: %w", err)
	}
	return &p, nil
}
