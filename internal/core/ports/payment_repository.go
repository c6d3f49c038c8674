package ports

import (
	"context"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
)

// PaymentRepository persists gateway transactions. The provider transaction
// id carries a unique constraint; Insert returns ErrDuplicatePayment when the
// same transaction is recorded twice.
type PaymentRepository interface {
	Insert(ctx context.Context, p *domain.Payment) error
	FindByProviderTxID(ctx context.Context, providerTxID int64) (*domain.Payment, error)
}
