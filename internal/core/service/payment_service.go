package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
	"github.com/pickmeapp/pickme-api/internal/metrics"
)

// DedupChecker abstracts the idempotency store (Redis), keyed on the
// provider-assigned transaction id.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, providerTxID int64) (bool, error)
	Mark(ctx context.Context, providerTxID int64) error
}

// referencePattern matches the order reference embedded in transfer content.
// Banks strip punctuation, so the content is scanned, not parsed.
var referencePattern = regexp.MustCompile(`PM-?([0-9A-F]{8})`)

type paymentService struct {
	orderRepo   ports.OrderRepository
	paymentRepo ports.PaymentRepository
	dedup       DedupChecker
	log         zerolog.Logger
}

// NewPaymentService returns a PaymentService implementation.
func NewPaymentService(
	orderRepo ports.OrderRepository,
	paymentRepo ports.PaymentRepository,
	dedup DedupChecker,
	log zerolog.Logger,
) ports.PaymentService {
	return &paymentService{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		dedup:       dedup,
		log:         log,
	}
}

// Process validates, deduplicates, and applies a single webhook notification.
// The provider delivers at least once, so every step tolerates replay.
func (s *paymentService) Process(ctx context.Context, in ports.WebhookEventInput) error {
	// 1. Fast idempotency check: silently skip duplicates.
	isDup, err := s.dedup.IsDuplicate(ctx, in.ProviderTxID)
	if err != nil {
		s.log.Warn().Err(err).Int64("tx_id", in.ProviderTxID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		metrics.PaymentsDedupTotal.WithLabelValues("hit").Inc()
		s.log.Debug().Int64("tx_id", in.ProviderTxID).Msg("duplicate webhook skipped")
		return nil
	}
	metrics.PaymentsDedupTotal.WithLabelValues("miss").Inc()

	// 2. Only inbound transfers settle orders.
	if in.TransferType != domain.TransferIn {
		s.log.Debug().Int64("tx_id", in.ProviderTxID).Str("type", in.TransferType).Msg("outbound transfer ignored")
		return nil
	}

	// 3. Resolve the order from the transfer reference.
	reference := extractReference(in)
	if reference == "" {
		metrics.PaymentsErrorsTotal.WithLabelValues("no_reference").Inc()
		return fmt.Errorf("process payment: %w: no order reference in transaction %d", domain.ErrOrderNotFound, in.ProviderTxID)
	}

	order, err := s.orderRepo.FindByReference(ctx, reference)
	if err != nil {
		metrics.PaymentsErrorsTotal.WithLabelValues("order_not_found").Inc()
		return fmt.Errorf("process payment: %w", err)
	}

	// 4. Eligibility and amount checks before any transition.
	if !order.Payable() {
		metrics.PaymentsErrorsTotal.WithLabelValues("not_payable").Inc()
		return fmt.Errorf("process payment: %w (order %s is %s/%s)",
			domain.ErrOrderNotPayable, order.Reference, order.Status, order.PaymentStatus)
	}
	if in.AmountVND < order.TotalVND {
		metrics.PaymentsErrorsTotal.WithLabelValues("amount_mismatch").Inc()
		return fmt.Errorf("process payment: %w (got %d, need %d)",
			domain.ErrAmountMismatch, in.AmountVND, order.TotalVND)
	}

	// 5. Mark as processed before writing (prevents duplicate processing on retry).
	if markErr := s.dedup.Mark(ctx, in.ProviderTxID); markErr != nil {
		s.log.Warn().Err(markErr).Int64("tx_id", in.ProviderTxID).Msg("failed to set dedup key")
	}

	// 6. Record the transaction. The unique provider tx id is the durable
	// idempotency key; a replay that slipped past Redis stops here.
	payment := &domain.Payment{
		ID:           uuid.NewString(),
		ProviderTxID: in.ProviderTxID,
		OrderID:      order.ID,
		Gateway:      in.Gateway,
		AmountVND:    in.AmountVND,
		TransferType: in.TransferType,
		Reference:    reference,
		Content:      in.Content,
		ReceivedAt:   in.TransactionDate,
	}
	if err := s.paymentRepo.Insert(ctx, payment); err != nil {
		if errors.Is(err, domain.ErrDuplicatePayment) {
			s.log.Debug().Int64("tx_id", in.ProviderTxID).Msg("payment already recorded, skipping")
			return nil
		}
		metrics.PaymentsErrorsTotal.WithLabelValues("insert_failed").Inc()
		return fmt.Errorf("process payment: record transaction: %w", err)
	}

	// 7. Settle the order. MarkPaid carries its own unpaid guard.
	if err := s.orderRepo.MarkPaid(ctx, order.ID); err != nil {
		if errors.Is(err, domain.ErrOrderNotPayable) {
			return nil
		}
		metrics.PaymentsErrorsTotal.WithLabelValues("mark_paid_failed").Inc()
		return fmt.Errorf("process payment: mark paid: %w", err)
	}

	metrics.PaymentsProcessedTotal.WithLabelValues(in.Gateway).Inc()
	s.log.Info().
		Int64("tx_id", in.ProviderTxID).
		Str("reference", reference).
		Int64("amount_vnd", in.AmountVND).
		Str("gateway", in.Gateway).
		Msg("payment applied")

	return nil
}

// extractReference pulls the order reference out of the webhook payload,
// preferring the structured fields over the free-text content.
func extractReference(in ports.WebhookEventInput) string {
	for _, candidate := range []string{in.Code, in.ReferenceCode, in.Content, in.Description} {
		if m := referencePattern.FindStringSubmatch(candidate); m != nil {
			return "PM-" + m[1]
		}
	}
	return ""
}
