package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/pickmeapp/pickme-api/internal/core/domain"
	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

func payableOrder(orderRepo *stubOrderRepo) *domain.Order {
	o := &domain.Order{
		ID:            "order-1",
		Reference:     "PM-AABBCCDD",
		UserID:        "cust-1",
		RestaurantID:  "rest-1",
		TotalVND:      135000,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentUnpaid,
	}
	orderRepo.byID[o.ID] = o
	return o
}

func webhookEvent(amount int64, content string) ports.WebhookEventInput {
	return ports.WebhookEventInput{
		ProviderTxID:    92704,
		Gateway:         "Vietcombank",
		TransactionDate: time.Now().UTC(),
		AccountNumber:   "0123499999",
		TransferType:    domain.TransferIn,
		AmountVND:       amount,
		Content:         content,
	}
}

func TestPaymentService_Process_HappyPath(t *testing.T) {
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)
	payRepo := &stubPaymentRepo{}
	dedup := &stubDedup{}

	svc := NewPaymentService(orderRepo, payRepo, dedup, zerolog.Nop())
	err := svc.Process(context.Background(), webhookEvent(135000, "thanh toan PM-AABBCCDD"))
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	if len(payRepo.inserted) != 1 {
		t.Fatalf("expected one payment recorded, got %d", len(payRepo.inserted))
	}
	if payRepo.inserted[0].Reference != "PM-AABBCCDD" {
		t.Errorf("unexpected reference: %q", payRepo.inserted[0].Reference)
	}
	if len(orderRepo.paid) != 1 || orderRepo.paid[0] != "order-1" {
		t.Errorf("expected order marked paid, got: %v", orderRepo.paid)
	}
	if len(dedup.marked) != 1 {
		t.Errorf("expected dedup key marked")
	}
}

func TestPaymentService_Process_ReferenceWithoutHyphen(t *testing.T) {
	// Banks strip punctuation from transfer content.
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)
	payRepo := &stubPaymentRepo{}

	svc := NewPaymentService(orderRepo, payRepo, &stubDedup{}, zerolog.Nop())
	err := svc.Process(context.Background(), webhookEvent(135000, "PMAABBCCDD chuyen khoan"))
	if err != nil {
		t.Fatalf("expected hyphen-less reference to match, got: %v", err)
	}
	if len(orderRepo.paid) != 1 {
		t.Error("expected order settled")
	}
}

func TestPaymentService_Process_DuplicateSkipped(t *testing.T) {
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)
	payRepo := &stubPaymentRepo{}
	dedup := &stubDedup{dupResult: true}

	svc := NewPaymentService(orderRepo, payRepo, dedup, zerolog.Nop())
	err := svc.Process(context.Background(), webhookEvent(135000, "PM-AABBCCDD"))
	if err != nil {
		t.Fatalf("expected duplicate to be a no-op, got: %v", err)
	}
	if len(payRepo.inserted) != 0 || len(orderRepo.paid) != 0 {
		t.Error("duplicate webhook must not touch storage")
	}
}

func TestPaymentService_Process_OutboundIgnored(t *testing.T) {
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)
	payRepo := &stubPaymentRepo{}

	ev := webhookEvent(135000, "PM-AABBCCDD")
	ev.TransferType = domain.TransferOut

	svc := NewPaymentService(orderRepo, payRepo, &stubDedup{}, zerolog.Nop())
	if err := svc.Process(context.Background(), ev); err != nil {
		t.Fatalf("expected outbound transfer to be ignored, got: %v", err)
	}
	if len(payRepo.inserted) != 0 || len(orderRepo.paid) != 0 {
		t.Error("outbound transfer must not settle anything")
	}
}

func TestPaymentService_Process_NoReference(t *testing.T) {
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)

	svc := NewPaymentService(orderRepo, &stubPaymentRepo{}, &stubDedup{}, zerolog.Nop())
	err := svc.Process(context.Background(), webhookEvent(135000, "chuyen tien an trua"))
	if !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for missing reference, got: %v", err)
	}
}

func TestPaymentService_Process_AmountTooLow(t *testing.T) {
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)

	svc := NewPaymentService(orderRepo, &stubPaymentRepo{}, &stubDedup{}, zerolog.Nop())
	err := svc.Process(context.Background(), webhookEvent(100000, "PM-AABBCCDD"))
	if !errors.Is(err, domain.ErrAmountMismatch) {
		t.Fatalf("expected ErrAmountMismatch, got: %v", err)
	}
	if len(orderRepo.paid) != 0 {
		t.Error("underpaid order must stay unpaid")
	}
}

func TestPaymentService_Process_Overpayment_Settles(t *testing.T) {
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)

	svc := NewPaymentService(orderRepo, &stubPaymentRepo{}, &stubDedup{}, zerolog.Nop())
	if err := svc.Process(context.Background(), webhookEvent(150000, "PM-AABBCCDD")); err != nil {
		t.Fatalf("expected overpayment to settle, got: %v", err)
	}
	if len(orderRepo.paid) != 1 {
		t.Error("expected order marked paid")
	}
}

func TestPaymentService_Process_NotPayable(t *testing.T) {
	orderRepo := newStubOrderRepo()
	o := payableOrder(orderRepo)
	o.Status = domain.OrderCancelled

	svc := NewPaymentService(orderRepo, &stubPaymentRepo{}, &stubDedup{}, zerolog.Nop())
	err := svc.Process(context.Background(), webhookEvent(135000, "PM-AABBCCDD"))
	if !errors.Is(err, domain.ErrOrderNotPayable) {
		t.Fatalf("expected ErrOrderNotPayable for cancelled order, got: %v", err)
	}
}

func TestPaymentService_Process_AlreadyRecorded_NoError(t *testing.T) {
	// Redis mark expired but the payment row survived: replay must be a no-op.
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)
	payRepo := &stubPaymentRepo{insertErr: domain.ErrDuplicatePayment}

	svc := NewPaymentService(orderRepo, payRepo, &stubDedup{}, zerolog.Nop())
	if err := svc.Process(context.Background(), webhookEvent(135000, "PM-AABBCCDD")); err != nil {
		t.Fatalf("expected replay to be a no-op, got: %v", err)
	}
	if len(orderRepo.paid) != 0 {
		t.Error("replay must not re-settle the order")
	}
}

func TestPaymentService_Process_DedupErrorProcessesAnyway(t *testing.T) {
	orderRepo := newStubOrderRepo()
	payableOrder(orderRepo)
	payRepo := &stubPaymentRepo{}
	dedup := &stubDedup{dupErr: errors.New("redis down")}

	svc := NewPaymentService(orderRepo, payRepo, dedup, zerolog.Nop())
	if err := svc.Process(context.Background(), webhookEvent(135000, "PM-AABBCCDD")); err != nil {
		t.Fatalf("expected processing despite dedup outage, got: %v", err)
	}
	if len(orderRepo.paid) != 1 {
		t.Error("expected settlement to proceed on dedup outage")
	}
}

func TestExtractReference_FieldPriority(t *testing.T) {
	in := ports.WebhookEventInput{
		Code:          "PM-11111111",
		ReferenceCode: "PM-22222222",
		Content:       "PM-33333333",
	}
	if got := extractReference(in); got != "PM-11111111" {
		t.Errorf("expected code field to win, got %q", got)
	}

	in.Code = ""
	if got := extractReference(in); got != "PM-22222222" {
		t.Errorf("expected reference code next, got %q", got)
	}
}
