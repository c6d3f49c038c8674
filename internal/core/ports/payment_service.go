package ports

import (
	"context"
	"time"
)

// WebhookEventInput is the DTO carrying one SePay transaction notification
// from the transport layer to the payment service.
type WebhookEventInput struct {
	ProviderTxID    int64
	Gateway         string
	TransactionDate time.Time
	AccountNumber   string
	TransferType    string // "in" | "out"
	AmountVND       int64
	Code            string // bank-extracted payment code, may be empty
	Content         string // free-text transfer content
	ReferenceCode   string
	Description     string
}

// PaymentService processes incoming payment notifications. Process must be
// idempotent under redelivery: the provider retries until it sees a 2xx.
type PaymentService interface {
	Process(ctx context.Context, in WebhookEventInput) error
}
