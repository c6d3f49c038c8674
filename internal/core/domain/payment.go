package domain

import (
	"errors"
	"time"
)

const (
	TransferIn  = "in"
	TransferOut = "out"
)

var ErrDuplicatePayment = errors.New("payment already recorded")
var ErrPaymentNotFound = errors.New("payment not found")

// Payment is one bank transaction reported by the SePay webhook, keyed by the
// provider-assigned transaction id. The unique key makes redelivery a no-op
// even when the Redis dedup mark has expired.
type Payment struct {
	ID           string    `json:"id" db:"id"`
	ProviderTxID int64     `json:"provider_tx_id" db:"provider_tx_id"`
	OrderID      string    `json:"order_id" db:"order_id"`
	Gateway      string    `json:"gateway" db:"gateway"`
	AmountVND    int64     `json:"amount_vnd" db:"amount_vnd"`
	TransferType string    `json:"transfer_type" db:"transfer_type"`
	Reference    string    `json:"reference" db:"reference"`
	Content      string    `json:"content,omitempty" db:"content"`
	ReceivedAt   time.Time `json:"received_at" db:"received_at"`
}
