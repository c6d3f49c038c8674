package handler

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pickmeapp/pickme-api/internal/core/ports"
	"github.com/pickmeapp/pickme-api/internal/metrics"
)

// PaymentDispatcher is the interface the handler uses to enqueue webhook
// events for asynchronous processing.
type PaymentDispatcher interface {
	Enqueue(event ports.WebhookEventInput)
}

// PaymentHandler handles SePay webhook ingestion. The path is bypass-listed
// at the authentication gate, so the handler authenticates the caller itself
// with the provider's shared API key.
type PaymentHandler struct {
	dispatcher PaymentDispatcher
	apiKey     string
}

func NewPaymentHandler(dispatcher PaymentDispatcher, apiKey string) *PaymentHandler {
	return &PaymentHandler{dispatcher: dispatcher, apiKey: apiKey}
}

// sepayWebhookRequest mirrors the SePay notification payload.
type sepayWebhookRequest struct {
	ID              int64  `json:"id"             validate:"required"`
	Gateway         string `json:"gateway"        validate:"required"`
	TransactionDate string `json:"transactionDate"`
	AccountNumber   string `json:"accountNumber"`
	TransferType    string `json:"transferType"   validate:"required,oneof=in out"`
	TransferAmount  int64  `json:"transferAmount" validate:"required,gt=0"`
	Code            string `json:"code"`
	Content         string `json:"content"`
	ReferenceCode   string `json:"referenceCode"`
	Description     string `json:"description"`
}

// Webhook handles POST /api/payments/sepay/webhook: acks fast, processes async.
//
// @Summary      SePay payment notification
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        Authorization  header    string               true  "Apikey <shared secret>"
// @Param        body           body      sepayWebhookRequest  true  "Transaction notification"
// @Success      200            {object}  messageResponse
// @Failure      401            {object}  map[string]any
// @Failure      422            {object}  map[string]any
// @Router       /api/payments/sepay/webhook [post]
func (h *PaymentHandler) Webhook(c echo.Context) error {
	if !h.authorized(c.Request().Header.Get("Authorization")) {
		metrics.WebhookRejectedTotal.WithLabelValues("bad_key").Inc()
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid api key")
	}

	var req sepayWebhookRequest
	if err := c.Bind(&req); err != nil {
		metrics.WebhookRejectedTotal.WithLabelValues("bad_payload").Inc()
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		metrics.WebhookRejectedTotal.WithLabelValues("bad_payload").Inc()
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	h.dispatcher.Enqueue(toWebhookInput(req))

	// 200 stops provider retries; processing failures are surfaced via logs
	// and metrics, and redelivery of the same tx id is a no-op anyway.
	return c.JSON(http.StatusOK, messageResponse{Message: "accepted"})
}

// authorized compares the provider's shared key in constant time.
// SePay sends "Authorization: Apikey <key>".
func (h *PaymentHandler) authorized(header string) bool {
	if h.apiKey == "" {
		return false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "apikey") {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(parts[1]), []byte(h.apiKey)) == 1
}

// toWebhookInput maps the HTTP request to the service DTO.
func toWebhookInput(r sepayWebhookRequest) ports.WebhookEventInput {
	in := ports.WebhookEventInput{
		ProviderTxID:  r.ID,
		Gateway:       r.Gateway,
		AccountNumber: r.AccountNumber,
		TransferType:  r.TransferType,
		AmountVND:     r.TransferAmount,
		Code:          r.Code,
		Content:       r.Content,
		ReferenceCode: r.ReferenceCode,
		Description:   r.Description,
	}
	// SePay formats the transaction date without a zone, local bank time.
	if ts, err := time.Parse("2006-01-02 15:04:05", r.TransactionDate); err == nil {
		in.TransactionDate = ts
	} else {
		in.TransactionDate = time.Now().UTC()
	}
	return in
}
