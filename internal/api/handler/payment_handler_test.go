package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/pickmeapp/pickme-api/internal/core/ports"
)

type stubDispatcher struct {
	events []ports.WebhookEventInput
}

func (s *stubDispatcher) Enqueue(event ports.WebhookEventInput) {
	s.events = append(s.events, event)
}

const webhookBody = `{
	"id": 92704,
	"gateway": "Vietcombank",
	"transactionDate": "2024-05-25 21:11:02",
	"accountNumber": "0123499999",
	"transferType": "in",
	"transferAmount": 135000,
	"code": "PM-AABBCCDD",
	"content": "PM-AABBCCDD chuyen tien",
	"referenceCode": "MBVCB.3278907687"
}`

func newWebhookContext(t *testing.T, body, authorization string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/sepay/webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestPaymentHandler_Webhook_Accepted(t *testing.T) {
	stub := &stubDispatcher{}
	h := NewPaymentHandler(stub, "hook-secret")

	c, rec := newWebhookContext(t, webhookBody, "Apikey hook-secret")
	if err := h.Webhook(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["message"] != "accepted" {
		t.Fatalf("unexpected body: %v", resp)
	}

	if len(stub.events) != 1 {
		t.Fatalf("expected 1 enqueued event, got %d", len(stub.events))
	}
	ev := stub.events[0]
	if ev.ProviderTxID != 92704 || ev.AmountVND != 135000 || ev.Code != "PM-AABBCCDD" {
		t.Fatalf("event not mapped from payload: %+v", ev)
	}
	if ev.TransactionDate.IsZero() {
		t.Fatal("transaction date not parsed")
	}
}

func TestPaymentHandler_Webhook_BadKey(t *testing.T) {
	stub := &stubDispatcher{}
	h := NewPaymentHandler(stub, "hook-secret")

	for name, header := range map[string]string{
		"wrong key":    "Apikey not-the-secret",
		"wrong scheme": "Bearer hook-secret",
		"missing":      "",
	} {
		c, _ := newWebhookContext(t, webhookBody, header)
		err := h.Webhook(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %v", name, err)
		}
	}
	if len(stub.events) != 0 {
		t.Fatalf("rejected requests should not enqueue, got %d", len(stub.events))
	}
}

func TestPaymentHandler_Webhook_NoConfiguredKey(t *testing.T) {
	// With no key configured the endpoint refuses everything rather than
	// accepting unauthenticated notifications.
	h := NewPaymentHandler(&stubDispatcher{}, "")

	c, _ := newWebhookContext(t, webhookBody, "Apikey ")
	err := h.Webhook(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestPaymentHandler_Webhook_InvalidPayload(t *testing.T) {
	stub := &stubDispatcher{}
	h := NewPaymentHandler(stub, "hook-secret")

	// transferType outside in/out fails validation.
	body := strings.Replace(webhookBody, `"in"`, `"sideways"`, 1)
	c, _ := newWebhookContext(t, body, "Apikey hook-secret")
	err := h.Webhook(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %v", err)
	}
	if len(stub.events) != 0 {
		t.Fatal("invalid payload must not be enqueued")
	}
}
