package types

import (
	"bytes"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNewConfirmPaymentRequestFromContextUsesPathParam(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest("POST", "/payments/pay_1/confirm", bytes.NewBufferString(`{"payment_id":"ignored","currency":"usd","amount_cents":1999}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	ctx := e.NewContext(req, rec)
	ctx.SetParamNames("id")
	ctx.SetParamValues("pay_1")

	parsed, err := NewConfirmPaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.PaymentID != "pay_1" {
		t.Fatalf("expected path payment id, got %q", parsed.PaymentID)
	}
	if parsed.Currency == nil || *parsed.Currency != "USD" {
		t.Fatalf("expected upper-cased currency, got %v", parsed.Currency)
	}
}

func TestConfirmPaymentRequestValidate(t *testing.T) {
	req := &ConfirmPaymentRequest{}
	if err := req.Validate(); err == nil {
		t.Fatal("expected payment id validation error")
	}

	amount := int64(-5)
	req = &ConfirmPaymentRequest{PaymentID: "pay_1", AmountCents: &amount}
	if err := req.Validate(); err == nil {
		t.Fatal("expected amount validation error")
	}

	currency := "EURO"
	req = &ConfirmPaymentRequest{PaymentID: "pay_1", Currency: &currency}
	if err := req.Validate(); err == nil {
		t.Fatal("expected currency validation error")
	}

	action := "immediate"
	req = &ConfirmPaymentRequest{PaymentID: "pay_1", RetryAction: &action}
	if err := req.Validate(); err == nil {
		t.Fatal("expected retry action validation error")
	}

	valid := "requeue"
	eur := "EUR"
	ok := int64(1000)
	req = &ConfirmPaymentRequest{PaymentID: "pay_1", RetryAction: &valid, Currency: &eur, AmountCents: &ok}
	if err := req.Validate(); err != nil {
		t.Fatalf("expected valid request, got %v", err)
	}
}

func TestHasInlineCustomerDetails(t *testing.T) {
	req := &ConfirmPaymentRequest{PaymentID: "pay_1"}
	if req.HasInlineCustomerDetails() {
		t.Fatal("expected no inline details")
	}

	email := "ada@example.com"
	req.CustomerEmail = &email
	if !req.HasInlineCustomerDetails() {
		t.Fatal("expected inline details with email set")
	}
}

func TestNewGetPaymentRequestFromContext(t *testing.T) {
	e := echo.New()
	ctx := e.NewContext(httptest.NewRequest("GET", "/payments/pay_1", nil), httptest.NewRecorder())
	ctx.SetParamNames("id")
	ctx.SetParamValues("pay_1")

	parsed, err := NewGetPaymentRequestFromContext(ctx)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if parsed.PaymentID != "pay_1" {
		t.Fatalf("unexpected payment id: %q", parsed.PaymentID)
	}

	empty := e.NewContext(httptest.NewRequest("GET", "/payments/", nil), httptest.NewRecorder())
	if _, err := NewGetPaymentRequestFromContext(empty); err == nil {
		t.Fatal("expected error for missing payment id")
	}
}
