package types

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
)

type AddressDetails struct {
	Line1     string `json:"line1,omitempty"`
	Line2     string `json:"line2,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	Zip       string `json:"zip,omitempty"`
	Country   string `json:"country,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type CardData struct {
	Number     string `json:"number"`
	ExpMonth   string `json:"exp_month"`
	ExpYear    string `json:"exp_year"`
	HolderName string `json:"holder_name,omitempty"`
	CVC        string `json:"cvc,omitempty"`
}

type PaymentMethodData struct {
	Card   *CardData         `json:"card,omitempty"`
	Wallet map[string]string `json:"wallet,omitempty"`
}

type MandateData struct {
	Type        string  `json:"type"`
	AmountCents *int64  `json:"amount_cents,omitempty"`
	Currency    *string `json:"currency,omitempty"`
	StartDate   *string `json:"start_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
}

type MerchantConnectorDetails struct {
	CredsIdentifier string `json:"creds_identifier"`
	EncodedData     string `json:"encoded_data"`
}

// ConfirmPaymentRequest carries the client's final payment details for an
// existing intent. Optional fields use pointers: nil means "keep the stored
// value", a non-nil value wins over whatever the intent/attempt already holds.
type ConfirmPaymentRequest struct {
	PaymentID  string  `json:"payment_id"`
	MerchantID *string `json:"merchant_id,omitempty"`

	AmountCents *int64  `json:"amount_cents,omitempty"`
	Currency    *string `json:"currency,omitempty"`

	CustomerID    *string `json:"customer_id,omitempty"`
	CustomerName  *string `json:"customer_name,omitempty"`
	CustomerEmail *string `json:"customer_email,omitempty"`
	CustomerPhone *string `json:"customer_phone,omitempty"`

	PaymentMethod     *string            `json:"payment_method,omitempty"`
	PaymentMethodType *string            `json:"payment_method_type,omitempty"`
	PaymentMethodData *PaymentMethodData `json:"payment_method_data,omitempty"`
	PaymentToken      *string            `json:"payment_token,omitempty"`

	Shipping *AddressDetails `json:"shipping,omitempty"`
	Billing  *AddressDetails `json:"billing,omitempty"`

	MandateData      *MandateData `json:"mandate_data,omitempty"`
	SetupFutureUsage *string      `json:"setup_future_usage,omitempty"`

	Connector       *string `json:"connector,omitempty"`
	RoutingOverride *string `json:"routing,omitempty"`

	MerchantConnectorDetails *MerchantConnectorDetails `json:"merchant_connector_details,omitempty"`

	BrowserInfo       json.RawMessage   `json:"browser_info,omitempty"`
	ReturnURL         *string           `json:"return_url,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	OrderDetails      json.RawMessage   `json:"order_details,omitempty"`
	BusinessSubLabel  *string           `json:"business_sub_label,omitempty"`
	PaymentExperience *string           `json:"payment_experience,omitempty"`
	CaptureMethod     *string           `json:"capture_method,omitempty"`

	RetryAction  *string `json:"retry_action,omitempty"`
	ClientSecret *string `json:"client_secret,omitempty"`
}

func NewConfirmPaymentRequestFromContext(ctx echo.Context) (*ConfirmPaymentRequest, error) {
	var body ConfirmPaymentRequest
	if err := ctx.Bind(&body); err != nil {
		return nil, err
	}

	body.PaymentID = strings.TrimSpace(ctx.Param("id"))
	if body.Currency != nil {
		upper := strings.ToUpper(strings.TrimSpace(*body.Currency))
		body.Currency = &upper
	}
	return &body, nil
}

func (r *ConfirmPaymentRequest) Validate() error {
	if strings.TrimSpace(r.PaymentID) == "" {
		return errors.New("payment id is required")
	}
	if r.AmountCents != nil && *r.AmountCents <= 0 {
		return errors.New("amount_cents must be > 0")
	}
	if r.Currency != nil && len(*r.Currency) != 3 {
		return errors.New("currency must be 3 letters")
	}
	if r.RetryAction != nil {
		switch RetryAction(*r.RetryAction) {
		case RetryActionManualRetry, RetryActionRequeue:
		default:
			return errors.New("retry_action must be manual_retry or requeue")
		}
	}
	return nil
}

// HasInlineCustomerDetails reports whether the request carries any inline
// customer fields alongside (or instead of) a customer_id reference.
func (r *ConfirmPaymentRequest) HasInlineCustomerDetails() bool {
	return r.CustomerName != nil || r.CustomerEmail != nil || r.CustomerPhone != nil
}

type GetPaymentRequest struct {
	PaymentID string
}

func NewGetPaymentRequestFromContext(ctx echo.Context) (*GetPaymentRequest, error) {
	id := strings.TrimSpace(ctx.Param("id"))
	if id == "" {
		return nil, errors.New("payment id is required")
	}
	return &GetPaymentRequest{PaymentID: id}, nil
}

type AttemptResponse struct {
	AttemptID         string            `json:"attempt_id"`
	Status            AttemptStatus     `json:"status"`
	AmountCents       int64             `json:"amount_cents"`
	Currency          string            `json:"currency"`
	PaymentMethod     string            `json:"payment_method,omitempty"`
	PaymentMethodType string            `json:"payment_method_type,omitempty"`
	Connector         string            `json:"connector,omitempty"`
	ErrorCode         string            `json:"error_code,omitempty"`
	ErrorMessage      string            `json:"error_message,omitempty"`
	CapturableCents   int64             `json:"capturable_cents"`
}

type PaymentResponse struct {
	PaymentID         string           `json:"payment_id"`
	MerchantID        string           `json:"merchant_id"`
	Status            IntentStatus     `json:"status"`
	AmountCents       int64            `json:"amount_cents"`
	Currency          string           `json:"currency"`
	CustomerID        string           `json:"customer_id,omitempty"`
	ShippingAddressID string           `json:"shipping_address_id,omitempty"`
	BillingAddressID  string           `json:"billing_address_id,omitempty"`
	ReturnURL         string           `json:"return_url,omitempty"`
	Attempt           *AttemptResponse `json:"attempt,omitempty"`
	NewCustomer       bool             `json:"new_customer,omitempty"`
	CreatedAt         string           `json:"created_at"`
	UpdatedAt         string           `json:"updated_at"`
}

type PaymentEnvelopeResponse struct {
	Payment *PaymentResponse `json:"payment"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type DeepHealthResponse struct {
	Database string `json:"database"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
