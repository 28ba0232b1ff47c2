package entity

import (
	"time"

	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// PaymentIntent is the durable, merchant-scoped record of a payment to be
// collected. There is at most one intent per (merchant_id, payment_id); it is
// never deleted, only status-transitioned.
type PaymentIntent struct {
	PaymentID  string
	MerchantID string

	Status      types.IntentStatus
	AmountCents int64
	Currency    string

	CustomerID        *string
	ShippingAddressID *string
	BillingAddressID  *string
	ActiveAttemptID   string

	ReturnURL        *string
	SetupFutureUsage *string
	ClientSecret     *string

	ConnectorMetadata *string
	OrderDetails      *string
	Metadata          map[string]string

	BusinessLabel   *string
	BusinessCountry *string

	Description               *string
	StatementDescriptorName   *string
	StatementDescriptorSuffix *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
