package entity

import (
	"time"

	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// PaymentAttempt is one concrete try at executing an intent against a
// connector. Every attempt belongs to exactly one intent; the intent's
// active-attempt pointer always references an existing attempt.
type PaymentAttempt struct {
	AttemptID  string
	PaymentID  string
	MerchantID string

	Status      types.AttemptStatus
	AmountCents int64
	Currency    string

	PaymentMethod     *string
	PaymentMethodType *string
	PaymentMethodData *string
	PaymentToken      *string

	Connector          *string
	AuthenticationType *string
	BrowserInfo        *string

	ErrorCode    *string
	ErrorMessage *string

	CapturableCents int64
	MandateDetails  *string

	BusinessSubLabel         *string
	PaymentExperience        *string
	CaptureMethod            *string
	StraightThroughAlgorithm *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
