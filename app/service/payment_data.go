package service

import (
	"context"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// MandateDetails is the ephemeral resolution of mandate data from the request
// and the stored attempt. It is never persisted directly; the encoded form
// folds into the attempt at commit time.
type MandateDetails struct {
	Type        types.MandateType
	AmountCents *int64
	Currency    *string
	Encoded     *string
}

type FraudAssessment struct {
	Suggestion types.FraudSuggestion
	Status     string
	Reason     *string
}

// FraudAdvisor is the fraud-prevention collaborator consulted before the
// status transition is committed. A nil advisor means no fraud screening.
type FraudAdvisor interface {
	Assess(ctx context.Context, paymentData *PaymentData) (*FraudAssessment, error)
}

// PaymentData is the working record that flows through the pipeline stages.
// It is owned exclusively by the executing invocation; fan-out tasks receive
// copies of the inputs they need and never alias this struct.
type PaymentData struct {
	Intent            *entity.PaymentIntent
	Attempt           *entity.PaymentAttempt
	ConnectorResponse *entity.ConnectorResponse

	ShippingAddress *entity.Address
	BillingAddress  *entity.Address

	Token             *string
	Mandate           *MandateDetails
	PaymentMethodData *types.PaymentMethodData
	CredsIdentifier   *string

	AmountCents int64
	Currency    string
	Mode        types.ConsistencyMode

	NewCustomer bool
	Fraud       *FraudAssessment
}
