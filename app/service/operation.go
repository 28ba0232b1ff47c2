package service

import (
	"context"
	"fmt"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// The payment pipeline runs every operation through the same four stages:
// validate the request, load and fan-in the stored trackers, resolve domain
// data, then commit the status transition. Each operation kind implements the
// stage interfaces; the flow type selects which implementation runs.

type FlowType string

const FlowConfirm FlowType = "confirm"

// ValidateResult is what the validation stage hands to the rest of the
// pipeline. Producing it performs no I/O.
type ValidateResult struct {
	MerchantID  string
	PaymentID   string
	MandateType types.MandateType
	Mode        types.ConsistencyMode
	Requeue     bool
}

// CustomerDetails carries inline customer fields lifted off the request.
type CustomerDetails struct {
	CustomerID *string
	Name       *string
	Email      *string
	Phone      *string
}

func (d *CustomerDetails) hasInline() bool {
	return d != nil && (d.Name != nil || d.Email != nil || d.Phone != nil)
}

type RequestValidator interface {
	ValidateRequest(req *types.ConfirmPaymentRequest, merchant *entity.MerchantAccount) (*ValidateResult, error)
}

type TrackerLoader interface {
	LoadTrackers(
		ctx context.Context,
		validated *ValidateResult,
		req *types.ConfirmPaymentRequest,
		merchant *entity.MerchantAccount,
	) (*PaymentData, *CustomerDetails, error)
}

type DomainResolver interface {
	ResolveCustomer(ctx context.Context, paymentData *PaymentData, details *CustomerDetails) (*entity.Customer, bool, error)
	ResolvePaymentMethod(ctx context.Context, paymentData *PaymentData) error
	ResolveConnector(
		ctx context.Context,
		merchant *entity.MerchantAccount,
		req *types.ConfirmPaymentRequest,
		paymentData *PaymentData,
	) error
}

type TrackerUpdater interface {
	PersistTrackers(
		ctx context.Context,
		paymentData *PaymentData,
		customer *entity.Customer,
		updateCustomer bool,
	) (*PaymentData, error)
}

type Operation interface {
	RequestValidator
	TrackerLoader
	DomainResolver
	TrackerUpdater
}

func (s *PaymentService) operationFor(flow FlowType) (Operation, error) {
	switch flow {
	case FlowConfirm:
		return &confirmOperation{svc: s}, nil
	default:
		return nil, fmt.Errorf("%w: unknown flow %q", ErrInternal, flow)
	}
}
