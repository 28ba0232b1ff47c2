package service

import (
	"fmt"
	"strings"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// ValidateRequest is the pure precondition stage: no I/O, no mutation. It
// either rejects the request or produces the ValidateResult the rest of the
// pipeline runs on.
func (op *confirmOperation) ValidateRequest(
	req *types.ConfirmPaymentRequest,
	merchant *entity.MerchantAccount,
) (*ValidateResult, error) {
	if err := validateCustomerDetailsInRequest(req); err != nil {
		return nil, err
	}

	if req.MerchantID != nil && *req.MerchantID != merchant.MerchantID {
		return nil, fmt.Errorf("%w: merchant_id does not match the merchant account", ErrValidation)
	}

	if err := validatePaymentMethodFields(req); err != nil {
		return nil, err
	}

	mandateType, err := validateMandate(req)
	if err != nil {
		return nil, err
	}

	paymentID := strings.TrimSpace(req.PaymentID)
	if paymentID == "" {
		paymentID = generatePaymentID()
	}

	mode := merchant.StorageMode
	if !mode.Valid() {
		mode = types.ConsistencyStrict
	}

	return &ValidateResult{
		MerchantID:  merchant.MerchantID,
		PaymentID:   paymentID,
		MandateType: mandateType,
		Mode:        mode,
		Requeue:     req.RetryAction != nil && types.RetryAction(*req.RetryAction) == types.RetryActionRequeue,
	}, nil
}

// A customer may be referenced by id or described inline, not both: the two
// shapes disagree about who owns the identity.
func validateCustomerDetailsInRequest(req *types.ConfirmPaymentRequest) error {
	if req.CustomerID != nil && req.HasInlineCustomerDetails() {
		return fmt.Errorf("%w: customer supplied both by id and inline", ErrValidation)
	}
	return nil
}

func validatePaymentMethodFields(req *types.ConfirmPaymentRequest) error {
	if req.PaymentMethod != nil && req.PaymentMethodData == nil && req.PaymentToken == nil {
		return fmt.Errorf("%w: payment_method given without payment_method_data or payment_token", ErrValidation)
	}
	if req.PaymentMethodData != nil && req.PaymentMethod == nil {
		return fmt.Errorf("%w: payment_method_data given without payment_method", ErrValidation)
	}
	return nil
}

func validateMandate(req *types.ConfirmPaymentRequest) (types.MandateType, error) {
	if req.MandateData == nil {
		return types.MandateTypeNone, nil
	}

	mandateType := types.MandateType(req.MandateData.Type)
	switch mandateType {
	case types.MandateTypeSingleUse:
		if req.MandateData.AmountCents == nil || *req.MandateData.AmountCents <= 0 {
			return types.MandateTypeNone, fmt.Errorf("%w: single_use mandate requires a positive amount", ErrValidation)
		}
	case types.MandateTypeMultiUse:
		if req.MandateData.AmountCents != nil && *req.MandateData.AmountCents <= 0 {
			return types.MandateTypeNone, fmt.Errorf("%w: multi_use mandate amount must be positive when given", ErrValidation)
		}
	default:
		return types.MandateTypeNone, fmt.Errorf("%w: mandate type must be single_use or multi_use", ErrValidation)
	}

	if req.MandateData.Currency != nil && len(*req.MandateData.Currency) != 3 {
		return types.MandateTypeNone, fmt.Errorf("%w: mandate currency must be 3 letters", ErrValidation)
	}

	return mandateType, nil
}

func validateCardData(data *types.PaymentMethodData) error {
	if data == nil || data.Card == nil {
		return nil
	}

	card := data.Card
	number := strings.TrimSpace(card.Number)
	if len(number) < 12 || len(number) > 19 {
		return fmt.Errorf("%w: card number length is invalid", ErrValidation)
	}
	for _, r := range number {
		if r < '0' || r > '9' {
			return fmt.Errorf("%w: card number must be numeric", ErrValidation)
		}
	}
	if strings.TrimSpace(card.ExpMonth) == "" || strings.TrimSpace(card.ExpYear) == "" {
		return fmt.Errorf("%w: card expiry is required", ErrValidation)
	}
	return nil
}

// Shipping, billing, and setup-future-usage all hang payment data off a
// customer record, so a customer id must resolve when any of them is given.
func validateCustomerIDMandatoryCases(hasShipping, hasBilling, hasSetupFutureUsage bool, customerID *string) error {
	if (hasShipping || hasBilling || hasSetupFutureUsage) && customerID == nil {
		return fmt.Errorf("%w: customer_id is required when shipping, billing, or setup_future_usage is set", ErrValidation)
	}
	return nil
}
