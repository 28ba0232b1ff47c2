package mapper

import (
	"time"

	"github.com/vibast-solutions/ms-go-payment-core/app/service"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

func PaymentToResponse(item *service.PaymentData) *types.PaymentResponse {
	if item == nil || item.Intent == nil {
		return nil
	}

	intent := item.Intent
	return &types.PaymentResponse{
		PaymentID:         intent.PaymentID,
		MerchantID:        intent.MerchantID,
		Status:            intent.Status,
		AmountCents:       intent.AmountCents,
		Currency:          intent.Currency,
		CustomerID:        derefString(intent.CustomerID),
		ShippingAddressID: derefString(intent.ShippingAddressID),
		BillingAddressID:  derefString(intent.BillingAddressID),
		ReturnURL:         derefString(intent.ReturnURL),
		Attempt:           attemptToResponse(item),
		NewCustomer:       item.NewCustomer,
		CreatedAt:         intent.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         intent.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func attemptToResponse(item *service.PaymentData) *types.AttemptResponse {
	attempt := item.Attempt
	if attempt == nil {
		return nil
	}

	return &types.AttemptResponse{
		AttemptID:         attempt.AttemptID,
		Status:            attempt.Status,
		AmountCents:       attempt.AmountCents,
		Currency:          attempt.Currency,
		PaymentMethod:     derefString(attempt.PaymentMethod),
		PaymentMethodType: derefString(attempt.PaymentMethodType),
		Connector:         derefString(attempt.Connector),
		ErrorCode:         derefString(attempt.ErrorCode),
		ErrorMessage:      derefString(attempt.ErrorMessage),
		CapturableCents:   attempt.CapturableCents,
	}
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
