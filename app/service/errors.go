package service

import "errors"

var (
	ErrValidation               = errors.New("invalid confirmation request")
	ErrNotAllowedInCurrentState = errors.New("operation not allowed in current payment state")
	ErrPaymentNotFound          = errors.New("payment not found")
	ErrPaymentMethodNotFound    = errors.New("payment method not found")
	ErrConnectorUnsupported     = errors.New("connector is not supported")
	ErrMerchantNotFound         = errors.New("merchant account not found")
	ErrInternal                 = errors.New("internal server error")
)
