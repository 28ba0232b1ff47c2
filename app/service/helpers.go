package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

func generatePaymentID() string {
	return "pay_" + uuid.NewString()
}

func generateCustomerID() string {
	return "cus_" + uuid.NewString()
}

func generateAddressID() string {
	return "addr_" + uuid.NewString()
}

// coalesceString implements the merge policy used throughout confirmation:
// the request value wins when present, otherwise the stored value survives.
func coalesceString(request, stored *string) *string {
	if request != nil {
		return request
	}
	return stored
}

func rawMessageToStringPtr(raw json.RawMessage) *string {
	if len(raw) == 0 {
		return nil
	}
	s := string(raw)
	return &s
}

func cloneMetadata(src map[string]string) map[string]string {
	if len(src) == 0 {
		return map[string]string{}
	}
	dst := make(map[string]string, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func customerDetailsFromRequest(req *types.ConfirmPaymentRequest) *CustomerDetails {
	return &CustomerDetails{
		CustomerID: req.CustomerID,
		Name:       req.CustomerName,
		Email:      req.CustomerEmail,
		Phone:      req.CustomerPhone,
	}
}

// validateClientSecret checks a supplied client secret against the intent and
// rejects confirmations arriving after the fulfillment window closed.
func validateClientSecret(
	provided *string,
	intent *entity.PaymentIntent,
	window time.Duration,
	now time.Time,
) error {
	if provided == nil {
		return nil
	}
	if intent.ClientSecret == nil || *intent.ClientSecret != *provided {
		return fmt.Errorf("%w: client_secret does not match", ErrValidation)
	}
	if now.After(intent.CreatedAt.Add(window)) {
		return fmt.Errorf("%w: client_secret has expired", ErrNotAllowedInCurrentState)
	}
	return nil
}

// mandateResolution is the join result of token, payment-method, and mandate
// data derived from the request. It runs as its own fan-out task alongside
// the intent fetch.
type mandateResolution struct {
	Token             *string
	PaymentMethod     *string
	PaymentMethodType *string
	Mandate           *MandateDetails
}

func resolveMandateDetails(req *types.ConfirmPaymentRequest, mandateType types.MandateType) (*mandateResolution, error) {
	resolution := &mandateResolution{
		Token:             req.PaymentToken,
		PaymentMethod:     req.PaymentMethod,
		PaymentMethodType: req.PaymentMethodType,
	}

	if req.MandateData == nil {
		return resolution, nil
	}

	encoded, err := json.Marshal(req.MandateData)
	if err != nil {
		return nil, fmt.Errorf("%w: encode mandate data: %v", ErrInternal, err)
	}
	encodedStr := string(encoded)

	resolution.Mandate = &MandateDetails{
		Type:        mandateType,
		AmountCents: req.MandateData.AmountCents,
		Currency:    req.MandateData.Currency,
		Encoded:     &encodedStr,
	}
	return resolution, nil
}

// resolveAddress is the find-or-create used for both shipping and billing:
// request data plus an existing reference updates in place, request data
// alone inserts, a bare reference loads, neither resolves to nil. Calling it
// twice with the same inputs yields the same address id.
func (s *PaymentService) resolveAddress(
	ctx context.Context,
	details *types.AddressDetails,
	existingAddressID *string,
	merchantID string,
	customerID *string,
	paymentID string,
	mode types.ConsistencyMode,
	now time.Time,
) (*entity.Address, error) {
	switch {
	case details != nil && existingAddressID != nil:
		address, err := s.addressRepo.FindByAddressID(ctx, *existingAddressID, merchantID, mode)
		if err != nil {
			return nil, err
		}
		if address == nil {
			return nil, fmt.Errorf("%w: referenced address %s is missing", ErrInternal, *existingAddressID)
		}
		applyAddressDetails(address, details)
		if address.CustomerID == nil {
			address.CustomerID = customerID
		}
		address.UpdatedAt = now
		if err := s.addressRepo.Update(ctx, address); err != nil {
			return nil, err
		}
		return address, nil

	case details != nil:
		address := &entity.Address{
			AddressID:  generateAddressID(),
			MerchantID: merchantID,
			CustomerID: customerID,
			PaymentID:  &paymentID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		applyAddressDetails(address, details)
		if err := s.addressRepo.Insert(ctx, address); err != nil {
			return nil, err
		}
		return address, nil

	case existingAddressID != nil:
		address, err := s.addressRepo.FindByAddressID(ctx, *existingAddressID, merchantID, mode)
		if err != nil {
			return nil, err
		}
		if address == nil {
			return nil, fmt.Errorf("%w: referenced address %s is missing", ErrInternal, *existingAddressID)
		}
		return address, nil

	default:
		return nil, nil
	}
}

func applyAddressDetails(address *entity.Address, details *types.AddressDetails) {
	address.Line1 = optionalString(details.Line1, address.Line1)
	address.Line2 = optionalString(details.Line2, address.Line2)
	address.City = optionalString(details.City, address.City)
	address.State = optionalString(details.State, address.State)
	address.Zip = optionalString(details.Zip, address.Zip)
	address.Country = optionalString(details.Country, address.Country)
	address.FirstName = optionalString(details.FirstName, address.FirstName)
	address.LastName = optionalString(details.LastName, address.LastName)
	address.Phone = optionalString(details.Phone, address.Phone)
}

func optionalString(value string, stored *string) *string {
	if value == "" {
		return stored
	}
	v := value
	return &v
}

// additionalCardData is the redacted payment-method snapshot stored on the
// attempt. Full card data never touches the database.
type additionalCardData struct {
	Last4    string `json:"last4"`
	ExpMonth string `json:"exp_month"`
	ExpYear  string `json:"exp_year"`
}

type additionalPaymentMethodData struct {
	Card   *additionalCardData `json:"card,omitempty"`
	Wallet map[string]string   `json:"wallet,omitempty"`
}

func encodeAdditionalPaymentMethodData(data *types.PaymentMethodData) (*string, error) {
	if data == nil {
		return nil, nil
	}

	additional := additionalPaymentMethodData{Wallet: data.Wallet}
	if data.Card != nil {
		number := data.Card.Number
		last4 := number
		if len(number) > 4 {
			last4 = number[len(number)-4:]
		}
		additional.Card = &additionalCardData{
			Last4:    last4,
			ExpMonth: data.Card.ExpMonth,
			ExpYear:  data.Card.ExpYear,
		}
	}

	encoded, err := json.Marshal(additional)
	if err != nil {
		return nil, err
	}
	s := string(encoded)
	return &s, nil
}
