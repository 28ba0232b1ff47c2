package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/repository"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// confirmOperation implements the full confirmation pipeline. It holds no
// state of its own; everything flows through PaymentData.
type confirmOperation struct {
	svc *PaymentService
}

// LoadTrackers fetches the stored records for the payment and folds the
// request on top of them. Independent fetches fan out; the first failure
// aborts the join but never the sibling in-flight calls.
func (op *confirmOperation) LoadTrackers(
	ctx context.Context,
	validated *ValidateResult,
	req *types.ConfirmPaymentRequest,
	merchant *entity.MerchantAccount,
) (*PaymentData, *CustomerDetails, error) {
	s := op.svc
	now := time.Now().UTC()
	mode := validated.Mode

	var (
		intent     *entity.PaymentIntent
		resolution *mandateResolution
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		intent, err = s.intentRepo.FindByPaymentIDMerchantID(ctx, validated.PaymentID, validated.MerchantID, mode)
		return err
	})
	g.Go(func() error {
		var err error
		resolution, err = resolveMandateDetails(req, validated.MandateType)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if intent == nil {
		return nil, nil, ErrPaymentNotFound
	}
	if !types.CanConfirm(intent.Status) {
		return nil, nil, fmt.Errorf("%w: payment is %s", ErrNotAllowedInCurrentState, intent.Status)
	}
	if err := validateClientSecret(req.ClientSecret, intent, s.fulfillmentWindow(merchant), now); err != nil {
		return nil, nil, err
	}

	kind := decideAttemptKind(intent, req)
	customerID := coalesceString(req.CustomerID, intent.CustomerID)

	var (
		attempt         *entity.PaymentAttempt
		shipping        *entity.Address
		billing         *entity.Address
		connResp        *entity.ConnectorResponse
		credsIdentifier *string
	)

	var fetch errgroup.Group
	fetch.Go(func() error {
		var err error
		attempt, err = s.attemptRepo.FindByAttemptID(ctx, intent.PaymentID, intent.MerchantID, intent.ActiveAttemptID, mode)
		if err != nil {
			return err
		}
		if attempt == nil {
			return ErrPaymentNotFound
		}
		return nil
	})
	fetch.Go(func() error {
		var err error
		shipping, err = s.resolveAddress(ctx, req.Shipping, intent.ShippingAddressID, intent.MerchantID, customerID, intent.PaymentID, mode, now)
		return err
	})
	fetch.Go(func() error {
		var err error
		billing, err = s.resolveAddress(ctx, req.Billing, intent.BillingAddressID, intent.MerchantID, customerID, intent.PaymentID, mode, now)
		return err
	})
	if details := req.MerchantConnectorDetails; details != nil {
		credsIdentifier = &details.CredsIdentifier
		fetch.Go(func() error {
			return s.configRepo.Upsert(ctx, &entity.MerchantConfig{
				Key:         entity.MerchantConfigKey(intent.MerchantID, details.CredsIdentifier),
				Credentials: details.EncodedData,
				UpdatedAt:   now,
			})
		})
	}
	if kind == attemptSameOld {
		fetch.Go(func() error {
			var err error
			connResp, err = s.connRespRepo.FindByAttemptID(ctx, intent.PaymentID, intent.MerchantID, intent.ActiveAttemptID, mode)
			return err
		})
	}
	if err := fetch.Wait(); err != nil {
		return nil, nil, err
	}

	if kind == attemptNew {
		fresh, err := s.createNewAttempt(ctx, intent, attempt, mode, now)
		if err != nil {
			return nil, nil, err
		}
		attempt = fresh
	}
	if connResp == nil {
		var err error
		connResp, err = s.getOrInsertConnectorResponse(ctx, attempt, mode, now)
		if err != nil {
			return nil, nil, err
		}
	}

	if err := validateCardData(req.PaymentMethodData); err != nil {
		return nil, nil, err
	}
	// Inline customer details resolve to a customer id later in the pipeline,
	// so they satisfy the mandatory-customer cases too.
	resolvableCustomerID := customerID
	if resolvableCustomerID == nil && req.HasInlineCustomerDetails() {
		pending := ""
		resolvableCustomerID = &pending
	}
	if err := validateCustomerIDMandatoryCases(req.Shipping != nil, req.Billing != nil, req.SetupFutureUsage != nil, resolvableCustomerID); err != nil {
		return nil, nil, err
	}

	// Merge policy: a request field wins when present, otherwise the stored
	// value survives.
	amountCents := intent.AmountCents
	if req.AmountCents != nil {
		amountCents = *req.AmountCents
	}
	currency := intent.Currency
	if req.Currency != nil {
		currency = *req.Currency
	}

	intent.OrderDetails = coalesceString(rawMessageToStringPtr(req.OrderDetails), intent.OrderDetails)
	intent.SetupFutureUsage = coalesceString(req.SetupFutureUsage, intent.SetupFutureUsage)
	intent.ReturnURL = coalesceString(req.ReturnURL, intent.ReturnURL)
	if req.Metadata != nil {
		intent.Metadata = cloneMetadata(req.Metadata)
	}
	if shipping != nil {
		intent.ShippingAddressID = &shipping.AddressID
	}
	if billing != nil {
		intent.BillingAddressID = &billing.AddressID
	}

	attempt.BrowserInfo = coalesceString(rawMessageToStringPtr(req.BrowserInfo), attempt.BrowserInfo)
	attempt.PaymentMethod = coalesceString(resolution.PaymentMethod, attempt.PaymentMethod)
	attempt.PaymentMethodType = coalesceString(resolution.PaymentMethodType, attempt.PaymentMethodType)
	attempt.PaymentExperience = coalesceString(req.PaymentExperience, attempt.PaymentExperience)
	attempt.CaptureMethod = coalesceString(req.CaptureMethod, attempt.CaptureMethod)
	attempt.BusinessSubLabel = coalesceString(req.BusinessSubLabel, attempt.BusinessSubLabel)

	mandate := resolution.Mandate
	if mandate != nil {
		mandate.Encoded = coalesceString(attempt.MandateDetails, mandate.Encoded)
	}

	paymentData := &PaymentData{
		Intent:            intent,
		Attempt:           attempt,
		ConnectorResponse: connResp,
		ShippingAddress:   shipping,
		BillingAddress:    billing,
		Token:             coalesceString(resolution.Token, attempt.PaymentToken),
		Mandate:           mandate,
		PaymentMethodData: req.PaymentMethodData,
		CredsIdentifier:   credsIdentifier,
		AmountCents:       amountCents,
		Currency:          currency,
		Mode:              mode,
	}

	return paymentData, customerDetailsFromRequest(req), nil
}

// ResolveCustomer materializes the customer the payment belongs to. New
// customers insert immediately; updates to existing customers are deferred to
// the commit stage so they land alongside the tracker writes.
func (op *confirmOperation) ResolveCustomer(
	ctx context.Context,
	paymentData *PaymentData,
	details *CustomerDetails,
) (*entity.Customer, bool, error) {
	s := op.svc
	intent := paymentData.Intent
	now := time.Now().UTC()

	customerID := coalesceString(details.CustomerID, intent.CustomerID)
	if customerID == nil && !details.hasInline() {
		return nil, false, nil
	}

	if customerID != nil {
		existing, err := s.customerRepo.FindByCustomerID(ctx, *customerID, intent.MerchantID, paymentData.Mode)
		if err != nil {
			return nil, false, err
		}
		if existing != nil {
			updated := false
			if details.Name != nil && !equalStringPtr(details.Name, existing.Name) {
				existing.Name = details.Name
				updated = true
			}
			if details.Email != nil && !equalStringPtr(details.Email, existing.Email) {
				existing.Email = details.Email
				updated = true
			}
			if details.Phone != nil && !equalStringPtr(details.Phone, existing.Phone) {
				existing.Phone = details.Phone
				updated = true
			}
			if updated {
				existing.UpdatedAt = now
			}
			intent.CustomerID = &existing.CustomerID
			return existing, updated, nil
		}
	}

	customer := &entity.Customer{
		MerchantID: intent.MerchantID,
		Name:       details.Name,
		Email:      details.Email,
		Phone:      details.Phone,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if customerID != nil {
		customer.CustomerID = *customerID
	} else {
		customer.CustomerID = generateCustomerID()
	}
	if err := s.customerRepo.Insert(ctx, customer); err != nil {
		return nil, false, err
	}

	paymentData.NewCustomer = true
	intent.CustomerID = &customer.CustomerID
	return customer, false, nil
}

// ResolvePaymentMethod ensures the confirmation actually carries something
// chargeable. Stored redacted snapshots do not count; only fresh data or a
// token can drive a connector call.
func (op *confirmOperation) ResolvePaymentMethod(_ context.Context, paymentData *PaymentData) error {
	if paymentData.PaymentMethodData == nil && paymentData.Token == nil {
		return fmt.Errorf("%w: no payment_method_data or payment_token available", ErrPaymentMethodNotFound)
	}
	return nil
}

// ResolveConnector picks the connector the attempt will execute on. An
// explicit request value wins, then a supported connector already on the
// attempt, then the merchant's routing.
func (op *confirmOperation) ResolveConnector(
	_ context.Context,
	merchant *entity.MerchantAccount,
	req *types.ConfirmPaymentRequest,
	paymentData *PaymentData,
) error {
	s := op.svc
	attempt := paymentData.Attempt

	var name string
	switch {
	case req.Connector != nil:
		resolved, err := s.connectors.Get(*req.Connector)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConnectorUnsupported, err)
		}
		name = resolved

	case attempt.Connector != nil && s.connectors.Supported(*attempt.Connector):
		name = *attempt.Connector

	default:
		resolved, err := s.connectors.ResolveDefault(merchant, req.RoutingOverride)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrConnectorUnsupported, err)
		}
		name = resolved
	}

	attempt.Connector = &name
	if req.RoutingOverride != nil {
		attempt.StraightThroughAlgorithm = req.RoutingOverride
	}
	return nil
}

// PersistTrackers commits the status transition. The transition pair is
// computed once from the fraud outcome, then the intent, attempt, and (when
// needed) customer writes fan out together.
func (op *confirmOperation) PersistTrackers(
	ctx context.Context,
	paymentData *PaymentData,
	customer *entity.Customer,
	updateCustomer bool,
) (*PaymentData, error) {
	s := op.svc
	now := time.Now().UTC()

	suggestion := types.FraudSuggestionNone
	if paymentData.Fraud != nil {
		suggestion = paymentData.Fraud.Suggestion
	}
	intentStatus, attemptStatus := types.ConfirmTransition(suggestion)

	attempt := paymentData.Attempt
	attempt.Status = attemptStatus
	attempt.AmountCents = paymentData.AmountCents
	attempt.Currency = paymentData.Currency
	attempt.CapturableCents = paymentData.AmountCents
	attempt.PaymentToken = paymentData.Token
	attempt.UpdatedAt = now
	if suggestion == types.FraudSuggestionCancel {
		attempt.ErrorCode = &paymentData.Fraud.Status
		attempt.ErrorMessage = paymentData.Fraud.Reason
	}
	if paymentData.Mandate != nil {
		attempt.MandateDetails = paymentData.Mandate.Encoded
	}
	encoded, err := encodeAdditionalPaymentMethodData(paymentData.PaymentMethodData)
	if err != nil {
		return nil, fmt.Errorf("%w: encode payment method data: %v", ErrInternal, err)
	}
	if encoded != nil {
		attempt.PaymentMethodData = encoded
	}

	intent := paymentData.Intent
	intent.Status = intentStatus
	intent.AmountCents = paymentData.AmountCents
	intent.Currency = paymentData.Currency
	intent.UpdatedAt = now

	attemptCopy := *attempt
	intentCopy := *intent

	var g errgroup.Group
	g.Go(func() error {
		return mapTrackerNotFound(s.attemptRepo.Update(ctx, &attemptCopy, paymentData.Mode))
	})
	g.Go(func() error {
		return mapTrackerNotFound(s.intentRepo.Update(ctx, &intentCopy, paymentData.Mode))
	})
	if updateCustomer && customer != nil {
		customerCopy := *customer
		g.Go(func() error {
			return mapTrackerNotFound(s.customerRepo.Update(ctx, &customerCopy))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return paymentData, nil
}

// A tracker row vanishing between fetch and write surfaces to the caller as
// the payment itself being gone.
func mapTrackerNotFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrIntentNotFound) ||
		errors.Is(err, repository.ErrAttemptNotFound) ||
		errors.Is(err, repository.ErrCustomerNotFound) {
		return fmt.Errorf("%w: %v", ErrPaymentNotFound, err)
	}
	return err
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
