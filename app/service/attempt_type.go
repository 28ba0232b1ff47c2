package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// attemptKind is the versioning decision for a confirmation: reuse the active
// attempt or cut a new one. The decision is resolved before any
// connector-response lookup because it determines which attempt id later
// connector calls and webhooks correlate on.
type attemptKind int

const (
	attemptSameOld attemptKind = iota
	attemptNew
)

// decideAttemptKind applies the versioning policy for intents that are not
// simply awaiting completion of the active attempt. Only an explicit
// manual-retry signal creates a new attempt; missing or ambiguous signaling
// modifies the existing attempt in place.
func decideAttemptKind(intent *entity.PaymentIntent, req *types.ConfirmPaymentRequest) attemptKind {
	if types.AwaitingCompletion(intent.Status) {
		return attemptSameOld
	}
	if req.RetryAction != nil && types.RetryAction(*req.RetryAction) == types.RetryActionManualRetry {
		return attemptNew
	}
	return attemptSameOld
}

func generateAttemptID(paymentID string) string {
	return paymentID + "_" + uuid.NewString()
}

// createNewAttempt inserts a fresh attempt inheriting amount, currency, and
// customer linkage from the intent, then repoints the intent's active-attempt
// reference so later lookups see the new attempt.
func (s *PaymentService) createNewAttempt(
	ctx context.Context,
	intent *entity.PaymentIntent,
	prior *entity.PaymentAttempt,
	mode types.ConsistencyMode,
	now time.Time,
) (*entity.PaymentAttempt, error) {
	attempt := &entity.PaymentAttempt{
		AttemptID:   generateAttemptID(intent.PaymentID),
		PaymentID:   intent.PaymentID,
		MerchantID:  intent.MerchantID,
		Status:      types.AttemptStatusPending,
		AmountCents: intent.AmountCents,
		Currency:    intent.Currency,
	}
	if prior != nil {
		attempt.PaymentMethod = prior.PaymentMethod
		attempt.PaymentMethodType = prior.PaymentMethodType
		attempt.CaptureMethod = prior.CaptureMethod
		attempt.BusinessSubLabel = prior.BusinessSubLabel
	}
	attempt.CreatedAt = now
	attempt.UpdatedAt = now

	if err := s.attemptRepo.Insert(ctx, attempt, mode); err != nil {
		return nil, err
	}

	intent.ActiveAttemptID = attempt.AttemptID
	intent.UpdatedAt = now
	if err := s.intentRepo.Update(ctx, intent, mode); err != nil {
		return nil, err
	}

	return attempt, nil
}

// getOrInsertConnectorResponse returns the attempt's connector-response slot,
// inserting a fresh one when none exists yet.
func (s *PaymentService) getOrInsertConnectorResponse(
	ctx context.Context,
	attempt *entity.PaymentAttempt,
	mode types.ConsistencyMode,
	now time.Time,
) (*entity.ConnectorResponse, error) {
	existing, err := s.connRespRepo.FindByAttemptID(ctx, attempt.PaymentID, attempt.MerchantID, attempt.AttemptID, mode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	response := &entity.ConnectorResponse{
		PaymentID:  attempt.PaymentID,
		MerchantID: attempt.MerchantID,
		AttemptID:  attempt.AttemptID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.connRespRepo.Insert(ctx, response, mode); err != nil {
		return nil, err
	}
	return response, nil
}
