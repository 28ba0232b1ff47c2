package types

type IntentStatus string

const (
	IntentStatusRequiresPaymentMethod  IntentStatus = "requires_payment_method"
	IntentStatusRequiresConfirmation   IntentStatus = "requires_confirmation"
	IntentStatusRequiresCustomerAction IntentStatus = "requires_customer_action"
	IntentStatusRequiresMerchantAction IntentStatus = "requires_merchant_action"
	IntentStatusRequiresCapture        IntentStatus = "requires_capture"
	IntentStatusProcessing             IntentStatus = "processing"
	IntentStatusSucceeded              IntentStatus = "succeeded"
	IntentStatusFailed                 IntentStatus = "failed"
	IntentStatusCancelled              IntentStatus = "cancelled"
)

type AttemptStatus string

const (
	AttemptStatusPending               AttemptStatus = "pending"
	AttemptStatusUnresolved            AttemptStatus = "unresolved"
	AttemptStatusFailure               AttemptStatus = "failure"
	AttemptStatusAuthenticationPending AttemptStatus = "authentication_pending"
	AttemptStatusAuthorized            AttemptStatus = "authorized"
	AttemptStatusCharged               AttemptStatus = "charged"
	AttemptStatusVoided                AttemptStatus = "voided"
)

// CanConfirm reports whether a payment in the given intent status may still be
// confirmed. Terminal and already-in-flight statuses reject confirmation.
func CanConfirm(status IntentStatus) bool {
	switch status {
	case IntentStatusCancelled,
		IntentStatusSucceeded,
		IntentStatusProcessing,
		IntentStatusRequiresCapture,
		IntentStatusRequiresMerchantAction:
		return false
	default:
		return true
	}
}

// AwaitingCompletion reports whether the intent is still waiting on an earlier
// attempt to complete. In these statuses confirmation always reuses the
// active attempt.
func AwaitingCompletion(status IntentStatus) bool {
	switch status {
	case IntentStatusRequiresCustomerAction,
		IntentStatusRequiresMerchantAction,
		IntentStatusRequiresPaymentMethod,
		IntentStatusRequiresConfirmation:
		return true
	default:
		return false
	}
}

type FraudSuggestion string

const (
	FraudSuggestionNone         FraudSuggestion = ""
	FraudSuggestionCancel       FraudSuggestion = "cancel_transaction"
	FraudSuggestionManualReview FraudSuggestion = "manual_review"
)

// ConfirmTransition computes the single intent/attempt status pair committed
// by a confirmation. These are the only three pairs this operation may write.
func ConfirmTransition(suggestion FraudSuggestion) (IntentStatus, AttemptStatus) {
	switch suggestion {
	case FraudSuggestionCancel:
		return IntentStatusFailed, AttemptStatusFailure
	case FraudSuggestionManualReview:
		return IntentStatusRequiresMerchantAction, AttemptStatusUnresolved
	default:
		return IntentStatusProcessing, AttemptStatusPending
	}
}

type ConsistencyMode string

const (
	ConsistencyStrict   ConsistencyMode = "strict"
	ConsistencyEventual ConsistencyMode = "eventual"
)

func (m ConsistencyMode) Valid() bool {
	return m == ConsistencyStrict || m == ConsistencyEventual
}

type MandateType string

const (
	MandateTypeNone      MandateType = ""
	MandateTypeSingleUse MandateType = "single_use"
	MandateTypeMultiUse  MandateType = "multi_use"
)

type RetryAction string

const (
	RetryActionManualRetry RetryAction = "manual_retry"
	RetryActionRequeue     RetryAction = "requeue"
)
