package service

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

func TestValidateRequestGeneratesPaymentID(t *testing.T) {
	op := &confirmOperation{svc: newConfirmFixture(nil).svc}
	merchant := &entity.MerchantAccount{MerchantID: "merchant_1", StorageMode: types.ConsistencyStrict}

	result, err := op.ValidateRequest(&types.ConfirmPaymentRequest{}, merchant)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !strings.HasPrefix(result.PaymentID, "pay_") {
		t.Fatalf("expected generated pay_ id, got %q", result.PaymentID)
	}
}

func TestValidateRequestKeepsSuppliedPaymentID(t *testing.T) {
	op := &confirmOperation{svc: newConfirmFixture(nil).svc}
	merchant := &entity.MerchantAccount{MerchantID: "merchant_1", StorageMode: types.ConsistencyEventual}

	result, err := op.ValidateRequest(&types.ConfirmPaymentRequest{PaymentID: "pay_fixed"}, merchant)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.PaymentID != "pay_fixed" {
		t.Fatalf("expected supplied id, got %q", result.PaymentID)
	}
	if result.Mode != types.ConsistencyEventual {
		t.Fatalf("expected merchant storage mode, got %s", result.Mode)
	}
}

func TestValidateRequestMerchantMismatch(t *testing.T) {
	op := &confirmOperation{svc: newConfirmFixture(nil).svc}
	merchant := &entity.MerchantAccount{MerchantID: "merchant_1"}
	other := "merchant_2"

	_, err := op.ValidateRequest(&types.ConfirmPaymentRequest{MerchantID: &other}, merchant)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestValidateRequestDefaultsInvalidStorageMode(t *testing.T) {
	op := &confirmOperation{svc: newConfirmFixture(nil).svc}
	merchant := &entity.MerchantAccount{MerchantID: "merchant_1", StorageMode: "primary"}

	result, err := op.ValidateRequest(&types.ConfirmPaymentRequest{}, merchant)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if result.Mode != types.ConsistencyStrict {
		t.Fatalf("expected strict fallback, got %s", result.Mode)
	}
}

func TestValidateRequestRequeueFlag(t *testing.T) {
	op := &confirmOperation{svc: newConfirmFixture(nil).svc}
	merchant := &entity.MerchantAccount{MerchantID: "merchant_1"}
	requeue := "requeue"

	result, err := op.ValidateRequest(&types.ConfirmPaymentRequest{RetryAction: &requeue}, merchant)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if !result.Requeue {
		t.Fatal("expected requeue flag")
	}
}

func TestValidatePaymentMethodFields(t *testing.T) {
	method := "card"
	if err := validatePaymentMethodFields(&types.ConfirmPaymentRequest{PaymentMethod: &method}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for method without data, got %v", err)
	}

	data := &types.PaymentMethodData{Card: &types.CardData{Number: "4242424242424242"}}
	if err := validatePaymentMethodFields(&types.ConfirmPaymentRequest{PaymentMethodData: data}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for data without method, got %v", err)
	}

	token := "tok_1"
	if err := validatePaymentMethodFields(&types.ConfirmPaymentRequest{PaymentMethod: &method, PaymentToken: &token}); err != nil {
		t.Fatalf("method with token must pass, got %v", err)
	}
}

func TestValidateMandate(t *testing.T) {
	if _, err := validateMandate(&types.ConfirmPaymentRequest{MandateData: &types.MandateData{Type: "single_use"}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("single_use without amount must fail, got %v", err)
	}

	bad := int64(-1)
	if _, err := validateMandate(&types.ConfirmPaymentRequest{MandateData: &types.MandateData{Type: "multi_use", AmountCents: &bad}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("multi_use with negative amount must fail, got %v", err)
	}

	if _, err := validateMandate(&types.ConfirmPaymentRequest{MandateData: &types.MandateData{Type: "forever"}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("unknown mandate type must fail, got %v", err)
	}

	amount := int64(500)
	currency := "EURO"
	if _, err := validateMandate(&types.ConfirmPaymentRequest{MandateData: &types.MandateData{Type: "single_use", AmountCents: &amount, Currency: &currency}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("bad mandate currency must fail, got %v", err)
	}

	eur := "EUR"
	mandateType, err := validateMandate(&types.ConfirmPaymentRequest{MandateData: &types.MandateData{Type: "single_use", AmountCents: &amount, Currency: &eur}})
	if err != nil {
		t.Fatalf("valid mandate failed: %v", err)
	}
	if mandateType != types.MandateTypeSingleUse {
		t.Fatalf("unexpected mandate type: %s", mandateType)
	}
}

func TestValidateCardData(t *testing.T) {
	if err := validateCardData(&types.PaymentMethodData{Card: &types.CardData{Number: "1234", ExpMonth: "12", ExpYear: "2030"}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("short card number must fail, got %v", err)
	}
	if err := validateCardData(&types.PaymentMethodData{Card: &types.CardData{Number: "42424242424242ab", ExpMonth: "12", ExpYear: "2030"}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("non-numeric card number must fail, got %v", err)
	}
	if err := validateCardData(&types.PaymentMethodData{Card: &types.CardData{Number: "4242424242424242"}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing expiry must fail, got %v", err)
	}
	if err := validateCardData(&types.PaymentMethodData{Card: &types.CardData{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030"}}); err != nil {
		t.Fatalf("valid card failed: %v", err)
	}
	if err := validateCardData(nil); err != nil {
		t.Fatalf("nil data must pass, got %v", err)
	}
}

func TestDecideAttemptKind(t *testing.T) {
	retry := "manual_retry"
	requeue := "requeue"

	intent := &entity.PaymentIntent{Status: types.IntentStatusRequiresCustomerAction}
	if decideAttemptKind(intent, &types.ConfirmPaymentRequest{RetryAction: &retry}) != attemptSameOld {
		t.Fatal("awaiting completion must reuse the active attempt")
	}

	intent = &entity.PaymentIntent{Status: types.IntentStatusFailed}
	if decideAttemptKind(intent, &types.ConfirmPaymentRequest{RetryAction: &retry}) != attemptNew {
		t.Fatal("manual retry on a settled intent must cut a new attempt")
	}
	if decideAttemptKind(intent, &types.ConfirmPaymentRequest{RetryAction: &requeue}) != attemptSameOld {
		t.Fatal("requeue must not cut a new attempt")
	}
	if decideAttemptKind(intent, &types.ConfirmPaymentRequest{}) != attemptSameOld {
		t.Fatal("missing retry signal must modify in place")
	}
}

func TestValidateClientSecret(t *testing.T) {
	secret := "secret_1"
	intent := &entity.PaymentIntent{ClientSecret: &secret, CreatedAt: time.Now().UTC()}

	if err := validateClientSecret(nil, intent, time.Minute, time.Now().UTC()); err != nil {
		t.Fatalf("absent secret must pass, got %v", err)
	}

	wrong := "secret_2"
	if err := validateClientSecret(&wrong, intent, time.Minute, time.Now().UTC()); !errors.Is(err, ErrValidation) {
		t.Fatalf("mismatch must fail validation, got %v", err)
	}

	if err := validateClientSecret(&secret, intent, time.Minute, time.Now().UTC().Add(time.Hour)); !errors.Is(err, ErrNotAllowedInCurrentState) {
		t.Fatalf("expired secret must fail, got %v", err)
	}

	if err := validateClientSecret(&secret, intent, time.Minute, time.Now().UTC()); err != nil {
		t.Fatalf("matching fresh secret failed: %v", err)
	}
}

func TestEncodeAdditionalPaymentMethodDataRedactsCard(t *testing.T) {
	encoded, err := encodeAdditionalPaymentMethodData(&types.PaymentMethodData{
		Card: &types.CardData{Number: "4242424242424242", ExpMonth: "12", ExpYear: "2030", CVC: "123"},
	})
	if err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	if strings.Contains(*encoded, "4242424242424242") {
		t.Fatal("full card number must never be encoded")
	}
	if strings.Contains(*encoded, "123") && strings.Contains(*encoded, "cvc") {
		t.Fatal("cvc must never be encoded")
	}
	if !strings.Contains(*encoded, `"last4":"4242"`) {
		t.Fatalf("expected last4 in encoded data, got %s", *encoded)
	}
}

func TestCoalesceString(t *testing.T) {
	stored := "stored"
	request := "request"

	if got := coalesceString(&request, &stored); *got != "request" {
		t.Fatalf("request must win, got %q", *got)
	}
	if got := coalesceString(nil, &stored); *got != "stored" {
		t.Fatalf("stored must survive, got %q", *got)
	}
	if got := coalesceString(nil, nil); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
