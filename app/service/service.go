package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vibast-solutions/ms-go-payment-core/app/connector"
	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/factory"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
	"github.com/vibast-solutions/ms-go-payment-core/config"
)

const (
	defaultTaskBatchSize     = int32(100)
	defaultTaskRetryInterval = 5 * time.Minute
	defaultFulfillmentWindow = 15 * time.Minute
)

type paymentIntentRepository interface {
	FindByPaymentIDMerchantID(ctx context.Context, paymentID, merchantID string, mode types.ConsistencyMode) (*entity.PaymentIntent, error)
	Update(ctx context.Context, intent *entity.PaymentIntent, mode types.ConsistencyMode) error
}

type paymentAttemptRepository interface {
	FindByAttemptID(ctx context.Context, paymentID, merchantID, attemptID string, mode types.ConsistencyMode) (*entity.PaymentAttempt, error)
	Insert(ctx context.Context, attempt *entity.PaymentAttempt, mode types.ConsistencyMode) error
	Update(ctx context.Context, attempt *entity.PaymentAttempt, mode types.ConsistencyMode) error
}

type addressRepository interface {
	FindByAddressID(ctx context.Context, addressID, merchantID string, mode types.ConsistencyMode) (*entity.Address, error)
	Insert(ctx context.Context, address *entity.Address) error
	Update(ctx context.Context, address *entity.Address) error
}

type customerRepository interface {
	FindByCustomerID(ctx context.Context, customerID, merchantID string, mode types.ConsistencyMode) (*entity.Customer, error)
	Insert(ctx context.Context, customer *entity.Customer) error
	Update(ctx context.Context, customer *entity.Customer) error
}

type merchantAccountRepository interface {
	FindByMerchantID(ctx context.Context, merchantID string) (*entity.MerchantAccount, error)
}

type merchantConfigRepository interface {
	Upsert(ctx context.Context, config *entity.MerchantConfig) error
}

type connectorResponseRepository interface {
	FindByAttemptID(ctx context.Context, paymentID, merchantID, attemptID string, mode types.ConsistencyMode) (*entity.ConnectorResponse, error)
	Insert(ctx context.Context, response *entity.ConnectorResponse, mode types.ConsistencyMode) error
}

type processTaskRepository interface {
	Insert(ctx context.Context, task *entity.ProcessTask) error
	FindPending(ctx context.Context, taskName, paymentID, merchantID, attemptID string) (*entity.ProcessTask, error)
	Update(ctx context.Context, task *entity.ProcessTask) error
	ListDue(ctx context.Context, now time.Time, limit int32) ([]*entity.ProcessTask, error)
}

type PaymentService struct {
	intentRepo   paymentIntentRepository
	attemptRepo  paymentAttemptRepository
	addressRepo  addressRepository
	customerRepo customerRepository
	merchantRepo merchantAccountRepository
	configRepo   merchantConfigRepository
	connRespRepo connectorResponseRepository
	taskRepo     processTaskRepository

	connectors *connector.Registry
	fraud      FraudAdvisor

	paymentsCfg config.PaymentsConfig
	logger      logrus.FieldLogger
}

func NewPaymentService(
	intentRepo paymentIntentRepository,
	attemptRepo paymentAttemptRepository,
	addressRepo addressRepository,
	customerRepo customerRepository,
	merchantRepo merchantAccountRepository,
	configRepo merchantConfigRepository,
	connRespRepo connectorResponseRepository,
	taskRepo processTaskRepository,
	connectors *connector.Registry,
	fraud FraudAdvisor,
	paymentsCfg config.PaymentsConfig,
) *PaymentService {
	return &PaymentService{
		intentRepo:   intentRepo,
		attemptRepo:  attemptRepo,
		addressRepo:  addressRepo,
		customerRepo: customerRepo,
		merchantRepo: merchantRepo,
		configRepo:   configRepo,
		connRespRepo: connRespRepo,
		taskRepo:     taskRepo,
		connectors:   connectors,
		fraud:        fraud,
		paymentsCfg:  paymentsCfg,
		logger:       factory.NewModuleLogger("payments-service"),
	}
}

// ConfirmPayment drives a payment through the confirmation pipeline:
// validate, load trackers, enrich, commit the status transition. The stages
// run in strict program order; concurrency lives inside the stages.
func (s *PaymentService) ConfirmPayment(
	ctx context.Context,
	merchant *entity.MerchantAccount,
	req *types.ConfirmPaymentRequest,
) (*PaymentData, error) {
	op, err := s.operationFor(FlowConfirm)
	if err != nil {
		return nil, err
	}

	validated, err := op.ValidateRequest(req, merchant)
	if err != nil {
		return nil, err
	}

	paymentData, customerDetails, err := op.LoadTrackers(ctx, validated, req, merchant)
	if err != nil {
		return nil, err
	}

	customer, updateCustomer, err := op.ResolveCustomer(ctx, paymentData, customerDetails)
	if err != nil {
		return nil, err
	}

	if err := op.ResolvePaymentMethod(ctx, paymentData); err != nil {
		return nil, err
	}

	if err := op.ResolveConnector(ctx, merchant, req, paymentData); err != nil {
		return nil, err
	}

	if s.fraud != nil {
		assessment, err := s.fraud.Assess(ctx, paymentData)
		if err != nil {
			return nil, fmt.Errorf("%w: fraud assessment failed: %v", ErrInternal, err)
		}
		paymentData.Fraud = assessment
	}

	paymentData, err = op.PersistTrackers(ctx, paymentData, customer, updateCustomer)
	if err != nil {
		return nil, err
	}

	s.scheduleConnectorInvoke(ctx, paymentData, validated.Requeue)

	return paymentData, nil
}

func (s *PaymentService) GetPayment(
	ctx context.Context,
	merchant *entity.MerchantAccount,
	paymentID string,
) (*PaymentData, error) {
	mode := merchant.StorageMode
	intent, err := s.intentRepo.FindByPaymentIDMerchantID(ctx, paymentID, merchant.MerchantID, mode)
	if err != nil {
		return nil, err
	}
	if intent == nil {
		return nil, ErrPaymentNotFound
	}

	attempt, err := s.attemptRepo.FindByAttemptID(ctx, intent.PaymentID, intent.MerchantID, intent.ActiveAttemptID, mode)
	if err != nil {
		return nil, err
	}
	if attempt == nil {
		return nil, ErrPaymentNotFound
	}

	return &PaymentData{Intent: intent, Attempt: attempt, Mode: mode}, nil
}

func (s *PaymentService) MerchantAccount(ctx context.Context, merchantID string) (*entity.MerchantAccount, error) {
	account, err := s.merchantRepo.FindByMerchantID(ctx, merchantID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrMerchantNotFound
	}
	return account, nil
}

func (s *PaymentService) taskBatchSize() int32 {
	if s.paymentsCfg.TaskBatchSize > 0 {
		return s.paymentsCfg.TaskBatchSize
	}
	return defaultTaskBatchSize
}

func (s *PaymentService) taskRetryInterval() time.Duration {
	if s.paymentsCfg.TaskRetryInterval > 0 {
		return s.paymentsCfg.TaskRetryInterval
	}
	return defaultTaskRetryInterval
}

func (s *PaymentService) fulfillmentWindow(merchant *entity.MerchantAccount) time.Duration {
	if merchant.IntentFulfillmentSeconds > 0 {
		return time.Duration(merchant.IntentFulfillmentSeconds) * time.Second
	}
	if s.paymentsCfg.ClientSecretExpiry > 0 {
		return s.paymentsCfg.ClientSecretExpiry
	}
	return defaultFulfillmentWindow
}
