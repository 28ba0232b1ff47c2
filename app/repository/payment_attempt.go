package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

var (
	ErrAttemptNotFound      = errors.New("payment attempt not found")
	ErrAttemptAlreadyExists = errors.New("payment attempt already exists")
)

type PaymentAttemptRepository struct {
	store store
}

func NewPaymentAttemptRepository(primary, replica DBTX) *PaymentAttemptRepository {
	return &PaymentAttemptRepository{store: newStore(primary, replica)}
}

const attemptColumns = `attempt_id, payment_id, merchant_id, status, amount_cents, currency,
		payment_method, payment_method_type, payment_method_data, payment_token,
		connector, authentication_type, browser_info,
		error_code, error_message, capturable_cents, mandate_details,
		business_sub_label, payment_experience, capture_method, straight_through_algorithm,
		created_at, updated_at`

func (r *PaymentAttemptRepository) FindByAttemptID(
	ctx context.Context,
	paymentID, merchantID, attemptID string,
	mode types.ConsistencyMode,
) (*entity.PaymentAttempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM payment_attempts
		WHERE payment_id = ? AND merchant_id = ? AND attempt_id = ?
		LIMIT 1
	`

	attempt := &entity.PaymentAttempt{}
	err := scanAttempt(r.store.reader(mode).QueryRowContext(ctx, query, paymentID, merchantID, attemptID), attempt)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return attempt, nil
}

func (r *PaymentAttemptRepository) Insert(
	ctx context.Context,
	attempt *entity.PaymentAttempt,
	_ types.ConsistencyMode,
) error {
	query := `
		INSERT INTO payment_attempts (` + attemptColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.store.primary.ExecContext(ctx, query,
		attempt.AttemptID,
		attempt.PaymentID,
		attempt.MerchantID,
		string(attempt.Status),
		attempt.AmountCents,
		attempt.Currency,
		nullableStringValue(attempt.PaymentMethod),
		nullableStringValue(attempt.PaymentMethodType),
		nullableStringValue(attempt.PaymentMethodData),
		nullableStringValue(attempt.PaymentToken),
		nullableStringValue(attempt.Connector),
		nullableStringValue(attempt.AuthenticationType),
		nullableStringValue(attempt.BrowserInfo),
		nullableStringValue(attempt.ErrorCode),
		nullableStringValue(attempt.ErrorMessage),
		attempt.CapturableCents,
		nullableStringValue(attempt.MandateDetails),
		nullableStringValue(attempt.BusinessSubLabel),
		nullableStringValue(attempt.PaymentExperience),
		nullableStringValue(attempt.CaptureMethod),
		nullableStringValue(attempt.StraightThroughAlgorithm),
		attempt.CreatedAt,
		attempt.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrAttemptAlreadyExists
		}
		return err
	}

	return nil
}

func (r *PaymentAttemptRepository) Update(
	ctx context.Context,
	attempt *entity.PaymentAttempt,
	_ types.ConsistencyMode,
) error {
	query := `
		UPDATE payment_attempts SET
			status = ?,
			amount_cents = ?,
			currency = ?,
			payment_method = ?,
			payment_method_type = ?,
			payment_method_data = ?,
			payment_token = ?,
			connector = ?,
			authentication_type = ?,
			browser_info = ?,
			error_code = ?,
			error_message = ?,
			capturable_cents = ?,
			mandate_details = ?,
			business_sub_label = ?,
			payment_experience = ?,
			capture_method = ?,
			straight_through_algorithm = ?,
			updated_at = ?
		WHERE payment_id = ? AND merchant_id = ? AND attempt_id = ?
	`

	result, err := r.store.primary.ExecContext(ctx, query,
		string(attempt.Status),
		attempt.AmountCents,
		attempt.Currency,
		nullableStringValue(attempt.PaymentMethod),
		nullableStringValue(attempt.PaymentMethodType),
		nullableStringValue(attempt.PaymentMethodData),
		nullableStringValue(attempt.PaymentToken),
		nullableStringValue(attempt.Connector),
		nullableStringValue(attempt.AuthenticationType),
		nullableStringValue(attempt.BrowserInfo),
		nullableStringValue(attempt.ErrorCode),
		nullableStringValue(attempt.ErrorMessage),
		attempt.CapturableCents,
		nullableStringValue(attempt.MandateDetails),
		nullableStringValue(attempt.BusinessSubLabel),
		nullableStringValue(attempt.PaymentExperience),
		nullableStringValue(attempt.CaptureMethod),
		nullableStringValue(attempt.StraightThroughAlgorithm),
		attempt.UpdatedAt,
		attempt.PaymentID,
		attempt.MerchantID,
		attempt.AttemptID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAttemptNotFound
	}

	return nil
}

func scanAttempt(scan rowScanner, attempt *entity.PaymentAttempt) error {
	var status string
	var paymentMethod, paymentMethodType, paymentMethodData, paymentToken sql.NullString
	var connector, authenticationType, browserInfo sql.NullString
	var errorCode, errorMessage, mandateDetails sql.NullString
	var businessSubLabel, paymentExperience, captureMethod, straightThrough sql.NullString

	err := scan.Scan(
		&attempt.AttemptID,
		&attempt.PaymentID,
		&attempt.MerchantID,
		&status,
		&attempt.AmountCents,
		&attempt.Currency,
		&paymentMethod,
		&paymentMethodType,
		&paymentMethodData,
		&paymentToken,
		&connector,
		&authenticationType,
		&browserInfo,
		&errorCode,
		&errorMessage,
		&attempt.CapturableCents,
		&mandateDetails,
		&businessSubLabel,
		&paymentExperience,
		&captureMethod,
		&straightThrough,
		&attempt.CreatedAt,
		&attempt.UpdatedAt,
	)
	if err != nil {
		return err
	}

	attempt.Status = types.AttemptStatus(status)
	attempt.PaymentMethod = stringPtrFromNull(paymentMethod)
	attempt.PaymentMethodType = stringPtrFromNull(paymentMethodType)
	attempt.PaymentMethodData = stringPtrFromNull(paymentMethodData)
	attempt.PaymentToken = stringPtrFromNull(paymentToken)
	attempt.Connector = stringPtrFromNull(connector)
	attempt.AuthenticationType = stringPtrFromNull(authenticationType)
	attempt.BrowserInfo = stringPtrFromNull(browserInfo)
	attempt.ErrorCode = stringPtrFromNull(errorCode)
	attempt.ErrorMessage = stringPtrFromNull(errorMessage)
	attempt.MandateDetails = stringPtrFromNull(mandateDetails)
	attempt.BusinessSubLabel = stringPtrFromNull(businessSubLabel)
	attempt.PaymentExperience = stringPtrFromNull(paymentExperience)
	attempt.CaptureMethod = stringPtrFromNull(captureMethod)
	attempt.StraightThroughAlgorithm = stringPtrFromNull(straightThrough)

	return nil
}
