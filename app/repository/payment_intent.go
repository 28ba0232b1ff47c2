package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

var ErrIntentNotFound = errors.New("payment intent not found")

type PaymentIntentRepository struct {
	store store
}

func NewPaymentIntentRepository(primary, replica DBTX) *PaymentIntentRepository {
	return &PaymentIntentRepository{store: newStore(primary, replica)}
}

const intentColumns = `payment_id, merchant_id, status, amount_cents, currency,
		customer_id, shipping_address_id, billing_address_id, active_attempt_id,
		return_url, setup_future_usage, client_secret,
		connector_metadata, order_details, metadata_json,
		business_label, business_country,
		description, statement_descriptor_name, statement_descriptor_suffix,
		created_at, updated_at`

func (r *PaymentIntentRepository) FindByPaymentIDMerchantID(
	ctx context.Context,
	paymentID, merchantID string,
	mode types.ConsistencyMode,
) (*entity.PaymentIntent, error) {
	query := `
		SELECT ` + intentColumns + `
		FROM payment_intents
		WHERE payment_id = ? AND merchant_id = ?
		LIMIT 1
	`

	intent := &entity.PaymentIntent{}
	err := scanIntent(r.store.reader(mode).QueryRowContext(ctx, query, paymentID, merchantID), intent)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return intent, nil
}

func (r *PaymentIntentRepository) Update(
	ctx context.Context,
	intent *entity.PaymentIntent,
	_ types.ConsistencyMode,
) error {
	metadataJSON, err := serializeMetadata(intent.Metadata)
	if err != nil {
		return err
	}

	query := `
		UPDATE payment_intents SET
			status = ?,
			amount_cents = ?,
			currency = ?,
			customer_id = ?,
			shipping_address_id = ?,
			billing_address_id = ?,
			active_attempt_id = ?,
			return_url = ?,
			setup_future_usage = ?,
			connector_metadata = ?,
			order_details = ?,
			metadata_json = ?,
			business_label = ?,
			business_country = ?,
			description = ?,
			statement_descriptor_name = ?,
			statement_descriptor_suffix = ?,
			updated_at = ?
		WHERE payment_id = ? AND merchant_id = ?
	`

	result, err := r.store.primary.ExecContext(ctx, query,
		string(intent.Status),
		intent.AmountCents,
		intent.Currency,
		nullableStringValue(intent.CustomerID),
		nullableStringValue(intent.ShippingAddressID),
		nullableStringValue(intent.BillingAddressID),
		intent.ActiveAttemptID,
		nullableStringValue(intent.ReturnURL),
		nullableStringValue(intent.SetupFutureUsage),
		nullableStringValue(intent.ConnectorMetadata),
		nullableStringValue(intent.OrderDetails),
		metadataJSON,
		nullableStringValue(intent.BusinessLabel),
		nullableStringValue(intent.BusinessCountry),
		nullableStringValue(intent.Description),
		nullableStringValue(intent.StatementDescriptorName),
		nullableStringValue(intent.StatementDescriptorSuffix),
		intent.UpdatedAt,
		intent.PaymentID,
		intent.MerchantID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrIntentNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanIntent(scan rowScanner, intent *entity.PaymentIntent) error {
	var status string
	var customerID, shippingAddressID, billingAddressID sql.NullString
	var returnURL, setupFutureUsage, clientSecret sql.NullString
	var connectorMetadata, orderDetails sql.NullString
	var metadataJSON string
	var businessLabel, businessCountry sql.NullString
	var description, sdName, sdSuffix sql.NullString

	err := scan.Scan(
		&intent.PaymentID,
		&intent.MerchantID,
		&status,
		&intent.AmountCents,
		&intent.Currency,
		&customerID,
		&shippingAddressID,
		&billingAddressID,
		&intent.ActiveAttemptID,
		&returnURL,
		&setupFutureUsage,
		&clientSecret,
		&connectorMetadata,
		&orderDetails,
		&metadataJSON,
		&businessLabel,
		&businessCountry,
		&description,
		&sdName,
		&sdSuffix,
		&intent.CreatedAt,
		&intent.UpdatedAt,
	)
	if err != nil {
		return err
	}

	intent.Status = types.IntentStatus(status)
	intent.CustomerID = stringPtrFromNull(customerID)
	intent.ShippingAddressID = stringPtrFromNull(shippingAddressID)
	intent.BillingAddressID = stringPtrFromNull(billingAddressID)
	intent.ReturnURL = stringPtrFromNull(returnURL)
	intent.SetupFutureUsage = stringPtrFromNull(setupFutureUsage)
	intent.ClientSecret = stringPtrFromNull(clientSecret)
	intent.ConnectorMetadata = stringPtrFromNull(connectorMetadata)
	intent.OrderDetails = stringPtrFromNull(orderDetails)
	intent.BusinessLabel = stringPtrFromNull(businessLabel)
	intent.BusinessCountry = stringPtrFromNull(businessCountry)
	intent.Description = stringPtrFromNull(description)
	intent.StatementDescriptorName = stringPtrFromNull(sdName)
	intent.StatementDescriptorSuffix = stringPtrFromNull(sdSuffix)

	metadata, err := parseMetadata(metadataJSON)
	if err != nil {
		return err
	}
	intent.Metadata = metadata

	return nil
}
