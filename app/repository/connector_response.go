package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

var ErrConnectorResponseExists = errors.New("connector response already exists")

type ConnectorResponseRepository struct {
	store store
}

func NewConnectorResponseRepository(primary, replica DBTX) *ConnectorResponseRepository {
	return &ConnectorResponseRepository{store: newStore(primary, replica)}
}

func (r *ConnectorResponseRepository) FindByAttemptID(
	ctx context.Context,
	paymentID, merchantID, attemptID string,
	mode types.ConsistencyMode,
) (*entity.ConnectorResponse, error) {
	query := `
		SELECT payment_id, merchant_id, attempt_id, connector, connector_transaction_id,
			authentication_data, encoded_data, created_at, updated_at
		FROM connector_responses
		WHERE payment_id = ? AND merchant_id = ? AND attempt_id = ?
		LIMIT 1
	`

	response := &entity.ConnectorResponse{}
	var connector, transactionID, authenticationData, encodedData sql.NullString
	err := r.store.reader(mode).QueryRowContext(ctx, query, paymentID, merchantID, attemptID).Scan(
		&response.PaymentID,
		&response.MerchantID,
		&response.AttemptID,
		&connector,
		&transactionID,
		&authenticationData,
		&encodedData,
		&response.CreatedAt,
		&response.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	response.Connector = stringPtrFromNull(connector)
	response.ConnectorTransactionID = stringPtrFromNull(transactionID)
	response.AuthenticationData = stringPtrFromNull(authenticationData)
	response.EncodedData = stringPtrFromNull(encodedData)
	return response, nil
}

func (r *ConnectorResponseRepository) Insert(
	ctx context.Context,
	response *entity.ConnectorResponse,
	_ types.ConsistencyMode,
) error {
	query := `
		INSERT INTO connector_responses (payment_id, merchant_id, attempt_id, connector,
			connector_transaction_id, authentication_data, encoded_data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.store.primary.ExecContext(ctx, query,
		response.PaymentID,
		response.MerchantID,
		response.AttemptID,
		nullableStringValue(response.Connector),
		nullableStringValue(response.ConnectorTransactionID),
		nullableStringValue(response.AuthenticationData),
		nullableStringValue(response.EncodedData),
		response.CreatedAt,
		response.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrConnectorResponseExists
		}
		return err
	}

	return nil
}
