package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

var ErrMerchantNotFound = errors.New("merchant account not found")

type MerchantAccountRepository struct {
	store store
}

func NewMerchantAccountRepository(primary, replica DBTX) *MerchantAccountRepository {
	return &MerchantAccountRepository{store: newStore(primary, replica)}
}

func (r *MerchantAccountRepository) FindByMerchantID(
	ctx context.Context,
	merchantID string,
) (*entity.MerchantAccount, error) {
	query := `
		SELECT merchant_id, storage_mode, default_connector, routing_algorithm, intent_fulfillment_seconds
		FROM merchant_accounts
		WHERE merchant_id = ?
		LIMIT 1
	`

	account := &entity.MerchantAccount{}
	var storageMode string
	var routingAlgorithm sql.NullString
	err := r.store.reader(types.ConsistencyEventual).QueryRowContext(ctx, query, merchantID).Scan(
		&account.MerchantID,
		&storageMode,
		&account.DefaultConnector,
		&routingAlgorithm,
		&account.IntentFulfillmentSeconds,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	account.StorageMode = types.ConsistencyMode(storageMode)
	if !account.StorageMode.Valid() {
		account.StorageMode = types.ConsistencyStrict
	}
	account.RoutingAlgorithm = stringPtrFromNull(routingAlgorithm)
	return account, nil
}

type MerchantConfigRepository struct {
	store store
}

func NewMerchantConfigRepository(primary, replica DBTX) *MerchantConfigRepository {
	return &MerchantConfigRepository{store: newStore(primary, replica)}
}

// Upsert writes merchant connector credentials keyed by config key.
// Repeated writes with the same key are idempotent.
func (r *MerchantConfigRepository) Upsert(ctx context.Context, config *entity.MerchantConfig) error {
	query := `
		INSERT INTO configs (config_key, config_value, updated_at)
		VALUES (?, ?, ?)
		ON DUPLICATE KEY UPDATE config_value = VALUES(config_value), updated_at = VALUES(updated_at)
	`

	if config.UpdatedAt.IsZero() {
		config.UpdatedAt = time.Now().UTC()
	}

	_, err := r.store.primary.ExecContext(ctx, query, config.Key, config.Credentials, config.UpdatedAt)
	return err
}
