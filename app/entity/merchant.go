package entity

import (
	"time"

	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

// MerchantAccount is resolved by the caller (authentication is out of scope
// for this service) and passed into every pipeline invocation.
type MerchantAccount struct {
	MerchantID string

	StorageMode      types.ConsistencyMode
	DefaultConnector string
	RoutingAlgorithm *string

	// IntentFulfillmentSeconds bounds how long a client secret stays valid
	// after intent creation. Zero means the service default applies.
	IntentFulfillmentSeconds int64
}

// MerchantConfig holds merchant-supplied connector credentials keyed by
// (merchant_id, creds_identifier). Written via upsert so repeated
// confirmations with inline credentials stay idempotent.
type MerchantConfig struct {
	Key         string
	Credentials string
	UpdatedAt   time.Time
}

func MerchantConfigKey(merchantID, credsIdentifier string) string {
	return merchantID + "_" + credsIdentifier
}
