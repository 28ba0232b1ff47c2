package entity

import "time"

// ConnectorResponse is the per-attempt slot that later connector calls and
// webhook correlation write into. A fresh row is inserted whenever a new
// attempt is created.
type ConnectorResponse struct {
	PaymentID  string
	MerchantID string
	AttemptID  string

	Connector              *string
	ConnectorTransactionID *string
	AuthenticationData     *string
	EncodedData            *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
