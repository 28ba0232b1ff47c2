package entity

import "time"

// Customer is a merchant-scoped identity. Intents and attempts reference it
// by id only; deleting a customer never cascades into payment records.
type Customer struct {
	CustomerID string
	MerchantID string

	Name  *string
	Email *string
	Phone *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
