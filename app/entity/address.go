package entity

import "time"

// Address is owned by an intent via an address-id reference and resolved by
// find-or-create against (merchant_id, customer_id).
type Address struct {
	AddressID  string
	MerchantID string
	CustomerID *string
	PaymentID  *string

	Line1     *string
	Line2     *string
	City      *string
	State     *string
	Zip       *string
	Country   *string
	FirstName *string
	LastName  *string
	Phone     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
