package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

var ErrAddressNotFound = errors.New("address not found")

type AddressRepository struct {
	store store
}

func NewAddressRepository(primary, replica DBTX) *AddressRepository {
	return &AddressRepository{store: newStore(primary, replica)}
}

const addressColumns = `address_id, merchant_id, customer_id, payment_id,
		line1, line2, city, state, zip, country,
		first_name, last_name, phone, created_at, updated_at`

func (r *AddressRepository) FindByAddressID(
	ctx context.Context,
	addressID, merchantID string,
	mode types.ConsistencyMode,
) (*entity.Address, error) {
	query := `
		SELECT ` + addressColumns + `
		FROM addresses
		WHERE address_id = ? AND merchant_id = ?
		LIMIT 1
	`

	address := &entity.Address{}
	err := scanAddress(r.store.reader(mode).QueryRowContext(ctx, query, addressID, merchantID), address)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return address, nil
}

func (r *AddressRepository) Insert(ctx context.Context, address *entity.Address) error {
	query := `
		INSERT INTO addresses (` + addressColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.store.primary.ExecContext(ctx, query,
		address.AddressID,
		address.MerchantID,
		nullableStringValue(address.CustomerID),
		nullableStringValue(address.PaymentID),
		nullableStringValue(address.Line1),
		nullableStringValue(address.Line2),
		nullableStringValue(address.City),
		nullableStringValue(address.State),
		nullableStringValue(address.Zip),
		nullableStringValue(address.Country),
		nullableStringValue(address.FirstName),
		nullableStringValue(address.LastName),
		nullableStringValue(address.Phone),
		address.CreatedAt,
		address.UpdatedAt,
	)
	return err
}

func (r *AddressRepository) Update(ctx context.Context, address *entity.Address) error {
	query := `
		UPDATE addresses SET
			customer_id = ?,
			line1 = ?,
			line2 = ?,
			city = ?,
			state = ?,
			zip = ?,
			country = ?,
			first_name = ?,
			last_name = ?,
			phone = ?,
			updated_at = ?
		WHERE address_id = ? AND merchant_id = ?
	`

	result, err := r.store.primary.ExecContext(ctx, query,
		nullableStringValue(address.CustomerID),
		nullableStringValue(address.Line1),
		nullableStringValue(address.Line2),
		nullableStringValue(address.City),
		nullableStringValue(address.State),
		nullableStringValue(address.Zip),
		nullableStringValue(address.Country),
		nullableStringValue(address.FirstName),
		nullableStringValue(address.LastName),
		nullableStringValue(address.Phone),
		address.UpdatedAt,
		address.AddressID,
		address.MerchantID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}

	return nil
}

func scanAddress(scan rowScanner, address *entity.Address) error {
	var customerID, paymentID sql.NullString
	var line1, line2, city, state, zip, country sql.NullString
	var firstName, lastName, phone sql.NullString

	err := scan.Scan(
		&address.AddressID,
		&address.MerchantID,
		&customerID,
		&paymentID,
		&line1,
		&line2,
		&city,
		&state,
		&zip,
		&country,
		&firstName,
		&lastName,
		&phone,
		&address.CreatedAt,
		&address.UpdatedAt,
	)
	if err != nil {
		return err
	}

	address.CustomerID = stringPtrFromNull(customerID)
	address.PaymentID = stringPtrFromNull(paymentID)
	address.Line1 = stringPtrFromNull(line1)
	address.Line2 = stringPtrFromNull(line2)
	address.City = stringPtrFromNull(city)
	address.State = stringPtrFromNull(state)
	address.Zip = stringPtrFromNull(zip)
	address.Country = stringPtrFromNull(country)
	address.FirstName = stringPtrFromNull(firstName)
	address.LastName = stringPtrFromNull(lastName)
	address.Phone = stringPtrFromNull(phone)

	return nil
}
