package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/vibast-solutions/ms-go-payment-core/app/entity"
	"github.com/vibast-solutions/ms-go-payment-core/app/types"
)

var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrCustomerAlreadyExists = errors.New("customer already exists")
)

type CustomerRepository struct {
	store store
}

func NewCustomerRepository(primary, replica DBTX) *CustomerRepository {
	return &CustomerRepository{store: newStore(primary, replica)}
}

func (r *CustomerRepository) FindByCustomerID(
	ctx context.Context,
	customerID, merchantID string,
	mode types.ConsistencyMode,
) (*entity.Customer, error) {
	query := `
		SELECT customer_id, merchant_id, name, email, phone, created_at, updated_at
		FROM customers
		WHERE customer_id = ? AND merchant_id = ?
		LIMIT 1
	`

	customer := &entity.Customer{}
	var name, email, phone sql.NullString
	err := r.store.reader(mode).QueryRowContext(ctx, query, customerID, merchantID).Scan(
		&customer.CustomerID,
		&customer.MerchantID,
		&name,
		&email,
		&phone,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	customer.Name = stringPtrFromNull(name)
	customer.Email = stringPtrFromNull(email)
	customer.Phone = stringPtrFromNull(phone)
	return customer, nil
}

func (r *CustomerRepository) Insert(ctx context.Context, customer *entity.Customer) error {
	query := `
		INSERT INTO customers (customer_id, merchant_id, name, email, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.store.primary.ExecContext(ctx, query,
		customer.CustomerID,
		customer.MerchantID,
		nullableStringValue(customer.Name),
		nullableStringValue(customer.Email),
		nullableStringValue(customer.Phone),
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrCustomerAlreadyExists
		}
		return err
	}

	return nil
}

func (r *CustomerRepository) Update(ctx context.Context, customer *entity.Customer) error {
	query := `
		UPDATE customers SET name = ?, email = ?, phone = ?, updated_at = ?
		WHERE customer_id = ? AND merchant_id = ?
	`

	result, err := r.store.primary.ExecContext(ctx, query,
		nullableStringValue(customer.Name),
		nullableStringValue(customer.Email),
		nullableStringValue(customer.Phone),
		customer.UpdatedAt,
		customer.CustomerID,
		customer.MerchantID,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCustomerNotFound
	}

	return nil
}
