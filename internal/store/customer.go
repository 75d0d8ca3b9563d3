package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/pixvault/pixvault/internal/postgres"
)

// customerSequence is the counter name the registry draws customer codes from.
const customerSequence = "customerId"

// FormatCustomerCode renders a sequence value as a customer code, e.g. KH0007.
func FormatCustomerCode(seq int64) string {
	return fmt.Sprintf("KH%04d", seq)
}

// Logger is the logging interface the store packages depend on.
type Logger interface {
	Info(msg string, err error, fields ...map[string]interface{})
	Debug(msg string, err error, fields ...map[string]interface{})
	Warn(msg string, err error, fields ...map[string]interface{})
	Error(msg string, err error, fields ...map[string]interface{})
}

// CustomerRegistry creates and resolves customer records. Codes are computed
// from the customer sequence before the persist call; a persist failure after
// the increment permanently skips that sequence value.
type CustomerRegistry struct {
	db     *postgres.Postgres
	seq    *SequenceGenerator
	logger Logger
}

// NewCustomerRegistry returns a registry backed by the given database and
// sequence generator.
func NewCustomerRegistry(db *postgres.Postgres, seq *SequenceGenerator, logger Logger) *CustomerRegistry {
	return &CustomerRegistry{db: db, seq: seq, logger: logger}
}

// Create validates the name, mints the next customer code and persists the
// customer. The code is immutable after creation.
func (r *CustomerRegistry) Create(ctx context.Context, name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}

	seq, err := r.seq.Next(ctx, customerSequence)
	if err != nil {
		return nil, err
	}

	customer := &Customer{
		Name: name,
		Code: FormatCustomerCode(seq),
	}
	if err := r.db.Create(ctx, customer); err != nil {
		// The sequence value consumed above is gone for good; the next
		// successful create simply uses the following one.
		r.logger.Warn("customer persist failed after sequence increment", err, map[string]interface{}{
			"seq":  seq,
			"code": customer.Code,
		})
		return nil, translate(err)
	}
	return customer, nil
}

// Get resolves a customer by id.
func (r *CustomerRegistry) Get(ctx context.Context, id uint) (*Customer, error) {
	var customer Customer
	if err := r.db.First(ctx, &customer, "id = ?", id); err != nil {
		return nil, translate(err)
	}
	return &customer, nil
}

// List returns all customers ordered by code.
func (r *CustomerRegistry) List(ctx context.Context) ([]Customer, error) {
	var customers []Customer
	err := r.db.DB().WithContext(ctx).Order("code ASC").Find(&customers).Error
	if err != nil {
		return nil, translate(err)
	}
	return customers, nil
}

// UpdateName changes a customer's name. The code is kept as-is.
func (r *CustomerRegistry) UpdateName(ctx context.Context, id uint, name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: customer name is required", ErrValidation)
	}

	customer, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.UpdateColumn(ctx, customer, "name", name); err != nil {
		return nil, translate(err)
	}
	customer.Name = name
	return customer, nil
}

// Delete removes a customer by id.
func (r *CustomerRegistry) Delete(ctx context.Context, id uint) error {
	result := r.db.DB().WithContext(ctx).Delete(&Customer{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
