package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/cardshop/hotspot-api/internal/models"
)

// AddressRepository persists shipping addresses.
type AddressRepository struct {
	db *sqlx.DB
}

// NewAddressRepository constructs an AddressRepository.
func NewAddressRepository(db *sqlx.DB) *AddressRepository {
	return &AddressRepository{db: db}
}

// ListByOrganization returns the organization's addresses by name.
func (r *AddressRepository) ListByOrganization(ctx context.Context, organization string) ([]models.Address, error) {
	const query = `SELECT id, organization, name, recipient, email, phone, address, country
FROM addresses WHERE organization = $1 ORDER BY name ASC, id ASC`
	addresses := []models.Address{}
	if err := r.db.SelectContext(ctx, &addresses, query, organization); err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return addresses, nil
}

// FindByID fetches an address. Missing rows yield sql.ErrNoRows.
func (r *AddressRepository) FindByID(ctx context.Context, id int64) (*models.Address, error) {
	const query = `SELECT id, organization, name, recipient, email, phone, address, country FROM addresses WHERE id = $1`
	var address models.Address
	if err := r.db.GetContext(ctx, &address, query, id); err != nil {
		return nil, err
	}
	return &address, nil
}

// Create inserts the address and fills its id.
func (r *AddressRepository) Create(ctx context.Context, address *models.Address) error {
	const query = `INSERT INTO addresses (organization, name, recipient, email, phone, address, country)
VALUES (:organization, :name, :recipient, :email, :phone, :address, :country) RETURNING id`
	stmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare create address: %w", err)
	}
	defer stmt.Close() //nolint:errcheck
	if err := stmt.GetContext(ctx, &address.ID, address); err != nil {
		return fmt.Errorf("create address: %w", err)
	}
	return nil
}

// Update overwrites every mutable column. A missing row yields sql.ErrNoRows.
func (r *AddressRepository) Update(ctx context.Context, address *models.Address) error {
	const query = `UPDATE addresses SET name = :name, recipient = :recipient, email = :email, phone = :phone,
address = :address, country = :country WHERE id = :id AND organization = :organization`
	res, err := r.db.NamedExecContext(ctx, query, address)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update address rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
