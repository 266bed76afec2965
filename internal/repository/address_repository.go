// This file defines repository methods for addresses. Addresses are
// referenced by buildings through buildings.address_id and carry a
// denormalized full_address column for display.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-rental-management/internal/model"
)

// ErrAddressNotFound is returned when an address cannot be found in the DB.
var ErrAddressNotFound = errors.New("address not found")

// AddressRepo encapsulates all database queries related to addresses.
type AddressRepo struct {
	db *sql.DB
}

// NewAddressRepo constructs an AddressRepo with the provided DB handle.
func NewAddressRepo(db *sql.DB) *AddressRepo {
	return &AddressRepo{db: db}
}

const addressColumns = "id, address_line, ward, city, country, full_address, created_at, updated_at"

func scanAddress(row rowScanner) (*model.Address, error) {
	var (
		a    model.Address
		full sql.NullString
	)
	err := row.Scan(&a.ID, &a.AddressLine, &a.Ward, &a.City, &a.Country,
		&full, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if full.Valid {
		a.FullAddress = &full.String
	}
	return &a, nil
}

// Create inserts a new address and populates ID and timestamps.
func (r *AddressRepo) Create(ctx context.Context, a *model.Address) error {
	const qInsert = `INSERT INTO addresses (address_line, ward, city, country, full_address)
	                 VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		a.AddressLine, a.Ward, a.City, a.Country, nullableString(a.FullAddress))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM addresses WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, a.ID).Scan(&a.CreatedAt, &a.UpdatedAt)
}

// GetByID fetches an address by its ID.
func (r *AddressRepo) GetByID(ctx context.Context, id uint64) (*model.Address, error) {
	const q = "SELECT " + addressColumns + " FROM addresses WHERE id = ?"
	a, err := scanAddress(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAddressNotFound
	}
	return a, err
}

// List returns all addresses ordered by id.
func (r *AddressRepo) List(ctx context.Context) ([]*model.Address, error) {
	const q = "SELECT " + addressColumns + " FROM addresses ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update rewrites all mutable columns of an address. sql.ErrNoRows is
// returned when the address does not exist.
func (r *AddressRepo) Update(ctx context.Context, a *model.Address) error {
	const q = `UPDATE addresses
	           SET address_line = ?, ward = ?, city = ?, country = ?, full_address = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q,
		a.AddressLine, a.Ward, a.City, a.Country, nullableString(a.FullAddress), a.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes an address unless a building still references it, in
// which case ErrConflict is returned.
func (r *AddressRepo) Delete(ctx context.Context, id uint64) error {
	var refs int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM buildings WHERE address_id = ?", id).Scan(&refs); err != nil {
		return err
	}
	if refs > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, "DELETE FROM addresses WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrAddressNotFound
	}
	return nil
}
