// This file defines repository methods for buildings. A building belongs
// to a single landlord and may contain multiple rooms; deleting a
// building that still has rooms is rejected with ErrConflict.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-rental-management/internal/model"
)

// ErrBuildingNotFound is returned when a building cannot be found in the DB.
var ErrBuildingNotFound = errors.New("building not found")

// ErrBuildingCodeExists is returned when another building already uses
// the requested building code.
var ErrBuildingCodeExists = errors.New("building code already exists")

// BuildingRepo encapsulates all database queries related to buildings.
type BuildingRepo struct {
	db *sql.DB
}

// NewBuildingRepo constructs a BuildingRepo with the provided DB handle.
func NewBuildingRepo(db *sql.DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

const buildingColumns = "id, owner_id, address_id, building_code, building_name, description, status, created_at, updated_at"

func scanBuilding(row rowScanner) (*model.Building, error) {
	var (
		b         model.Building
		addressID sql.NullInt64
		desc      sql.NullString
	)
	err := row.Scan(&b.ID, &b.OwnerID, &addressID, &b.BuildingCode, &b.BuildingName,
		&desc, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if addressID.Valid {
		v := uint64(addressID.Int64)
		b.AddressID = &v
	}
	if desc.Valid {
		b.Description = &desc.String
	}
	return &b, nil
}

// Create inserts a new building. On success the ID and timestamp fields
// are populated from the database.
func (r *BuildingRepo) Create(ctx context.Context, b *model.Building) error {
	const qInsert = `INSERT INTO buildings (owner_id, address_id, building_code, building_name, description, status)
	                 VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		b.OwnerID, nullableUint(b.AddressID), b.BuildingCode, b.BuildingName,
		nullableString(b.Description), b.Status)
	if err != nil {
		if isDuplicateEntry(err) {
			return ErrBuildingCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM buildings WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, b.ID).Scan(&b.CreatedAt, &b.UpdatedAt)
}

// GetByID fetches a building by its ID regardless of owner.
func (r *BuildingRepo) GetByID(ctx context.Context, id uint64) (*model.Building, error) {
	const q = "SELECT " + buildingColumns + " FROM buildings WHERE id = ?"
	b, err := scanBuilding(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuildingNotFound
	}
	return b, err
}

// GetByIDAndOwner fetches a building only if it belongs to the given
// owner. ErrBuildingNotFound is returned otherwise.
func (r *BuildingRepo) GetByIDAndOwner(ctx context.Context, id, ownerID uint64) (*model.Building, error) {
	const q = "SELECT " + buildingColumns + " FROM buildings WHERE id = ? AND owner_id = ?"
	b, err := scanBuilding(r.db.QueryRowContext(ctx, q, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBuildingNotFound
	}
	return b, err
}

// ListByOwner returns all buildings for a specific owner ordered by id.
func (r *BuildingRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]*model.Building, error) {
	const q = "SELECT " + buildingColumns + " FROM buildings WHERE owner_id = ? ORDER BY id"
	rows, err := r.db.QueryContext(ctx, q, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Building
	for rows.Next() {
		b, err := scanBuilding(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Update modifies name, description and status for a building owned by
// the given user. sql.ErrNoRows is returned when no row matched.
func (r *BuildingRepo) Update(ctx context.Context, b *model.Building) error {
	const q = `UPDATE buildings
	           SET building_name = ?, description = ?, status = ?, address_id = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ? AND owner_id = ?`
	res, err := r.db.ExecContext(ctx, q,
		b.BuildingName, nullableString(b.Description), b.Status, nullableUint(b.AddressID),
		b.ID, b.OwnerID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByIDAndOwner removes a building provided it belongs to the
// specified owner and contains no rooms. ErrConflict is returned when
// rooms still reference the building.
func (r *BuildingRepo) DeleteByIDAndOwner(ctx context.Context, id, ownerID uint64) error {
	var dbOwnerID uint64
	err := r.db.QueryRowContext(ctx, "SELECT owner_id FROM buildings WHERE id = ?", id).Scan(&dbOwnerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBuildingNotFound
		}
		return err
	}
	if dbOwnerID != ownerID {
		return ErrForbidden
	}
	var roomCount int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM rooms WHERE building_id = ?", id).Scan(&roomCount); err != nil {
		return err
	}
	if roomCount > 0 {
		return ErrConflict
	}
	_, err = r.db.ExecContext(ctx, "DELETE FROM buildings WHERE id = ?", id)
	return err
}

func nullableString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullableUint(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
