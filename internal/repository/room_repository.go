// Package repository contains data access logic separated from HTTP handlers
// and services.  This file defines the room repository: point lookups,
// existence checks, paginated listings and the transactional write surface
// used by the room workflow service.  The repository performs no validation;
// store-level errors propagate unchanged to the caller.
package repository

import (
    "context"
    "database/sql"
    "encoding/json"
    "strings"

    "github.com/iliyamo/room-rental-management/internal/model"
)

// RoomRepo encapsulates all database queries related to rooms and their
// owned utility and photo rows.  It depends on a sql.DB connection pool
// configured at startup; the room service consumes it through its store
// interface.
type RoomRepo struct {
    db *sql.DB
}

// NewRoomRepo constructs a RoomRepo with the provided DB handle.  This
// allows dependency injection of the database in tests and at startup.
func NewRoomRepo(db *sql.DB) *RoomRepo {
    return &RoomRepo{db: db}
}

// roomColumns is the canonical select list for the rooms table.  Every
// scan of a full room row goes through scanRoom with this column order.
const roomColumns = `id, building_id, room_number, room_name, area, capacity,
       base_price, electricity_price, water_price_per_person, deposit_amount,
       default_service_fees, status, description, created_at, updated_at`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}

// scanRoom reads one roomColumns row into a model.Room.  Nullable columns
// are mapped to pointer fields and the JSON fee column is unmarshalled
// into its typed slice.
func scanRoom(s rowScanner) (*model.Room, error) {
    var (
        rm       model.Room
        roomName sql.NullString
        area     sql.NullFloat64
        elec     sql.NullFloat64
        water    sql.NullFloat64
        deposit  sql.NullFloat64
        fees     []byte
        desc     sql.NullString
    )
    if err := s.Scan(
        &rm.ID, &rm.BuildingID, &rm.RoomNumber, &roomName, &area, &rm.Capacity,
        &rm.BasePrice, &elec, &water, &deposit,
        &fees, &rm.Status, &desc, &rm.CreatedAt, &rm.UpdatedAt,
    ); err != nil {
        return nil, err
    }
    if roomName.Valid {
        v := roomName.String
        rm.RoomName = &v
    }
    if area.Valid {
        v := area.Float64
        rm.Area = &v
    }
    if elec.Valid {
        v := elec.Float64
        rm.ElectricityPrice = &v
    }
    if water.Valid {
        v := water.Float64
        rm.WaterPricePerPerson = &v
    }
    if deposit.Valid {
        v := deposit.Float64
        rm.DepositAmount = &v
    }
    if desc.Valid {
        v := desc.String
        rm.Description = &v
    }
    if len(fees) > 0 {
        if err := json.Unmarshal(fees, &rm.ServiceFees); err != nil {
            return nil, err
        }
    }
    return &rm, nil
}

// FindByID fetches a room by its ID without loading related rows.  It
// returns (nil, nil) when no room exists so that callers decide how a
// missing row is reported.
func (r *RoomRepo) FindByID(ctx context.Context, id uint64) (*model.Room, error) {
    const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
    rm, err := scanRoom(r.db.QueryRowContext(ctx, q, id))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return rm, nil
}

// FindByIDWithRelations fetches a room by its ID and eagerly loads its
// utility rows and photo rows (ascending sort order).  Utility IDs are
// UUIDv7, so ordering by utility_id yields insertion order.
// Returns (nil, nil) when the room does not exist.
func (r *RoomRepo) FindByIDWithRelations(ctx context.Context, id uint64) (*model.Room, error) {
    rm, err := r.FindByID(ctx, id)
    if err != nil || rm == nil {
        return rm, err
    }

    const utilQ = `SELECT utility_id, room_id, utility_name, description
                   FROM room_utilities WHERE room_id = ? ORDER BY utility_id`
    rows, err := r.db.QueryContext(ctx, utilQ, id)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var (
            u    model.RoomUtility
            desc sql.NullString
        )
        if err := rows.Scan(&u.UtilityID, &u.RoomID, &u.UtilityName, &desc); err != nil {
            return nil, err
        }
        if desc.Valid {
            v := desc.String
            u.Description = &v
        }
        rm.Utilities = append(rm.Utilities, u)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }

    const photoQ = `SELECT id, room_id, url, is_primary, sort_order, uploaded_by, created_at
                    FROM room_photos WHERE room_id = ? ORDER BY sort_order`
    prows, err := r.db.QueryContext(ctx, photoQ, id)
    if err != nil {
        return nil, err
    }
    defer prows.Close()
    for prows.Next() {
        var p model.RoomPhoto
        if err := prows.Scan(&p.ID, &p.RoomID, &p.URL, &p.IsPrimary, &p.SortOrder, &p.UploadedBy, &p.CreatedAt); err != nil {
            return nil, err
        }
        rm.Photos = append(rm.Photos, p)
    }
    if err := prows.Err(); err != nil {
        return nil, err
    }
    return rm, nil
}

// FindByBuildingAndNumber returns the room holding the given
// (building_id, room_number) pair, or (nil, nil) when the pair is free.
// It is used by the service for uniqueness checks before writes.
func (r *RoomRepo) FindByBuildingAndNumber(ctx context.Context, buildingID uint64, roomNumber string) (*model.Room, error) {
    const q = `SELECT ` + roomColumns + ` FROM rooms WHERE building_id = ? AND room_number = ?`
    rm, err := scanRoom(r.db.QueryRowContext(ctx, q, buildingID, roomNumber))
    if err != nil {
        if err == sql.ErrNoRows {
            return nil, nil
        }
        return nil, err
    }
    return rm, nil
}

// roomFilterClause renders the optional building/status filter into a
// WHERE fragment and its arguments.  Unset filter fields are ignored.
func roomFilterClause(f model.RoomFilter, alias string) (string, []any) {
    var (
        conds []string
        args  []any
    )
    if f.BuildingID != nil {
        conds = append(conds, alias+"building_id = ?")
        args = append(args, *f.BuildingID)
    }
    if f.Status != nil {
        conds = append(conds, alias+"status = ?")
        args = append(args, *f.Status)
    }
    if len(conds) == 0 {
        return "", nil
    }
    return " WHERE " + strings.Join(conds, " AND "), args
}

// List returns plain room rows matching the filter, ordered by id, with
// offset/limit forwarded verbatim.  Related rows are not loaded.
func (r *RoomRepo) List(ctx context.Context, f model.RoomFilter, offset, limit int) ([]*model.Room, error) {
    where, args := roomFilterClause(f, "")
    q := `SELECT ` + roomColumns + ` FROM rooms` + where + ` ORDER BY id LIMIT ? OFFSET ?`
    args = append(args, limit, offset)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []*model.Room
    for rows.Next() {
        rm, err := scanRoom(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, rm)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// ListWithOccupancy returns denormalized listing rows: each room joined
// with its building name and, when present, the newest ACTIVE contract's
// tenant count and representative tenant name.  The ranked join picks
// one contract per room (partition by room, newest created_at first);
// rooms without an ACTIVE contract report zero occupants and a NULL
// representative.
func (r *RoomRepo) ListWithOccupancy(ctx context.Context, f model.RoomFilter, offset, limit int) ([]model.RoomOccupancyRow, error) {
    where, args := roomFilterClause(f, "r.")
    q := `SELECT r.id, r.room_number, b.building_name, r.area, r.capacity,
                 COALESCE(ac.number_of_tenants, 0), r.status, r.base_price,
                 CONCAT(u.last_name, ' ', u.first_name)
          FROM rooms r
          JOIN buildings b ON b.id = r.building_id
          LEFT JOIN (
              SELECT c.room_id, c.tenant_id, c.number_of_tenants,
                     ROW_NUMBER() OVER (PARTITION BY c.room_id ORDER BY c.created_at DESC) AS rn
              FROM contracts c
              WHERE c.status = 'ACTIVE'
          ) ac ON ac.room_id = r.id AND ac.rn = 1
          LEFT JOIN users u ON u.id = ac.tenant_id` +
        where + ` ORDER BY r.id LIMIT ? OFFSET ?`
    args = append(args, limit, offset)
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.RoomOccupancyRow, 0)
    for rows.Next() {
        var (
            row  model.RoomOccupancyRow
            area sql.NullFloat64
            rep  sql.NullString
        )
        if err := rows.Scan(
            &row.ID, &row.RoomNumber, &row.BuildingName, &area, &row.Capacity,
            &row.CurrentOccupants, &row.Status, &row.BasePrice, &rep,
        ); err != nil {
            return nil, err
        }
        if area.Valid {
            v := area.Float64
            row.Area = &v
        }
        if rep.Valid && strings.TrimSpace(rep.String) != "" {
            v := rep.String
            row.Representative = &v
        }
        out = append(out, row)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Count returns the total number of rooms matching the filter.  The
// filter semantics are identical to List and ListWithOccupancy.
func (r *RoomRepo) Count(ctx context.Context, f model.RoomFilter) (int, error) {
    where, args := roomFilterClause(f, "")
    var n int
    if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rooms`+where, args...).Scan(&n); err != nil {
        return 0, err
    }
    return n, nil
}

// Begin opens a database transaction and wraps it in a RoomTx.  The
// caller owns the commit boundary: every staged write is invisible until
// Commit and discarded on Rollback.
func (r *RoomRepo) Begin(ctx context.Context) (*RoomTx, error) {
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return nil, err
    }
    return &RoomTx{tx: tx}, nil
}

// RoomTx is a unit of work over the room aggregate on top of a *sql.Tx.
// All methods stage writes only; nothing is durable until Commit.
type RoomTx struct {
    tx *sql.Tx
}

// InsertRoom stages a new room row.  On success the generated ID and the
// database-assigned timestamps are populated on the provided struct; the
// row itself stays invisible until Commit.
func (t *RoomTx) InsertRoom(ctx context.Context, rm *model.Room) error {
    fees, err := marshalFees(rm.ServiceFees)
    if err != nil {
        return err
    }
    const q = `INSERT INTO rooms
        (building_id, room_number, room_name, area, capacity, base_price,
         electricity_price, water_price_per_person, deposit_amount,
         default_service_fees, status, description)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`
    res, err := t.tx.ExecContext(ctx, q,
        rm.BuildingID, rm.RoomNumber, rm.RoomName, rm.Area, rm.Capacity, rm.BasePrice,
        rm.ElectricityPrice, rm.WaterPricePerPerson, rm.DepositAmount,
        fees, rm.Status, rm.Description)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rm.ID = uint64(id)
    // Query back the timestamps so the caller holds a fully populated row.
    const sel = `SELECT created_at, updated_at FROM rooms WHERE id = ?`
    return t.tx.QueryRowContext(ctx, sel, rm.ID).Scan(&rm.CreatedAt, &rm.UpdatedAt)
}

// UpdateRoom stages an update of every scalar column of an existing room
// row.  The service applies its typed patch in memory first, so writing
// the full column set preserves the strict partial-update contract.
func (t *RoomTx) UpdateRoom(ctx context.Context, rm *model.Room) error {
    fees, err := marshalFees(rm.ServiceFees)
    if err != nil {
        return err
    }
    const q = `UPDATE rooms SET
        building_id = ?, room_number = ?, room_name = ?, area = ?, capacity = ?,
        base_price = ?, electricity_price = ?, water_price_per_person = ?,
        deposit_amount = ?, default_service_fees = ?, status = ?, description = ?,
        updated_at = CURRENT_TIMESTAMP
        WHERE id = ?`
    res, err := t.tx.ExecContext(ctx, q,
        rm.BuildingID, rm.RoomNumber, rm.RoomName, rm.Area, rm.Capacity,
        rm.BasePrice, rm.ElectricityPrice, rm.WaterPricePerPerson,
        rm.DepositAmount, fees, rm.Status, rm.Description, rm.ID)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return sql.ErrNoRows
    }
    return nil
}

// DeleteRoom stages removal of the room row.  Utility and photo rows
// must already be staged for deletion to satisfy referential constraints.
func (t *RoomTx) DeleteRoom(ctx context.Context, roomID uint64) error {
    _, err := t.tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, roomID)
    return err
}

// InsertUtilities stages multiple room_utilities rows in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (t *RoomTx) InsertUtilities(ctx context.Context, utilities []model.RoomUtility) error {
    if len(utilities) == 0 {
        return nil
    }
    query := `INSERT INTO room_utilities (utility_id, room_id, utility_name, description) VALUES `
    args := make([]any, 0, len(utilities)*4)
    for i, u := range utilities {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?)"
        args = append(args, u.UtilityID, u.RoomID, u.UtilityName, u.Description)
    }
    _, err := t.tx.ExecContext(ctx, query, args...)
    return err
}

// DeleteUtilities stages removal of every utility row of a room.
func (t *RoomTx) DeleteUtilities(ctx context.Context, roomID uint64) error {
    _, err := t.tx.ExecContext(ctx, `DELETE FROM room_utilities WHERE room_id = ?`, roomID)
    return err
}

// InsertPhotos stages multiple room_photos rows in a single statement.
// Passing an empty slice has no effect and returns nil.
func (t *RoomTx) InsertPhotos(ctx context.Context, photos []model.RoomPhoto) error {
    if len(photos) == 0 {
        return nil
    }
    query := `INSERT INTO room_photos (room_id, url, is_primary, sort_order, uploaded_by) VALUES `
    args := make([]any, 0, len(photos)*5)
    for i, p := range photos {
        if i > 0 {
            query += ","
        }
        query += "(?, ?, ?, ?, ?)"
        args = append(args, p.RoomID, p.URL, p.IsPrimary, p.SortOrder, p.UploadedBy)
    }
    _, err := t.tx.ExecContext(ctx, query, args...)
    return err
}

// DeletePhotos stages removal of every photo row of a room.
func (t *RoomTx) DeletePhotos(ctx context.Context, roomID uint64) error {
    _, err := t.tx.ExecContext(ctx, `DELETE FROM room_photos WHERE room_id = ?`, roomID)
    return err
}

// Commit makes all staged writes durable as one atomic unit.
func (t *RoomTx) Commit() error { return t.tx.Commit() }

// Rollback discards all staged writes.  Calling it after a successful
// Commit is a harmless no-op from the caller's perspective.
func (t *RoomTx) Rollback() error { return t.tx.Rollback() }

// marshalFees renders the service fee slice as JSON for the
// default_service_fees column; a nil slice maps to NULL.
func marshalFees(fees []model.ServiceFee) (any, error) {
    if fees == nil {
        return nil, nil
    }
    b, err := json.Marshal(fees)
    if err != nil {
        return nil, err
    }
    return b, nil
}
