// This file defines repository methods for rental contracts. A contract
// binds a tenant to a room for a period of time; at most one ACTIVE
// contract per room is expected and the newest one determines the
// room's current occupancy.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-rental-management/internal/model"
)

// ErrContractNotFound is returned when a contract cannot be found in the DB.
var ErrContractNotFound = errors.New("contract not found")

// ContractRepo encapsulates all database queries related to contracts.
type ContractRepo struct {
	db *sql.DB
}

// NewContractRepo constructs a ContractRepo with the provided DB handle.
func NewContractRepo(db *sql.DB) *ContractRepo {
	return &ContractRepo{db: db}
}

const contractColumns = "id, room_id, tenant_id, number_of_tenants, monthly_rent, deposit_amount, start_date, end_date, status, created_at, updated_at"

func scanContract(row rowScanner) (*model.Contract, error) {
	var (
		c       model.Contract
		deposit sql.NullFloat64
		endDate sql.NullTime
	)
	err := row.Scan(&c.ID, &c.RoomID, &c.TenantID, &c.NumberOfTenants, &c.MonthlyRent,
		&deposit, &c.StartDate, &endDate, &c.Status, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if deposit.Valid {
		c.DepositAmount = &deposit.Float64
	}
	if endDate.Valid {
		c.EndDate = &endDate.Time
	}
	return &c, nil
}

// Create inserts a new contract and populates ID and timestamps.
func (r *ContractRepo) Create(ctx context.Context, c *model.Contract) error {
	const qInsert = `INSERT INTO contracts (room_id, tenant_id, number_of_tenants, monthly_rent, deposit_amount, start_date, end_date, status)
	                 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	var deposit, endDate interface{}
	if c.DepositAmount != nil {
		deposit = *c.DepositAmount
	}
	if c.EndDate != nil {
		endDate = *c.EndDate
	}
	res, err := r.db.ExecContext(ctx, qInsert,
		c.RoomID, c.TenantID, c.NumberOfTenants, c.MonthlyRent, deposit,
		c.StartDate, endDate, c.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)

	const qSelect = "SELECT created_at, updated_at FROM contracts WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, c.ID).Scan(&c.CreatedAt, &c.UpdatedAt)
}

// GetByID fetches a contract by its ID.
func (r *ContractRepo) GetByID(ctx context.Context, id uint64) (*model.Contract, error) {
	const q = "SELECT " + contractColumns + " FROM contracts WHERE id = ?"
	c, err := scanContract(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrContractNotFound
	}
	return c, err
}

// ListByRoom returns all contracts for a room, newest first.
func (r *ContractRepo) ListByRoom(ctx context.Context, roomID uint64) ([]*model.Contract, error) {
	const q = "SELECT " + contractColumns + " FROM contracts WHERE room_id = ? ORDER BY created_at DESC, id DESC"
	return r.list(ctx, q, roomID)
}

// ListByTenant returns all contracts for a tenant, newest first.
func (r *ContractRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]*model.Contract, error) {
	const q = "SELECT " + contractColumns + " FROM contracts WHERE tenant_id = ? ORDER BY created_at DESC, id DESC"
	return r.list(ctx, q, tenantID)
}

func (r *ContractRepo) list(ctx context.Context, q string, arg interface{}) ([]*model.Contract, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Contract
	for rows.Next() {
		c, err := scanContract(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// HasActiveByRoom reports whether the room has at least one ACTIVE contract.
func (r *ContractRepo) HasActiveByRoom(ctx context.Context, roomID uint64) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contracts WHERE room_id = ? AND status = ?",
		roomID, model.ContractStatusActive).Scan(&n)
	return n > 0, err
}

// UpdateStatus transitions a contract to the given status.
// sql.ErrNoRows is returned when the contract does not exist.
func (r *ContractRepo) UpdateStatus(ctx context.Context, id uint64, status string) error {
	const q = `UPDATE contracts
	           SET status = ?, updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
