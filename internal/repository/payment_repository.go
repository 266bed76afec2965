// This file defines repository methods for payments recorded against
// contracts. Payments are append-only; corrections are made by adding
// compensating rows rather than editing history.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/room-rental-management/internal/model"
)

// ErrPaymentNotFound is returned when a payment cannot be found in the DB.
var ErrPaymentNotFound = errors.New("payment not found")

// PaymentRepo encapsulates all database queries related to payments.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo constructs a PaymentRepo with the provided DB handle.
func NewPaymentRepo(db *sql.DB) *PaymentRepo {
	return &PaymentRepo{db: db}
}

const paymentColumns = "id, contract_id, payer_id, amount, method, paid_at, reference_code, note, created_at"

func scanPayment(row rowScanner) (*model.Payment, error) {
	var (
		p       model.Payment
		payerID sql.NullInt64
		refCode sql.NullString
		note    sql.NullString
	)
	err := row.Scan(&p.ID, &p.ContractID, &payerID, &p.Amount, &p.Method,
		&p.PaidAt, &refCode, &note, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	if payerID.Valid {
		v := uint64(payerID.Int64)
		p.PayerID = &v
	}
	if refCode.Valid {
		p.ReferenceCode = &refCode.String
	}
	if note.Valid {
		p.Note = &note.String
	}
	return &p, nil
}

// Create inserts a payment row and populates ID and CreatedAt.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const qInsert = `INSERT INTO payments (contract_id, payer_id, amount, method, paid_at, reference_code, note)
	                 VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, qInsert,
		p.ContractID, nullableUint(p.PayerID), p.Amount, p.Method, p.PaidAt,
		nullableString(p.ReferenceCode), nullableString(p.Note))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)

	const qSelect = "SELECT created_at FROM payments WHERE id = ?"
	return r.db.QueryRowContext(ctx, qSelect, p.ID).Scan(&p.CreatedAt)
}

// GetByID fetches a payment by its ID.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (*model.Payment, error) {
	const q = "SELECT " + paymentColumns + " FROM payments WHERE id = ?"
	p, err := scanPayment(r.db.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPaymentNotFound
	}
	return p, err
}

// ListByContract returns all payments recorded for a contract, newest first.
func (r *PaymentRepo) ListByContract(ctx context.Context, contractID uint64) ([]*model.Payment, error) {
	const q = "SELECT " + paymentColumns + " FROM payments WHERE contract_id = ? ORDER BY paid_at DESC, id DESC"
	rows, err := r.db.QueryContext(ctx, q, contractID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// SumByContract returns the total amount paid on a contract.
func (r *PaymentRepo) SumByContract(ctx context.Context, contractID uint64) (float64, error) {
	var total sql.NullFloat64
	err := r.db.QueryRowContext(ctx,
		"SELECT SUM(amount) FROM payments WHERE contract_id = ?", contractID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Float64, nil
}
