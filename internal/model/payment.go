package model

import "time"

// Payment records money received from a tenant against a contract, as
// stored in the `payments` table.
//
// Fields:
//  ID            – primary key identifier.
//  ContractID    – contract the payment belongs to.
//  PayerID       – paying user (nullable for cash walk-ins).
//  Amount        – amount paid.
//  Method        – payment method (Cash, Bank Transfer, Momo, ...).
//  PaidAt        – when the payment was made.
//  ReferenceCode – optional bank transaction reference.
//  Note          – optional free text.
//  CreatedAt     – row timestamp.
type Payment struct {
    ID            uint64    // payments.id
    ContractID    uint64    // payments.contract_id
    PayerID       *uint64   // payments.payer_id (nullable)
    Amount        float64   // payments.amount
    Method        string    // payments.method
    PaidAt        time.Time // payments.paid_at
    ReferenceCode *string   // payments.reference_code (nullable)
    Note          *string   // payments.note (nullable)
    CreatedAt     time.Time // payments.created_at
}
