package model

import "time"

// Contract status values as stored in the contracts.status column.
const (
    ContractStatusPending    = "PENDING"    // created, waiting for tenant confirmation
    ContractStatusActive     = "ACTIVE"     // currently in force
    ContractStatusExpired    = "EXPIRED"    // past its end date
    ContractStatusTerminated = "TERMINATED" // ended before its end date
)

// ContractStatuses lists the accepted status values in display order.
var ContractStatuses = []string{ContractStatusPending, ContractStatusActive, ContractStatusExpired, ContractStatusTerminated}

// IsValidContractStatus reports whether s is a known contract status.
func IsValidContractStatus(s string) bool {
    for _, v := range ContractStatuses {
        if v == s {
            return true
        }
    }
    return false
}

// Contract represents a rental agreement between a tenant and a room as
// stored in the `contracts` table.  The newest ACTIVE contract per room
// drives the occupancy columns of the room listing.
//
// Fields:
//  ID              – primary key identifier.
//  RoomID          – rented room.
//  TenantID        – representative tenant on the contract.
//  NumberOfTenants – how many people live in the room under this contract.
//  MonthlyRent     – agreed monthly rent.
//  DepositAmount   – optional deposit held.
//  StartDate       – first day of the rental period.
//  EndDate         – optional last day (nil for open-ended contracts).
//  Status          – one of the ContractStatus* constants.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Contract struct {
    ID              uint64     // contracts.id
    RoomID          uint64     // contracts.room_id
    TenantID        uint64     // contracts.tenant_id
    NumberOfTenants int        // contracts.number_of_tenants
    MonthlyRent     float64    // contracts.monthly_rent
    DepositAmount   *float64   // contracts.deposit_amount (nullable)
    StartDate       time.Time  // contracts.start_date
    EndDate         *time.Time // contracts.end_date (nullable)
    Status          string     // contracts.status
    CreatedAt       time.Time  // contracts.created_at
    UpdatedAt       time.Time  // contracts.updated_at
}
