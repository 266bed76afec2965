package model

import "time"

// Room status values as stored in the rooms.status column.  The set is
// closed; the service layer rejects anything outside of it.
const (
    RoomStatusAvailable   = "AVAILABLE"   // ready to be rented
    RoomStatusOccupied    = "OCCUPIED"    // currently rented out
    RoomStatusMaintenance = "MAINTENANCE" // temporarily unavailable
    RoomStatusReserved    = "RESERVED"    // held for a pending contract
)

// RoomStatuses lists every valid room status in a stable order.  It is
// used to validate inputs and to build error messages that name the
// allowed values.
var RoomStatuses = []string{
    RoomStatusAvailable,
    RoomStatusOccupied,
    RoomStatusMaintenance,
    RoomStatusReserved,
}

// IsValidRoomStatus reports whether s is one of the four known statuses.
func IsValidRoomStatus(s string) bool {
    for _, v := range RoomStatuses {
        if s == v {
            return true
        }
    }
    return false
}

// ServiceFee is a single recurring fee attached to a room, stored inside
// the rooms.default_service_fees JSON column (e.g. {"name":"Internet",
// "amount":100000}).
type ServiceFee struct {
    Name   string  `json:"name"`
    Amount float64 `json:"amount"`
}

// Room represents a rentable unit inside a building as stored in the
// `rooms` table.  Monetary columns are DECIMAL(15,2) in the database and
// scanned into float64; nullable columns use pointers so that nil means
// the column is NULL.
//
// The pair (BuildingID, RoomNumber) is unique across all rooms and is
// additionally declared as a UNIQUE key in the schema so concurrent
// creates cannot slip past the service-level pre-check.
//
// Fields:
//  ID                  – primary key identifier.
//  BuildingID          – owning building (rooms.building_id).
//  RoomNumber          – number unique within the building (e.g. "101", "A202").
//  RoomName            – optional display name (e.g. "Studio 1BR").
//  Area                – optional floor area in m².
//  Capacity            – maximum number of occupants, at least 1.
//  BasePrice           – monthly base rent, must be positive.
//  ElectricityPrice    – optional price per kWh.
//  WaterPricePerPerson – optional water price per person per month.
//  DepositAmount       – optional deposit.
//  ServiceFees         – optional default recurring fees (JSON column).
//  Status              – one of the RoomStatus* constants.
//  Description         – optional free text.
//  Utilities           – loaded amenity rows (only via FindByIDWithRelations).
//  Photos              – loaded photo rows (only via FindByIDWithRelations).
//  CreatedAt/UpdatedAt – row timestamps.
type Room struct {
    ID                  uint64       // rooms.id
    BuildingID          uint64       // rooms.building_id
    RoomNumber          string       // rooms.room_number
    RoomName            *string      // rooms.room_name (nullable)
    Area                *float64     // rooms.area (nullable)
    Capacity            int          // rooms.capacity
    BasePrice           float64      // rooms.base_price
    ElectricityPrice    *float64     // rooms.electricity_price (nullable)
    WaterPricePerPerson *float64     // rooms.water_price_per_person (nullable)
    DepositAmount       *float64     // rooms.deposit_amount (nullable)
    ServiceFees         []ServiceFee // rooms.default_service_fees (JSON, nullable)
    Status              string       // rooms.status
    Description         *string      // rooms.description (nullable)
    Utilities           []RoomUtility
    Photos              []RoomPhoto
    CreatedAt           time.Time // rooms.created_at
    UpdatedAt           time.Time // rooms.updated_at
}

// RoomFilter narrows room listings.  A nil field is ignored.
type RoomFilter struct {
    BuildingID *uint64
    Status     *string
}

// RoomOccupancyRow is one denormalized row of the room listing: the room
// joined with its building name and, when an ACTIVE contract exists, the
// newest such contract's tenant count and the tenant's full name.  Rooms
// without an ACTIVE contract report zero occupants and no representative.
type RoomOccupancyRow struct {
    ID               uint64
    RoomNumber       string
    BuildingName     string
    Area             *float64
    Capacity         int
    CurrentOccupants int
    Status           string
    BasePrice        float64
    Representative   *string
}
