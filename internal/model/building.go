package model

import "time"

// Building represents a property containing one or more rooms, as stored
// in the `buildings` table.  Each building belongs to a managing owner
// and optionally references an address row.
//
// Fields:
//  ID           – primary key identifier.
//  OwnerID      – user managing the building.
//  AddressID    – optional reference into the addresses table.
//  BuildingCode – short unique code per owner (e.g. "B01").
//  BuildingName – human-friendly name.
//  Description  – optional free text.
//  Status       – ACTIVE or INACTIVE.
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Building struct {
    ID           uint64    // buildings.id
    OwnerID      uint64    // buildings.owner_id
    AddressID    *uint64   // buildings.address_id (nullable)
    BuildingCode string    // buildings.building_code
    BuildingName string    // buildings.building_name
    Description  *string   // buildings.description (nullable)
    Status       string    // buildings.status
    CreatedAt    time.Time // buildings.created_at
    UpdatedAt    time.Time // buildings.updated_at
}
