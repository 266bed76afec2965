package model

import "time"

// Address is a postal address referenced by buildings.
//
// Fields:
//  ID          – primary key identifier.
//  AddressLine – street address.
//  Ward        – ward or district subdivision.
//  City        – city name.
//  Country     – country name, defaults to "Vietnam".
//  FullAddress – optional pre-rendered full address string.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Address struct {
    ID          uint64    // addresses.id
    AddressLine string    // addresses.address_line
    Ward        string    // addresses.ward
    City        string    // addresses.city
    Country     string    // addresses.country
    FullAddress *string   // addresses.full_address (nullable)
    CreatedAt   time.Time // addresses.created_at
    UpdatedAt   time.Time // addresses.updated_at
}
