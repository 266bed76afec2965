package model

// RoomUtility is a named amenity attached to a room (air conditioner,
// balcony, fridge, ...).  Rows are created and replaced together with
// their room and are removed when the room is deleted.  Utility names are
// freeform tags; duplicates within a room are tolerated.
//
// Fields:
//  UtilityID   – UUIDv7 primary key, generated by the service layer;
//                time-ordered so sorting by it preserves insertion order.
//  RoomID      – owning room (room_utilities.room_id).
//  UtilityName – trimmed, non-empty amenity name.
//  Description – optional free text.
type RoomUtility struct {
    UtilityID   string  // room_utilities.utility_id (UUID)
    RoomID      uint64  // room_utilities.room_id
    UtilityName string  // room_utilities.utility_name
    Description *string // room_utilities.description (nullable)
}
