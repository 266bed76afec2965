package model

import "time"

// RoomPhoto is an ordered image reference attached to a room.  The photo
// at sort order zero is the primary one.  Photos always carry the user
// who uploaded them; photo mutations without an acting user are rejected
// by the service layer.
//
// Fields:
//  ID         – primary key identifier.
//  RoomID     – owning room (room_photos.room_id).
//  URL        – image location.
//  IsPrimary  – true only for the photo at sort order zero.
//  SortOrder  – zero-based display position.
//  UploadedBy – user who supplied the photo.
//  CreatedAt  – row timestamp.
type RoomPhoto struct {
    ID         uint64    // room_photos.id
    RoomID     uint64    // room_photos.room_id
    URL        string    // room_photos.url
    IsPrimary  bool      // room_photos.is_primary
    SortOrder  int       // room_photos.sort_order
    UploadedBy uint64    // room_photos.uploaded_by
    CreatedAt  time.Time // room_photos.created_at
}
