// Package queue defines message payloads exchanged over the message broker.
package queue

// RoomCreatedEvent is published after a room is successfully created.
// It carries enough information for downstream consumers to log, notify,
// or trigger analytics without querying the primary database.
type RoomCreatedEvent struct {
    RoomID     uint64   `json:"room_id"`
    BuildingID uint64   `json:"building_id"`
    RoomNumber string   `json:"room_number"`
    Status     string   `json:"status"`
    BasePrice  float64  `json:"base_price"`
    Capacity   int      `json:"capacity"`
    Utilities  []string `json:"utilities"`
    PhotoCount int      `json:"photo_count"`
    CreatedBy  uint64   `json:"created_by,omitempty"`
    CreatedAt  string   `json:"created_at"`
}
