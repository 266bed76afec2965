package service

import (
    "sort"
    "time"

    "github.com/iliyamo/room-rental-management/internal/model"
)

// RoomDetailView is the outward representation of a room aggregate:
// scalar fields, utility names in insertion order and photo URLs ordered
// by ascending sort order.
type RoomDetailView struct {
    ID                  uint64             `json:"id"`
    BuildingID          uint64             `json:"building_id"`
    RoomNumber          string             `json:"room_number"`
    RoomName            *string            `json:"room_name,omitempty"`
    Area                *float64           `json:"area,omitempty"`
    Capacity            int                `json:"capacity"`
    BasePrice           float64            `json:"base_price"`
    ElectricityPrice    *float64           `json:"electricity_price,omitempty"`
    WaterPricePerPerson *float64           `json:"water_price_per_person,omitempty"`
    DepositAmount       *float64           `json:"deposit_amount,omitempty"`
    ServiceFees         []model.ServiceFee `json:"default_service_fees,omitempty"`
    Status              string             `json:"status"`
    Description         *string            `json:"description,omitempty"`
    Utilities           []string           `json:"utilities"`
    PhotoURLs           []string           `json:"photo_urls"`
    CreatedAt           time.Time          `json:"created_at"`
    UpdatedAt           time.Time          `json:"updated_at"`
}

// RoomListItem is one row of the paginated room listing, denormalized
// with building and occupancy details.
type RoomListItem struct {
    ID               uint64   `json:"id"`
    RoomNumber       string   `json:"room_number"`
    BuildingName     string   `json:"building_name"`
    Area             *float64 `json:"area,omitempty"`
    Capacity         int      `json:"capacity"`
    CurrentOccupants int      `json:"current_occupants"`
    Status           string   `json:"status"`
    BasePrice        float64  `json:"base_price"`
    Representative   *string  `json:"representative,omitempty"`
}

// RoomPage wraps a listing page with its total count and the effective
// offset/limit used after clamping.
type RoomPage struct {
    Items  []RoomListItem `json:"items"`
    Total  int            `json:"total"`
    Offset int            `json:"offset"`
    Limit  int            `json:"limit"`
}

// BuildRoomDetailView maps a room with loaded relations to its view.
// It is a pure function: utilities keep their insertion order, photos
// are sorted by ascending sort order, and the input is not mutated.
func BuildRoomDetailView(rm *model.Room) RoomDetailView {
    utilities := make([]string, 0, len(rm.Utilities))
    for _, u := range rm.Utilities {
        utilities = append(utilities, u.UtilityName)
    }

    photos := make([]model.RoomPhoto, len(rm.Photos))
    copy(photos, rm.Photos)
    sort.SliceStable(photos, func(i, j int) bool { return photos[i].SortOrder < photos[j].SortOrder })
    photoURLs := make([]string, 0, len(photos))
    for _, p := range photos {
        photoURLs = append(photoURLs, p.URL)
    }

    return RoomDetailView{
        ID:                  rm.ID,
        BuildingID:          rm.BuildingID,
        RoomNumber:          rm.RoomNumber,
        RoomName:            rm.RoomName,
        Area:                rm.Area,
        Capacity:            rm.Capacity,
        BasePrice:           rm.BasePrice,
        ElectricityPrice:    rm.ElectricityPrice,
        WaterPricePerPerson: rm.WaterPricePerPerson,
        DepositAmount:       rm.DepositAmount,
        ServiceFees:         rm.ServiceFees,
        Status:              rm.Status,
        Description:         rm.Description,
        Utilities:           utilities,
        PhotoURLs:           photoURLs,
        CreatedAt:           rm.CreatedAt,
        UpdatedAt:           rm.UpdatedAt,
    }
}

// buildListItems maps occupancy rows to list items one to one.
func buildListItems(rows []model.RoomOccupancyRow) []RoomListItem {
    items := make([]RoomListItem, 0, len(rows))
    for _, r := range rows {
        items = append(items, RoomListItem{
            ID:               r.ID,
            RoomNumber:       r.RoomNumber,
            BuildingName:     r.BuildingName,
            Area:             r.Area,
            Capacity:         r.Capacity,
            CurrentOccupants: r.CurrentOccupants,
            Status:           r.Status,
            BasePrice:        r.BasePrice,
            Representative:   r.Representative,
        })
    }
    return items
}
