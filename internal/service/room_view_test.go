package service

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"

    "github.com/iliyamo/room-rental-management/internal/model"
)

func TestBuildRoomDetailViewOrdersPhotosBySortOrder(t *testing.T) {
    name := "Studio 1BR"
    rm := &model.Room{
        ID:         3,
        BuildingID: 1,
        RoomNumber: "A202",
        RoomName:   &name,
        Capacity:   2,
        BasePrice:  5000000,
        Status:     model.RoomStatusAvailable,
        Utilities: []model.RoomUtility{
            {UtilityName: "Air conditioner"},
            {UtilityName: "Balcony"},
            {UtilityName: "Air conditioner"}, // duplicates are tolerated
        },
        Photos: []model.RoomPhoto{
            {URL: "https://x/3.jpg", SortOrder: 2},
            {URL: "https://x/1.jpg", SortOrder: 0, IsPrimary: true},
            {URL: "https://x/2.jpg", SortOrder: 1},
        },
        CreatedAt: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
        UpdatedAt: time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC),
    }

    view := BuildRoomDetailView(rm)

    assert.Equal(t, []string{"Air conditioner", "Balcony", "Air conditioner"}, view.Utilities)
    assert.Equal(t, []string{"https://x/1.jpg", "https://x/2.jpg", "https://x/3.jpg"}, view.PhotoURLs)
    assert.Equal(t, rm.ID, view.ID)
    assert.Equal(t, &name, view.RoomName)
    assert.Equal(t, rm.BasePrice, view.BasePrice)

    // The input slice must not be reordered by the mapper.
    assert.Equal(t, "https://x/3.jpg", rm.Photos[0].URL)
}

func TestBuildRoomDetailViewEmptyRelations(t *testing.T) {
    rm := &model.Room{ID: 1, BuildingID: 1, RoomNumber: "101", Capacity: 1, BasePrice: 1, Status: model.RoomStatusAvailable}

    view := BuildRoomDetailView(rm)

    assert.NotNil(t, view.Utilities)
    assert.NotNil(t, view.PhotoURLs)
    assert.Empty(t, view.Utilities)
    assert.Empty(t, view.PhotoURLs)
}
