package handler

import (
    "encoding/json"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

// The update body must distinguish three cases per list field: key absent
// (preserve), key present with an empty array (replace with nothing) and
// key present with values (replace).
func TestUpdateRoomReqListPresenceSemantics(t *testing.T) {
    var absent updateRoomReq
    require.NoError(t, json.Unmarshal([]byte(`{"room_name":"Renamed"}`), &absent))
    assert.Nil(t, absent.Utilities)
    assert.Nil(t, absent.PhotoURLs)
    require.NotNil(t, absent.RoomName)
    assert.Equal(t, "Renamed", *absent.RoomName)

    var empty updateRoomReq
    require.NoError(t, json.Unmarshal([]byte(`{"utilities":[]}`), &empty))
    require.NotNil(t, empty.Utilities)
    assert.Empty(t, *empty.Utilities)

    var full updateRoomReq
    require.NoError(t, json.Unmarshal([]byte(`{"photo_urls":["https://x/1.jpg"]}`), &full))
    require.NotNil(t, full.PhotoURLs)
    assert.Equal(t, []string{"https://x/1.jpg"}, *full.PhotoURLs)
}

func TestCreateRoomReqScalarDefaultsStayDetectable(t *testing.T) {
    var req createRoomReq
    require.NoError(t, json.Unmarshal([]byte(`{"building_id":1,"room_number":"A101","base_price":100}`), &req))

    // Absent capacity and status arrive as nil so the handler can apply
    // the defaults (1 and AVAILABLE).
    assert.Nil(t, req.Capacity)
    assert.Nil(t, req.Status)
    assert.Equal(t, uint64(1), req.BuildingID)
    assert.Equal(t, "A101", req.RoomNumber)
}
