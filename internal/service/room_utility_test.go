package service

import (
    "fmt"
    "sort"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/room-rental-management/internal/model"
)

// Utility rows are read back from the database ordered by utility_id,
// so insertion order only survives the round trip when the generated
// identifiers themselves sort in generation order.
func TestBuildUtilitiesIDsSortInInsertionOrder(t *testing.T) {
    names := make([]string, 0, 50)
    for i := 0; i < 50; i++ {
        names = append(names, fmt.Sprintf("amenity-%02d", i))
    }

    rows := buildUtilities(7, names)
    require.Len(t, rows, 50)

    for i := 1; i < len(rows); i++ {
        assert.Less(t, rows[i-1].UtilityID, rows[i].UtilityID,
            "identifiers must increase with insertion position")
    }

    // Sorting by utility_id, as the repository read does, must yield
    // the original name sequence.
    sorted := make([]model.RoomUtility, len(rows))
    copy(sorted, rows)
    sort.Slice(sorted, func(i, j int) bool { return sorted[i].UtilityID < sorted[j].UtilityID })

    got := make([]string, 0, len(sorted))
    for _, u := range sorted {
        got = append(got, u.UtilityName)
    }
    assert.Equal(t, names, got)
}
