package service

import (
    "context"
    "testing"
    "time"

    "github.com/go-sql-driver/mysql"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/room-rental-management/internal/model"
)

// fakeStore is an in-memory RoomStore.  Writes go through a staged
// fakeTx and only become visible in the maps below on Commit, which
// mirrors the commit boundary of the real repository.
type fakeStore struct {
    rooms     map[uint64]*model.Room
    utilities map[uint64][]model.RoomUtility
    photos    map[uint64][]model.RoomPhoto
    nextID    uint64

    occRows []model.RoomOccupancyRow
    total   int

    begun      int
    committed  int
    rolledBack int

    commitErr error // injected failure at commit time
    photosErr error // injected failure on InsertPhotos

    lastOffset int
    lastLimit  int
}

func newFakeStore() *fakeStore {
    return &fakeStore{
        rooms:     map[uint64]*model.Room{},
        utilities: map[uint64][]model.RoomUtility{},
        photos:    map[uint64][]model.RoomPhoto{},
        nextID:    1,
    }
}

func (f *fakeStore) FindByID(_ context.Context, id uint64) (*model.Room, error) {
    rm, ok := f.rooms[id]
    if !ok {
        return nil, nil
    }
    cp := *rm
    return &cp, nil
}

func (f *fakeStore) FindByIDWithRelations(_ context.Context, id uint64) (*model.Room, error) {
    rm, ok := f.rooms[id]
    if !ok {
        return nil, nil
    }
    cp := *rm
    cp.Utilities = append([]model.RoomUtility(nil), f.utilities[id]...)
    cp.Photos = append([]model.RoomPhoto(nil), f.photos[id]...)
    return &cp, nil
}

func (f *fakeStore) FindByBuildingAndNumber(_ context.Context, buildingID uint64, roomNumber string) (*model.Room, error) {
    for _, rm := range f.rooms {
        if rm.BuildingID == buildingID && rm.RoomNumber == roomNumber {
            cp := *rm
            return &cp, nil
        }
    }
    return nil, nil
}

func (f *fakeStore) ListWithOccupancy(_ context.Context, _ model.RoomFilter, offset, limit int) ([]model.RoomOccupancyRow, error) {
    f.lastOffset, f.lastLimit = offset, limit
    return f.occRows, nil
}

func (f *fakeStore) Count(_ context.Context, _ model.RoomFilter) (int, error) {
    return f.total, nil
}

func (f *fakeStore) Begin(_ context.Context) (RoomTx, error) {
    f.begun++
    return &fakeTx{
        s:         f,
        rooms:     copyRooms(f.rooms),
        utilities: copyLists(f.utilities),
        photos:    copyPhotoLists(f.photos),
    }, nil
}

type fakeTx struct {
    s         *fakeStore
    rooms     map[uint64]*model.Room
    utilities map[uint64][]model.RoomUtility
    photos    map[uint64][]model.RoomPhoto
}

func (t *fakeTx) InsertRoom(_ context.Context, rm *model.Room) error {
    rm.ID = t.s.nextID
    t.s.nextID++
    now := time.Now().UTC()
    rm.CreatedAt = now
    rm.UpdatedAt = now
    cp := *rm
    t.rooms[rm.ID] = &cp
    return nil
}

func (t *fakeTx) UpdateRoom(_ context.Context, rm *model.Room) error {
    cp := *rm
    cp.UpdatedAt = time.Now().UTC()
    t.rooms[rm.ID] = &cp
    return nil
}

func (t *fakeTx) DeleteRoom(_ context.Context, roomID uint64) error {
    delete(t.rooms, roomID)
    return nil
}

func (t *fakeTx) InsertUtilities(_ context.Context, utilities []model.RoomUtility) error {
    for _, u := range utilities {
        t.utilities[u.RoomID] = append(t.utilities[u.RoomID], u)
    }
    return nil
}

func (t *fakeTx) DeleteUtilities(_ context.Context, roomID uint64) error {
    delete(t.utilities, roomID)
    return nil
}

func (t *fakeTx) InsertPhotos(_ context.Context, photos []model.RoomPhoto) error {
    if t.s.photosErr != nil {
        return t.s.photosErr
    }
    for _, p := range photos {
        t.photos[p.RoomID] = append(t.photos[p.RoomID], p)
    }
    return nil
}

func (t *fakeTx) DeletePhotos(_ context.Context, roomID uint64) error {
    delete(t.photos, roomID)
    return nil
}

func (t *fakeTx) Commit() error {
    if t.s.commitErr != nil {
        return t.s.commitErr
    }
    t.s.rooms = t.rooms
    t.s.utilities = t.utilities
    t.s.photos = t.photos
    t.s.committed++
    return nil
}

func (t *fakeTx) Rollback() error {
    t.s.rolledBack++
    return nil
}

func copyRooms(in map[uint64]*model.Room) map[uint64]*model.Room {
    out := make(map[uint64]*model.Room, len(in))
    for k, v := range in {
        cp := *v
        out[k] = &cp
    }
    return out
}

func copyLists(in map[uint64][]model.RoomUtility) map[uint64][]model.RoomUtility {
    out := make(map[uint64][]model.RoomUtility, len(in))
    for k, v := range in {
        out[k] = append([]model.RoomUtility(nil), v...)
    }
    return out
}

func copyPhotoLists(in map[uint64][]model.RoomPhoto) map[uint64][]model.RoomPhoto {
    out := make(map[uint64][]model.RoomPhoto, len(in))
    for k, v := range in {
        out[k] = append([]model.RoomPhoto(nil), v...)
    }
    return out
}

func validCreateInput() RoomCreateInput {
    return RoomCreateInput{
        BuildingID: 1,
        RoomNumber: "101",
        Capacity:   2,
        BasePrice:  5000000,
        Status:     model.RoomStatusAvailable,
    }
}

func TestCreateRoomTrimsUtilitiesAndPreservesOrder(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.Utilities = []string{" Air conditioner ", "", "Bed", "   "}

    view, err := svc.Create(context.Background(), in, 0)
    require.NoError(t, err)
    assert.Equal(t, []string{"Air conditioner", "Bed"}, view.Utilities)
    assert.Equal(t, 1, store.committed)
}

func TestCreateRoomPhotosOrderedWithPrimaryFirst(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.PhotoURLs = []string{"https://x/1.jpg", " https://x/2.jpg", "https://x/3.jpg"}

    view, err := svc.Create(context.Background(), in, 7)
    require.NoError(t, err)
    assert.Equal(t, []string{"https://x/1.jpg", "https://x/2.jpg", "https://x/3.jpg"}, view.PhotoURLs)

    photos := store.photos[view.ID]
    require.Len(t, photos, 3)
    for i, p := range photos {
        assert.Equal(t, i, p.SortOrder)
        assert.Equal(t, i == 0, p.IsPrimary)
        assert.Equal(t, uint64(7), p.UploadedBy)
    }
}

func TestCreateRoomValidationFailuresLeaveStoreUntouched(t *testing.T) {
    cases := []struct {
        name   string
        mutate func(*RoomCreateInput)
    }{
        {"non-positive price", func(in *RoomCreateInput) { in.BasePrice = 0 }},
        {"capacity below one", func(in *RoomCreateInput) { in.Capacity = 0 }},
        {"unknown status", func(in *RoomCreateInput) { in.Status = "BROKEN" }},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            store := newFakeStore()
            svc := NewRoomService(store)
            in := validCreateInput()
            tc.mutate(&in)

            _, err := svc.Create(context.Background(), in, 0)
            assert.ErrorIs(t, err, ErrInvalidInput)
            assert.Empty(t, store.rooms)
            assert.Zero(t, store.begun, "validation must fail before the transaction opens")
        })
    }
}

func TestCreateRoomRejectsPhotosWithoutActingUser(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.PhotoURLs = []string{"https://x/1.jpg"}

    _, err := svc.Create(context.Background(), in, 0)
    assert.ErrorIs(t, err, ErrInvalidInput)
    assert.Empty(t, store.rooms)
}

func TestCreateRoomDuplicatePairIsConflict(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.Utilities = []string{"Air conditioner", "Bed"}
    first, err := svc.Create(context.Background(), in, 0)
    require.NoError(t, err)

    _, err = svc.Create(context.Background(), in, 0)
    assert.ErrorIs(t, err, ErrConflict)
    assert.Contains(t, err.Error(), "101")

    // The first room and its relations are unchanged.
    again, err := svc.Get(context.Background(), first.ID)
    require.NoError(t, err)
    assert.Equal(t, first, again)
}

func TestCreateRoomUniqueKeyRaceTranslatedToConflict(t *testing.T) {
    store := newFakeStore()
    store.commitErr = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
    svc := NewRoomService(store)

    _, err := svc.Create(context.Background(), validCreateInput(), 0)
    assert.ErrorIs(t, err, ErrConflict)
    assert.Empty(t, store.rooms)
    assert.Equal(t, 1, store.rolledBack)
}

func TestCreateRoomMidTransactionFailureWritesNothing(t *testing.T) {
    store := newFakeStore()
    store.photosErr = assert.AnError
    svc := NewRoomService(store)

    in := validCreateInput()
    in.PhotoURLs = []string{"https://x/1.jpg"}

    _, err := svc.Create(context.Background(), in, 7)
    require.Error(t, err)
    assert.Empty(t, store.rooms)
    assert.Zero(t, store.committed)
    assert.Equal(t, 1, store.rolledBack)
}

func TestGetIsIdempotent(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.Utilities = []string{"Bed"}
    created, err := svc.Create(context.Background(), in, 0)
    require.NoError(t, err)

    a, err := svc.Get(context.Background(), created.ID)
    require.NoError(t, err)
    b, err := svc.Get(context.Background(), created.ID)
    require.NoError(t, err)
    assert.Equal(t, a, b)
}

func TestGetUnknownRoomIsNotFound(t *testing.T) {
    svc := NewRoomService(newFakeStore())
    _, err := svc.Get(context.Background(), 42)
    assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestUpdateOnlyDescriptionLeavesEverythingElseAlone(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.Utilities = []string{"Bed"}
    in.PhotoURLs = []string{"https://x/1.jpg"}
    created, err := svc.Create(context.Background(), in, 7)
    require.NoError(t, err)

    desc := "renovated last month"
    updated, err := svc.Update(context.Background(), created.ID, RoomPatch{Description: &desc}, 7)
    require.NoError(t, err)

    assert.Equal(t, &desc, updated.Description)
    assert.Equal(t, created.BasePrice, updated.BasePrice)
    assert.Equal(t, created.Capacity, updated.Capacity)
    assert.Equal(t, created.Status, updated.Status)
    assert.Equal(t, created.Utilities, updated.Utilities)
    assert.Equal(t, created.PhotoURLs, updated.PhotoURLs)
}

func TestUpdateUtilitiesReplaceVersusPreserve(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.Utilities = []string{"Air conditioner", "Bed"}
    created, err := svc.Create(context.Background(), in, 0)
    require.NoError(t, err)

    // Absent utilities field: existing rows preserved.
    price := 6000000.0
    kept, err := svc.Update(context.Background(), created.ID, RoomPatch{BasePrice: &price}, 0)
    require.NoError(t, err)
    assert.Equal(t, []string{"Air conditioner", "Bed"}, kept.Utilities)

    // Present but empty list: replaced wholesale with nothing.
    empty := []string{}
    cleared, err := svc.Update(context.Background(), created.ID, RoomPatch{Utilities: &empty}, 0)
    require.NoError(t, err)
    assert.Empty(t, cleared.Utilities)

    // Present non-empty list: old rows gone, new ones in input order.
    repl := []string{" TV ", "Fridge"}
    replaced, err := svc.Update(context.Background(), created.ID, RoomPatch{Utilities: &repl}, 0)
    require.NoError(t, err)
    assert.Equal(t, []string{"TV", "Fridge"}, replaced.Utilities)
}

func TestUpdatePhotoReplaceRequiresActingUser(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.PhotoURLs = []string{"https://x/1.jpg"}
    created, err := svc.Create(context.Background(), in, 7)
    require.NoError(t, err)

    urls := []string{"https://x/2.jpg"}
    _, err = svc.Update(context.Background(), created.ID, RoomPatch{PhotoURLs: &urls}, 0)
    assert.ErrorIs(t, err, ErrInvalidInput)

    // Photos are untouched by the rejected request.
    after, err := svc.Get(context.Background(), created.ID)
    require.NoError(t, err)
    assert.Equal(t, []string{"https://x/1.jpg"}, after.PhotoURLs)

    // With an acting user the replacement goes through and position zero
    // becomes the new primary.
    replaced, err := svc.Update(context.Background(), created.ID, RoomPatch{PhotoURLs: &urls}, 9)
    require.NoError(t, err)
    assert.Equal(t, []string{"https://x/2.jpg"}, replaced.PhotoURLs)
    require.Len(t, store.photos[created.ID], 1)
    assert.True(t, store.photos[created.ID][0].IsPrimary)
    assert.Equal(t, uint64(9), store.photos[created.ID][0].UploadedBy)
}

func TestUpdateRoomNumberConflictWithOtherRoom(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    first, err := svc.Create(context.Background(), validCreateInput(), 0)
    require.NoError(t, err)

    other := validCreateInput()
    other.RoomNumber = "102"
    second, err := svc.Create(context.Background(), other, 0)
    require.NoError(t, err)

    taken := first.RoomNumber
    _, err = svc.Update(context.Background(), second.ID, RoomPatch{RoomNumber: &taken}, 0)
    assert.ErrorIs(t, err, ErrConflict)

    // Re-submitting a room's own number is not a conflict.
    same := second.RoomNumber
    _, err = svc.Update(context.Background(), second.ID, RoomPatch{RoomNumber: &same}, 0)
    assert.NoError(t, err)
}

func TestUpdateInvalidPriceLeavesStoredValue(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    created, err := svc.Create(context.Background(), validCreateInput(), 0)
    require.NoError(t, err)

    bad := -1.0
    _, err = svc.Update(context.Background(), created.ID, RoomPatch{BasePrice: &bad}, 0)
    assert.ErrorIs(t, err, ErrInvalidInput)

    after, err := svc.Get(context.Background(), created.ID)
    require.NoError(t, err)
    assert.Equal(t, created.BasePrice, after.BasePrice)
}

func TestUpdateUnknownRoomIsNotFound(t *testing.T) {
    svc := NewRoomService(newFakeStore())
    desc := "x"
    _, err := svc.Update(context.Background(), 99, RoomPatch{Description: &desc}, 0)
    assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestDeleteRemovesAggregate(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    in := validCreateInput()
    in.Utilities = []string{"Bed"}
    in.PhotoURLs = []string{"https://x/1.jpg"}
    created, err := svc.Create(context.Background(), in, 7)
    require.NoError(t, err)

    require.NoError(t, svc.Delete(context.Background(), created.ID))
    assert.Empty(t, store.rooms)
    assert.Empty(t, store.utilities)
    assert.Empty(t, store.photos)

    _, err = svc.Get(context.Background(), created.ID)
    assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestDeleteUnknownRoomIsNotFound(t *testing.T) {
    svc := NewRoomService(newFakeStore())
    err := svc.Delete(context.Background(), 7)
    assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestListClampsLimitAndOffset(t *testing.T) {
    store := newFakeStore()
    svc := NewRoomService(store)

    page, err := svc.List(context.Background(), model.RoomFilter{}, 0, 500)
    require.NoError(t, err)
    assert.Equal(t, 100, page.Limit)
    assert.Equal(t, 100, store.lastLimit)

    page, err = svc.List(context.Background(), model.RoomFilter{}, -3, 0)
    require.NoError(t, err)
    assert.Equal(t, 20, page.Limit)
    assert.Equal(t, 0, page.Offset)
    assert.Equal(t, 20, store.lastLimit)
    assert.Equal(t, 0, store.lastOffset)
}

func TestListRejectsUnknownStatus(t *testing.T) {
    svc := NewRoomService(newFakeStore())
    bad := "SOLD"
    _, err := svc.List(context.Background(), model.RoomFilter{Status: &bad}, 0, 20)
    assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestListEchoesTotalsAndItems(t *testing.T) {
    store := newFakeStore()
    rep := "Nguyen Van A"
    store.occRows = []model.RoomOccupancyRow{
        {ID: 1, RoomNumber: "101", BuildingName: "Hoang Anh", Capacity: 4, CurrentOccupants: 2, Status: model.RoomStatusOccupied, BasePrice: 7000000, Representative: &rep},
        {ID: 2, RoomNumber: "102", BuildingName: "Hoang Anh", Capacity: 2, Status: model.RoomStatusAvailable, BasePrice: 5000000},
    }
    store.total = 50
    svc := NewRoomService(store)

    page, err := svc.List(context.Background(), model.RoomFilter{}, 10, 20)
    require.NoError(t, err)
    assert.Equal(t, 50, page.Total)
    assert.Equal(t, 10, page.Offset)
    require.Len(t, page.Items, 2)
    assert.Equal(t, "Hoang Anh", page.Items[0].BuildingName)
    assert.Equal(t, &rep, page.Items[0].Representative)
    assert.Nil(t, page.Items[1].Representative)
    assert.Zero(t, page.Items[1].CurrentOccupants)
}
