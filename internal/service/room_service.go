// Package service contains the business logic for the rental domain.
// RoomService is the transactional heart of the application: it validates
// business rules, enforces room number uniqueness and performs the
// three-table write (room + utilities + photos) as one atomic unit.
package service

import (
    "context"
    "errors"
    "fmt"
    "strings"

    "github.com/go-sql-driver/mysql"
    "github.com/google/uuid"

    "github.com/iliyamo/room-rental-management/internal/model"
)

// Sentinel errors describing the failure taxonomy of the workflow.
// Handlers dispatch on these with errors.Is and translate them into
// 400, 404 and 409 responses; anything else is an internal failure.
var (
    // ErrInvalidInput marks a business validation failure (non-positive
    // price, capacity below one, unknown status, photo mutation without
    // an acting user).  No state is changed.
    ErrInvalidInput = errors.New("invalid input")
    // ErrRoomNotFound marks an operation referencing a room id that does
    // not exist.
    ErrRoomNotFound = errors.New("room not found")
    // ErrConflict marks a duplicate (building_id, room_number) pair,
    // whether caught by the pre-check or by the unique key at commit.
    ErrConflict = errors.New("conflict")
)

// RoomStore is the persistence surface the workflow depends on.  It is
// implemented by repository.RoomRepo; tests substitute an in-memory
// fake.  Lookups return (nil, nil) when no row matches.
type RoomStore interface {
    FindByID(ctx context.Context, id uint64) (*model.Room, error)
    FindByIDWithRelations(ctx context.Context, id uint64) (*model.Room, error)
    FindByBuildingAndNumber(ctx context.Context, buildingID uint64, roomNumber string) (*model.Room, error)
    ListWithOccupancy(ctx context.Context, f model.RoomFilter, offset, limit int) ([]model.RoomOccupancyRow, error)
    Count(ctx context.Context, f model.RoomFilter) (int, error)
    Begin(ctx context.Context) (RoomTx, error)
}

// RoomTx is a unit of work over the room aggregate.  All writes are
// staged and become durable only on Commit; Rollback discards them.
type RoomTx interface {
    InsertRoom(ctx context.Context, rm *model.Room) error
    UpdateRoom(ctx context.Context, rm *model.Room) error
    DeleteRoom(ctx context.Context, roomID uint64) error
    InsertUtilities(ctx context.Context, utilities []model.RoomUtility) error
    DeleteUtilities(ctx context.Context, roomID uint64) error
    InsertPhotos(ctx context.Context, photos []model.RoomPhoto) error
    DeletePhotos(ctx context.Context, roomID uint64) error
    Commit() error
    Rollback() error
}

// RoomService orchestrates validation, uniqueness enforcement and the
// transactional multi-table write for rooms.  It keeps no state of its
// own beyond the injected store.
type RoomService struct {
    store RoomStore
}

// NewRoomService constructs a RoomService bound to the given store.
func NewRoomService(store RoomStore) *RoomService {
    if store == nil {
        panic("nil store passed to NewRoomService")
    }
    return &RoomService{store: store}
}

// RoomCreateInput carries a validated-shape create request.  Utilities
// and PhotoURLs are raw lists; the service trims entries and discards
// empty ones while preserving order.
type RoomCreateInput struct {
    BuildingID          uint64
    RoomNumber          string
    RoomName            *string
    Area                *float64
    Capacity            int
    BasePrice           float64
    ElectricityPrice    *float64
    WaterPricePerPerson *float64
    DepositAmount       *float64
    ServiceFees         []model.ServiceFee
    Status              string
    Description         *string
    Utilities           []string
    PhotoURLs           []string
}

// RoomPatch is a strict partial-update payload.  A nil field was absent
// from the request and leaves the stored value untouched; a non-nil
// field is applied.  The list fields use pointers to slices so that a
// present-but-empty list (replace with nothing) is distinguishable from
// an absent one (preserve existing rows).
type RoomPatch struct {
    BuildingID          *uint64
    RoomNumber          *string
    RoomName            *string
    Area                *float64
    Capacity            *int
    BasePrice           *float64
    ElectricityPrice    *float64
    WaterPricePerPerson *float64
    DepositAmount       *float64
    ServiceFees         *[]model.ServiceFee
    Status              *string
    Description         *string
    Utilities           *[]string
    PhotoURLs           *[]string
}

// Create validates the input, checks the (building, number) pair is
// free, and persists the room together with its utilities and photos in
// one transaction.  Any validation failure happens before the
// transaction opens, so the database is never left half-written.
// actorID is the acting user (zero when absent); photo URLs without an
// acting user are rejected rather than silently dropped.
func (s *RoomService) Create(ctx context.Context, in RoomCreateInput, actorID uint64) (*RoomDetailView, error) {
    if in.BasePrice <= 0 {
        return nil, fmt.Errorf("%w: base price must be greater than zero", ErrInvalidInput)
    }
    if in.Capacity < 1 {
        return nil, fmt.Errorf("%w: capacity must be at least 1", ErrInvalidInput)
    }
    if !model.IsValidRoomStatus(in.Status) {
        return nil, fmt.Errorf("%w: status must be one of %s", ErrInvalidInput, strings.Join(model.RoomStatuses, ", "))
    }

    utilities := normalizeList(in.Utilities)
    photoURLs := normalizeList(in.PhotoURLs)
    if len(photoURLs) > 0 && actorID == 0 {
        return nil, fmt.Errorf("%w: an acting user is required to attach photos", ErrInvalidInput)
    }

    existing, err := s.store.FindByBuildingAndNumber(ctx, in.BuildingID, in.RoomNumber)
    if err != nil {
        return nil, err
    }
    if existing != nil {
        return nil, fmt.Errorf("%w: room number %s already exists in this building", ErrConflict, in.RoomNumber)
    }

    rm := &model.Room{
        BuildingID:          in.BuildingID,
        RoomNumber:          in.RoomNumber,
        RoomName:            in.RoomName,
        Area:                in.Area,
        Capacity:            in.Capacity,
        BasePrice:           in.BasePrice,
        ElectricityPrice:    in.ElectricityPrice,
        WaterPricePerPerson: in.WaterPricePerPerson,
        DepositAmount:       in.DepositAmount,
        ServiceFees:         in.ServiceFees,
        Status:              in.Status,
        Description:         in.Description,
    }

    tx, err := s.store.Begin(ctx)
    if err != nil {
        return nil, err
    }
    if err := tx.InsertRoom(ctx, rm); err != nil {
        _ = tx.Rollback()
        return nil, s.translateWriteErr(err, in.RoomNumber)
    }
    if err := tx.InsertUtilities(ctx, buildUtilities(rm.ID, utilities)); err != nil {
        _ = tx.Rollback()
        return nil, err
    }
    if err := tx.InsertPhotos(ctx, buildPhotos(rm.ID, photoURLs, actorID)); err != nil {
        _ = tx.Rollback()
        return nil, err
    }
    if err := tx.Commit(); err != nil {
        _ = tx.Rollback()
        return nil, s.translateWriteErr(err, in.RoomNumber)
    }

    fresh, err := s.store.FindByIDWithRelations(ctx, rm.ID)
    if err != nil {
        return nil, err
    }
    view := BuildRoomDetailView(fresh)
    return &view, nil
}

// Get loads a room with its utility and photo collections and maps it.
func (s *RoomService) Get(ctx context.Context, id uint64) (*RoomDetailView, error) {
    rm, err := s.store.FindByIDWithRelations(ctx, id)
    if err != nil {
        return nil, err
    }
    if rm == nil {
        return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
    }
    view := BuildRoomDetailView(rm)
    return &view, nil
}

// List returns a page of denormalized room rows plus the total count
// under the same filter.  The limit is clamped to [1, 100]: values above
// 100 are capped, values below 1 fall back to the default of 20.  A
// supplied status must be valid; this is the only rejected input.
func (s *RoomService) List(ctx context.Context, f model.RoomFilter, offset, limit int) (*RoomPage, error) {
    if f.Status != nil && !model.IsValidRoomStatus(*f.Status) {
        return nil, fmt.Errorf("%w: status must be one of %s", ErrInvalidInput, strings.Join(model.RoomStatuses, ", "))
    }
    if offset < 0 {
        offset = 0
    }
    if limit > 100 {
        limit = 100
    }
    if limit < 1 {
        limit = 20
    }

    items, err := s.store.ListWithOccupancy(ctx, f, offset, limit)
    if err != nil {
        return nil, err
    }
    total, err := s.store.Count(ctx, f)
    if err != nil {
        return nil, err
    }
    return &RoomPage{
        Items:  buildListItems(items),
        Total:  total,
        Offset: offset,
        Limit:  limit,
    }, nil
}

// Update applies a strict partial update to a room.  Only fields present
// in the patch are touched.  Utilities and photos follow independent
// replace-or-preserve semantics keyed off field presence: an absent list
// leaves existing rows alone, a present list (even empty) replaces them
// wholesale.  Everything runs in one transaction committed at the end.
func (s *RoomService) Update(ctx context.Context, id uint64, patch RoomPatch, actorID uint64) (*RoomDetailView, error) {
    rm, err := s.store.FindByID(ctx, id)
    if err != nil {
        return nil, err
    }
    if rm == nil {
        return nil, fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
    }

    if patch.BasePrice != nil && *patch.BasePrice <= 0 {
        return nil, fmt.Errorf("%w: base price must be greater than zero", ErrInvalidInput)
    }
    if patch.Capacity != nil && *patch.Capacity < 1 {
        return nil, fmt.Errorf("%w: capacity must be at least 1", ErrInvalidInput)
    }
    if patch.Status != nil && !model.IsValidRoomStatus(*patch.Status) {
        return nil, fmt.Errorf("%w: status must be one of %s", ErrInvalidInput, strings.Join(model.RoomStatuses, ", "))
    }
    if patch.PhotoURLs != nil && actorID == 0 {
        return nil, fmt.Errorf("%w: an acting user is required to replace photos", ErrInvalidInput)
    }

    // Re-run the uniqueness check only when the (building, number) pair
    // actually changes; a match belonging to a different room is a conflict.
    newBuildingID := rm.BuildingID
    if patch.BuildingID != nil {
        newBuildingID = *patch.BuildingID
    }
    newNumber := rm.RoomNumber
    if patch.RoomNumber != nil {
        newNumber = *patch.RoomNumber
    }
    if newBuildingID != rm.BuildingID || newNumber != rm.RoomNumber {
        existing, err := s.store.FindByBuildingAndNumber(ctx, newBuildingID, newNumber)
        if err != nil {
            return nil, err
        }
        if existing != nil && existing.ID != id {
            return nil, fmt.Errorf("%w: room number %s already exists in this building", ErrConflict, newNumber)
        }
    }

    applyPatch(rm, patch)

    tx, err := s.store.Begin(ctx)
    if err != nil {
        return nil, err
    }
    // The basic-field update is staged first, then old list rows are
    // deleted, then the new rows inserted; all within the same transaction.
    if err := tx.UpdateRoom(ctx, rm); err != nil {
        _ = tx.Rollback()
        return nil, s.translateWriteErr(err, newNumber)
    }
    if patch.Utilities != nil {
        if err := tx.DeleteUtilities(ctx, id); err != nil {
            _ = tx.Rollback()
            return nil, err
        }
        if err := tx.InsertUtilities(ctx, buildUtilities(id, normalizeList(*patch.Utilities))); err != nil {
            _ = tx.Rollback()
            return nil, err
        }
    }
    if patch.PhotoURLs != nil {
        if err := tx.DeletePhotos(ctx, id); err != nil {
            _ = tx.Rollback()
            return nil, err
        }
        if err := tx.InsertPhotos(ctx, buildPhotos(id, normalizeList(*patch.PhotoURLs), actorID)); err != nil {
            _ = tx.Rollback()
            return nil, err
        }
    }
    if err := tx.Commit(); err != nil {
        _ = tx.Rollback()
        return nil, s.translateWriteErr(err, newNumber)
    }

    fresh, err := s.store.FindByIDWithRelations(ctx, id)
    if err != nil {
        return nil, err
    }
    view := BuildRoomDetailView(fresh)
    return &view, nil
}

// Delete removes a room together with its utility and photo rows in one
// transaction.  No active-contract check is performed at this layer.
func (s *RoomService) Delete(ctx context.Context, id uint64) error {
    rm, err := s.store.FindByID(ctx, id)
    if err != nil {
        return err
    }
    if rm == nil {
        return fmt.Errorf("%w: id %d", ErrRoomNotFound, id)
    }

    tx, err := s.store.Begin(ctx)
    if err != nil {
        return err
    }
    // Dependent rows go first to satisfy the foreign keys.
    if err := tx.DeleteUtilities(ctx, id); err != nil {
        _ = tx.Rollback()
        return err
    }
    if err := tx.DeletePhotos(ctx, id); err != nil {
        _ = tx.Rollback()
        return err
    }
    if err := tx.DeleteRoom(ctx, id); err != nil {
        _ = tx.Rollback()
        return err
    }
    return tx.Commit()
}

// translateWriteErr converts a store-level unique key violation into the
// same conflict failure the pre-check produces.  Two concurrent creates
// can race past the pre-check; the UNIQUE(building_id, room_number) key
// is the real enforcement mechanism (MySQL error 1062).
func (s *RoomService) translateWriteErr(err error, roomNumber string) error {
    if isDuplicateEntry(err) {
        return fmt.Errorf("%w: room number %s already exists in this building", ErrConflict, roomNumber)
    }
    return err
}

func isDuplicateEntry(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == 1062
}

// normalizeList trims every entry and discards empty strings, preserving
// the original order of the remaining entries.
func normalizeList(values []string) []string {
    out := make([]string, 0, len(values))
    for _, v := range values {
        v = strings.TrimSpace(v)
        if v != "" {
            out = append(out, v)
        }
    }
    return out
}

// buildUtilities turns normalized names into utility rows.  Identifiers
// are UUIDv7, which sort by generation time, so reading the rows back
// ordered by utility_id returns them in insertion order.
func buildUtilities(roomID uint64, names []string) []model.RoomUtility {
    out := make([]model.RoomUtility, 0, len(names))
    for _, name := range names {
        out = append(out, model.RoomUtility{
            UtilityID:   uuid.Must(uuid.NewV7()).String(),
            RoomID:      roomID,
            UtilityName: name,
        })
    }
    return out
}

// buildPhotos turns normalized URLs into photo rows.  Sort order equals
// input position and only position zero is primary.
func buildPhotos(roomID uint64, urls []string, actorID uint64) []model.RoomPhoto {
    out := make([]model.RoomPhoto, 0, len(urls))
    for i, u := range urls {
        out = append(out, model.RoomPhoto{
            RoomID:     roomID,
            URL:        u,
            IsPrimary:  i == 0,
            SortOrder:  i,
            UploadedBy: actorID,
        })
    }
    return out
}

// applyPatch copies every present patch field onto the room.  List
// fields are handled separately by the caller since they map to rows in
// other tables.
func applyPatch(rm *model.Room, p RoomPatch) {
    if p.BuildingID != nil {
        rm.BuildingID = *p.BuildingID
    }
    if p.RoomNumber != nil {
        rm.RoomNumber = *p.RoomNumber
    }
    if p.RoomName != nil {
        rm.RoomName = p.RoomName
    }
    if p.Area != nil {
        rm.Area = p.Area
    }
    if p.Capacity != nil {
        rm.Capacity = *p.Capacity
    }
    if p.BasePrice != nil {
        rm.BasePrice = *p.BasePrice
    }
    if p.ElectricityPrice != nil {
        rm.ElectricityPrice = p.ElectricityPrice
    }
    if p.WaterPricePerPerson != nil {
        rm.WaterPricePerPerson = p.WaterPricePerPerson
    }
    if p.DepositAmount != nil {
        rm.DepositAmount = p.DepositAmount
    }
    if p.ServiceFees != nil {
        rm.ServiceFees = *p.ServiceFees
    }
    if p.Status != nil {
        rm.Status = *p.Status
    }
    if p.Description != nil {
        rm.Description = p.Description
    }
}
