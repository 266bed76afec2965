package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/model"
	"github.com/iliyamo/room-rental-management/internal/queue"
	"github.com/iliyamo/room-rental-management/internal/service"
)

// RoomHandler exposes the room CRUD endpoints backed by RoomService.
type RoomHandler struct {
	Rooms     *service.RoomService
	BrokerURL string
}

func NewRoomHandler(rooms *service.RoomService, brokerURL string) *RoomHandler {
	if rooms == nil {
		panic("nil service passed to NewRoomHandler")
	}
	return &RoomHandler{Rooms: rooms, BrokerURL: brokerURL}
}

// createRoomReq mirrors the accepted JSON body for room creation.
// Optional scalars are pointers so absent fields can fall back to
// defaults (capacity 1, status AVAILABLE).
type createRoomReq struct {
	BuildingID          uint64             `json:"building_id"`
	RoomNumber          string             `json:"room_number"`
	RoomName            *string            `json:"room_name"`
	Area                *float64           `json:"area"`
	Capacity            *int               `json:"capacity"`
	BasePrice           float64            `json:"base_price"`
	ElectricityPrice    *float64           `json:"electricity_price"`
	WaterPricePerPerson *float64           `json:"water_price_per_person"`
	DepositAmount       *float64           `json:"deposit_amount"`
	ServiceFees         []model.ServiceFee `json:"default_service_fees"`
	Status              *string            `json:"status"`
	Description         *string            `json:"description"`
	Utilities           []string           `json:"utilities"`
	PhotoURLs           []string           `json:"photo_urls"`
}

// updateRoomReq is the strict partial-update body. Every field is a
// pointer; absent fields leave the stored values untouched. The list
// fields are pointers to slices so an explicit empty list replaces the
// existing rows while a missing key preserves them.
type updateRoomReq struct {
	BuildingID          *uint64             `json:"building_id"`
	RoomNumber          *string             `json:"room_number"`
	RoomName            *string             `json:"room_name"`
	Area                *float64            `json:"area"`
	Capacity            *int                `json:"capacity"`
	BasePrice           *float64            `json:"base_price"`
	ElectricityPrice    *float64            `json:"electricity_price"`
	WaterPricePerPerson *float64            `json:"water_price_per_person"`
	DepositAmount       *float64            `json:"deposit_amount"`
	ServiceFees         *[]model.ServiceFee `json:"default_service_fees"`
	Status              *string             `json:"status"`
	Description         *string             `json:"description"`
	Utilities           *[]string           `json:"utilities"`
	PhotoURLs           *[]string           `json:"photo_urls"`
}

// Create handles POST /v1/rooms.
func (h *RoomHandler) Create(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.RoomNumber = strings.TrimSpace(req.RoomNumber)
	if req.BuildingID == 0 || req.RoomNumber == "" {
		return respondError(c, http.StatusBadRequest, "building_id and room_number are required")
	}

	in := service.RoomCreateInput{
		BuildingID:          req.BuildingID,
		RoomNumber:          req.RoomNumber,
		RoomName:            req.RoomName,
		Area:                req.Area,
		Capacity:            1,
		BasePrice:           req.BasePrice,
		ElectricityPrice:    req.ElectricityPrice,
		WaterPricePerPerson: req.WaterPricePerPerson,
		DepositAmount:       req.DepositAmount,
		ServiceFees:         req.ServiceFees,
		Status:              model.RoomStatusAvailable,
		Utilities:           req.Utilities,
		PhotoURLs:           req.PhotoURLs,
		Description:         req.Description,
	}
	if req.Capacity != nil {
		in.Capacity = *req.Capacity
	}
	if req.Status != nil {
		in.Status = strings.ToUpper(strings.TrimSpace(*req.Status))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Rooms.Create(ctx, in, optionalUserID(c))
	if err != nil {
		return h.fail(c, err)
	}

	h.publishCreated(view, optionalUserID(c))
	return respondCreated(c, "room created", view)
}

// Get handles GET /v1/rooms/:id.
func (h *RoomHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid room id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Rooms.Get(ctx, id)
	if err != nil {
		return h.fail(c, err)
	}
	return respondOK(c, "room detail", view)
}

// List handles GET /v1/rooms with optional building_id, status, offset
// and limit query parameters.
func (h *RoomHandler) List(c echo.Context) error {
	var f model.RoomFilter
	if raw := strings.TrimSpace(c.QueryParam("building_id")); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return respondError(c, http.StatusBadRequest, "invalid building_id")
		}
		f.BuildingID = &v
	}
	if raw := strings.TrimSpace(c.QueryParam("status")); raw != "" {
		status := strings.ToUpper(raw)
		f.Status = &status
	}
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	page, err := h.Rooms.List(ctx, f, offset, limit)
	if err != nil {
		return h.fail(c, err)
	}
	return respondOK(c, "room list", page)
}

// Update handles PUT /v1/rooms/:id.
func (h *RoomHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid room id")
	}
	var req updateRoomReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.Status != nil {
		s := strings.ToUpper(strings.TrimSpace(*req.Status))
		req.Status = &s
	}

	patch := service.RoomPatch{
		BuildingID:          req.BuildingID,
		RoomNumber:          req.RoomNumber,
		RoomName:            req.RoomName,
		Area:                req.Area,
		Capacity:            req.Capacity,
		BasePrice:           req.BasePrice,
		ElectricityPrice:    req.ElectricityPrice,
		WaterPricePerPerson: req.WaterPricePerPerson,
		DepositAmount:       req.DepositAmount,
		ServiceFees:         req.ServiceFees,
		Status:              req.Status,
		Description:         req.Description,
		Utilities:           req.Utilities,
		PhotoURLs:           req.PhotoURLs,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	view, err := h.Rooms.Update(ctx, id, patch, optionalUserID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return respondOK(c, "room updated", view)
}

// Delete handles DELETE /v1/rooms/:id.
func (h *RoomHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid room id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if err := h.Rooms.Delete(ctx, id); err != nil {
		return h.fail(c, err)
	}
	return respondOK(c, "room deleted", nil)
}

// fail translates service errors into envelope responses.
func (h *RoomHandler) fail(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrRoomNotFound):
		return respondError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrConflict):
		return respondError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("room handler: internal error: %v", err)
		return respondError(c, http.StatusInternalServerError, "internal server error")
	}
}

// publishCreated emits the room.created event in the background; a
// broker outage must not fail the HTTP request.
func (h *RoomHandler) publishCreated(view *service.RoomDetailView, actorID uint64) {
	ev := queue.RoomCreatedEvent{
		RoomID:     view.ID,
		BuildingID: view.BuildingID,
		RoomNumber: view.RoomNumber,
		Status:     view.Status,
		BasePrice:  view.BasePrice,
		Capacity:   view.Capacity,
		Utilities:  view.Utilities,
		PhotoCount: len(view.PhotoURLs),
		CreatedBy:  actorID,
		CreatedAt:  view.CreatedAt.UTC().Format(time.RFC3339),
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = service.PublishRoomCreated(ctx, h.BrokerURL, ev)
	}()
}
