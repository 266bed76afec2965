package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/model"
	"github.com/iliyamo/room-rental-management/internal/repository"
)

// BuildingHandler exposes CRUD endpoints for buildings. Buildings are
// scoped to the authenticated landlord.
type BuildingHandler struct {
	Buildings *repository.BuildingRepo
}

func NewBuildingHandler(b *repository.BuildingRepo) *BuildingHandler {
	if b == nil {
		panic("nil repository passed to NewBuildingHandler")
	}
	return &BuildingHandler{Buildings: b}
}

type buildingReq struct {
	AddressID    *uint64 `json:"address_id"`
	BuildingCode string  `json:"building_code"`
	BuildingName string  `json:"building_name"`
	Description  *string `json:"description"`
	Status       *string `json:"status"`
}

type buildingView struct {
	ID           uint64  `json:"id"`
	AddressID    *uint64 `json:"address_id,omitempty"`
	BuildingCode string  `json:"building_code"`
	BuildingName string  `json:"building_name"`
	Description  *string `json:"description,omitempty"`
	Status       string  `json:"status"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func toBuildingView(b *model.Building) buildingView {
	return buildingView{
		ID:           b.ID,
		AddressID:    b.AddressID,
		BuildingCode: b.BuildingCode,
		BuildingName: b.BuildingName,
		Description:  b.Description,
		Status:       b.Status,
		CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/buildings.
func (h *BuildingHandler) Create(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	var req buildingReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	req.BuildingCode = strings.TrimSpace(req.BuildingCode)
	req.BuildingName = strings.TrimSpace(req.BuildingName)
	if req.BuildingCode == "" || req.BuildingName == "" {
		return respondError(c, http.StatusBadRequest, "building_code and building_name are required")
	}
	status := "ACTIVE"
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status = strings.ToUpper(strings.TrimSpace(*req.Status))
	}

	b := &model.Building{
		OwnerID:      ownerID,
		AddressID:    req.AddressID,
		BuildingCode: req.BuildingCode,
		BuildingName: req.BuildingName,
		Description:  req.Description,
		Status:       status,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Buildings.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrBuildingCodeExists) {
			return respondError(c, http.StatusConflict, "building code already exists")
		}
		log.Printf("building handler: create failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "create building failed")
	}
	return respondCreated(c, "building created", toBuildingView(b))
}

// List handles GET /v1/buildings and returns the caller's buildings.
func (h *BuildingHandler) List(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Buildings.ListByOwner(ctx, ownerID)
	if err != nil {
		log.Printf("building handler: list failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "list buildings failed")
	}
	views := make([]buildingView, 0, len(items))
	for _, b := range items {
		views = append(views, toBuildingView(b))
	}
	return respondOK(c, "building list", views)
}

// Get handles GET /v1/buildings/:id.
func (h *BuildingHandler) Get(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid building id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Buildings.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrBuildingNotFound) {
			return respondError(c, http.StatusNotFound, "building not found")
		}
		log.Printf("building handler: get failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "load building failed")
	}
	return respondOK(c, "building detail", toBuildingView(b))
}

// Update handles PUT /v1/buildings/:id.
func (h *BuildingHandler) Update(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid building id")
	}
	var req buildingReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Buildings.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrBuildingNotFound) {
			return respondError(c, http.StatusNotFound, "building not found")
		}
		log.Printf("building handler: load for update failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "load building failed")
	}
	if name := strings.TrimSpace(req.BuildingName); name != "" {
		b.BuildingName = name
	}
	if req.Description != nil {
		b.Description = req.Description
	}
	if req.AddressID != nil {
		b.AddressID = req.AddressID
	}
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		b.Status = strings.ToUpper(strings.TrimSpace(*req.Status))
	}

	if err := h.Buildings.Update(ctx, b); err != nil {
		log.Printf("building handler: update failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "update building failed")
	}
	return respondOK(c, "building updated", toBuildingView(b))
}

// Delete handles DELETE /v1/buildings/:id. Buildings with rooms are
// rejected with 409.
func (h *BuildingHandler) Delete(c echo.Context) error {
	ownerID, err := getUserID(c)
	if err != nil {
		return respondError(c, http.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid building id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Buildings.DeleteByIDAndOwner(ctx, id, ownerID); err != nil {
		switch {
		case errors.Is(err, repository.ErrBuildingNotFound):
			return respondError(c, http.StatusNotFound, "building not found")
		case errors.Is(err, repository.ErrForbidden):
			return respondError(c, http.StatusForbidden, "building belongs to another landlord")
		case errors.Is(err, repository.ErrConflict):
			return respondError(c, http.StatusConflict, "building still has rooms")
		default:
			log.Printf("building handler: delete failed: %v", err)
			return respondError(c, http.StatusInternalServerError, "delete building failed")
		}
	}
	return respondOK(c, "building deleted", nil)
}
