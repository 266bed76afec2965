package handler

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/model"
	"github.com/iliyamo/room-rental-management/internal/repository"
)

// ContractHandler exposes endpoints for rental contracts.
type ContractHandler struct {
	Contracts *repository.ContractRepo
	Rooms     *repository.RoomRepo
}

func NewContractHandler(contracts *repository.ContractRepo, rooms *repository.RoomRepo) *ContractHandler {
	if contracts == nil || rooms == nil {
		panic("nil repository passed to NewContractHandler")
	}
	return &ContractHandler{Contracts: contracts, Rooms: rooms}
}

type contractReq struct {
	RoomID          uint64   `json:"room_id"`
	TenantID        uint64   `json:"tenant_id"`
	NumberOfTenants *int     `json:"number_of_tenants"`
	MonthlyRent     float64  `json:"monthly_rent"`
	DepositAmount   *float64 `json:"deposit_amount"`
	StartDate       string   `json:"start_date"` // YYYY-MM-DD
	EndDate         *string  `json:"end_date"`
	Status          *string  `json:"status"`
}

type contractView struct {
	ID              uint64   `json:"id"`
	RoomID          uint64   `json:"room_id"`
	TenantID        uint64   `json:"tenant_id"`
	NumberOfTenants int      `json:"number_of_tenants"`
	MonthlyRent     float64  `json:"monthly_rent"`
	DepositAmount   *float64 `json:"deposit_amount,omitempty"`
	StartDate       string   `json:"start_date"`
	EndDate         *string  `json:"end_date,omitempty"`
	Status          string   `json:"status"`
	CreatedAt       string   `json:"created_at"`
	UpdatedAt       string   `json:"updated_at"`
}

const dateLayout = "2006-01-02"

func toContractView(c *model.Contract) contractView {
	v := contractView{
		ID:              c.ID,
		RoomID:          c.RoomID,
		TenantID:        c.TenantID,
		NumberOfTenants: c.NumberOfTenants,
		MonthlyRent:     c.MonthlyRent,
		DepositAmount:   c.DepositAmount,
		StartDate:       c.StartDate.Format(dateLayout),
		Status:          c.Status,
		CreatedAt:       c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       c.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if c.EndDate != nil {
		end := c.EndDate.Format(dateLayout)
		v.EndDate = &end
	}
	return v
}

// Create handles POST /v1/contracts. The referenced room must exist and
// a second ACTIVE contract on the same room is rejected.
func (h *ContractHandler) Create(c echo.Context) error {
	var req contractReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.RoomID == 0 || req.TenantID == 0 {
		return respondError(c, http.StatusBadRequest, "room_id and tenant_id are required")
	}
	if req.MonthlyRent <= 0 {
		return respondError(c, http.StatusBadRequest, "monthly_rent must be greater than zero")
	}
	start, err := time.Parse(dateLayout, strings.TrimSpace(req.StartDate))
	if err != nil {
		return respondError(c, http.StatusBadRequest, "start_date must be YYYY-MM-DD")
	}
	var end *time.Time
	if req.EndDate != nil && strings.TrimSpace(*req.EndDate) != "" {
		t, err := time.Parse(dateLayout, strings.TrimSpace(*req.EndDate))
		if err != nil {
			return respondError(c, http.StatusBadRequest, "end_date must be YYYY-MM-DD")
		}
		if t.Before(start) {
			return respondError(c, http.StatusBadRequest, "end_date must not be before start_date")
		}
		end = &t
	}
	tenants := 1
	if req.NumberOfTenants != nil {
		if *req.NumberOfTenants < 1 {
			return respondError(c, http.StatusBadRequest, "number_of_tenants must be at least 1")
		}
		tenants = *req.NumberOfTenants
	}
	status := model.ContractStatusActive
	if req.Status != nil && strings.TrimSpace(*req.Status) != "" {
		status = strings.ToUpper(strings.TrimSpace(*req.Status))
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	rm, err := h.Rooms.FindByID(ctx, req.RoomID)
	if err != nil {
		log.Printf("contract handler: room lookup failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "load room failed")
	}
	if rm == nil {
		return respondError(c, http.StatusNotFound, "room not found")
	}
	if status == model.ContractStatusActive {
		active, err := h.Contracts.HasActiveByRoom(ctx, req.RoomID)
		if err != nil {
			log.Printf("contract handler: active check failed: %v", err)
			return respondError(c, http.StatusInternalServerError, "check active contract failed")
		}
		if active {
			return respondError(c, http.StatusConflict, "room already has an active contract")
		}
	}

	contract := &model.Contract{
		RoomID:          req.RoomID,
		TenantID:        req.TenantID,
		NumberOfTenants: tenants,
		MonthlyRent:     req.MonthlyRent,
		DepositAmount:   req.DepositAmount,
		StartDate:       start,
		EndDate:         end,
		Status:          status,
	}
	if err := h.Contracts.Create(ctx, contract); err != nil {
		log.Printf("contract handler: create failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "create contract failed")
	}
	return respondCreated(c, "contract created", toContractView(contract))
}

// Get handles GET /v1/contracts/:id.
func (h *ContractHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid contract id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	contract, err := h.Contracts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrContractNotFound) {
			return respondError(c, http.StatusNotFound, "contract not found")
		}
		log.Printf("contract handler: get failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "load contract failed")
	}
	return respondOK(c, "contract detail", toContractView(contract))
}

// List handles GET /v1/contracts filtered by room_id or tenant_id.
func (h *ContractHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		items []*model.Contract
		err   error
	)
	switch {
	case strings.TrimSpace(c.QueryParam("room_id")) != "":
		roomID, perr := strconv.ParseUint(c.QueryParam("room_id"), 10, 64)
		if perr != nil {
			return respondError(c, http.StatusBadRequest, "invalid room_id")
		}
		items, err = h.Contracts.ListByRoom(ctx, roomID)
	case strings.TrimSpace(c.QueryParam("tenant_id")) != "":
		tenantID, perr := strconv.ParseUint(c.QueryParam("tenant_id"), 10, 64)
		if perr != nil {
			return respondError(c, http.StatusBadRequest, "invalid tenant_id")
		}
		items, err = h.Contracts.ListByTenant(ctx, tenantID)
	default:
		return respondError(c, http.StatusBadRequest, "room_id or tenant_id query parameter is required")
	}
	if err != nil {
		log.Printf("contract handler: list failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "list contracts failed")
	}
	views := make([]contractView, 0, len(items))
	for _, item := range items {
		views = append(views, toContractView(item))
	}
	return respondOK(c, "contract list", views)
}

// UpdateStatus handles PATCH /v1/contracts/:id/status.
func (h *ContractHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid contract id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	status := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.IsValidContractStatus(status) {
		return respondError(c, http.StatusBadRequest, "unknown contract status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Contracts.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return respondError(c, http.StatusNotFound, "contract not found")
		}
		log.Printf("contract handler: status update failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "update contract failed")
	}
	return respondOK(c, "contract updated", echo.Map{"id": id, "status": status})
}
