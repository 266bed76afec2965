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

// AddressHandler exposes CRUD endpoints for addresses.
type AddressHandler struct {
	Addresses *repository.AddressRepo
}

func NewAddressHandler(a *repository.AddressRepo) *AddressHandler {
	if a == nil {
		panic("nil repository passed to NewAddressHandler")
	}
	return &AddressHandler{Addresses: a}
}

type addressReq struct {
	AddressLine string  `json:"address_line"`
	Ward        string  `json:"ward"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	FullAddress *string `json:"full_address"`
}

type addressView struct {
	ID          uint64  `json:"id"`
	AddressLine string  `json:"address_line"`
	Ward        string  `json:"ward"`
	City        string  `json:"city"`
	Country     string  `json:"country"`
	FullAddress *string `json:"full_address,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

func toAddressView(a *model.Address) addressView {
	return addressView{
		ID:          a.ID,
		AddressLine: a.AddressLine,
		Ward:        a.Ward,
		City:        a.City,
		Country:     a.Country,
		FullAddress: a.FullAddress,
		CreatedAt:   a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   a.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// applyAddressReq copies request fields onto the model, composing the
// denormalized full_address when the client did not supply one.
func applyAddressReq(a *model.Address, req addressReq) {
	a.AddressLine = strings.TrimSpace(req.AddressLine)
	a.Ward = strings.TrimSpace(req.Ward)
	a.City = strings.TrimSpace(req.City)
	a.Country = strings.TrimSpace(req.Country)
	if req.FullAddress != nil && strings.TrimSpace(*req.FullAddress) != "" {
		full := strings.TrimSpace(*req.FullAddress)
		a.FullAddress = &full
	} else {
		full := strings.Join([]string{a.AddressLine, a.Ward, a.City, a.Country}, ", ")
		a.FullAddress = &full
	}
}

// Create handles POST /v1/addresses.
func (h *AddressHandler) Create(c echo.Context) error {
	var req addressReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.AddressLine) == "" || strings.TrimSpace(req.City) == "" {
		return respondError(c, http.StatusBadRequest, "address_line and city are required")
	}

	var a model.Address
	applyAddressReq(&a, req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Addresses.Create(ctx, &a); err != nil {
		log.Printf("address handler: create failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "create address failed")
	}
	return respondCreated(c, "address created", toAddressView(&a))
}

// List handles GET /v1/addresses.
func (h *AddressHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Addresses.List(ctx)
	if err != nil {
		log.Printf("address handler: list failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "list addresses failed")
	}
	views := make([]addressView, 0, len(items))
	for _, a := range items {
		views = append(views, toAddressView(a))
	}
	return respondOK(c, "address list", views)
}

// Get handles GET /v1/addresses/:id.
func (h *AddressHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid address id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Addresses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return respondError(c, http.StatusNotFound, "address not found")
		}
		log.Printf("address handler: get failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "load address failed")
	}
	return respondOK(c, "address detail", toAddressView(a))
}

// Update handles PUT /v1/addresses/:id.
func (h *AddressHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid address id")
	}
	var req addressReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if strings.TrimSpace(req.AddressLine) == "" || strings.TrimSpace(req.City) == "" {
		return respondError(c, http.StatusBadRequest, "address_line and city are required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Addresses.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrAddressNotFound) {
			return respondError(c, http.StatusNotFound, "address not found")
		}
		log.Printf("address handler: load for update failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "load address failed")
	}
	applyAddressReq(a, req)

	if err := h.Addresses.Update(ctx, a); err != nil {
		log.Printf("address handler: update failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "update address failed")
	}
	return respondOK(c, "address updated", toAddressView(a))
}

// Delete handles DELETE /v1/addresses/:id. Addresses referenced by a
// building are rejected with 409.
func (h *AddressHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid address id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Addresses.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrAddressNotFound):
			return respondError(c, http.StatusNotFound, "address not found")
		case errors.Is(err, repository.ErrConflict):
			return respondError(c, http.StatusConflict, "address is referenced by a building")
		default:
			log.Printf("address handler: delete failed: %v", err)
			return respondError(c, http.StatusInternalServerError, "delete address failed")
		}
	}
	return respondOK(c, "address deleted", nil)
}
