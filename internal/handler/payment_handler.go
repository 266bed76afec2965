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

// PaymentHandler exposes endpoints for recording and listing payments.
type PaymentHandler struct {
	Payments  *repository.PaymentRepo
	Contracts *repository.ContractRepo
}

func NewPaymentHandler(payments *repository.PaymentRepo, contracts *repository.ContractRepo) *PaymentHandler {
	if payments == nil || contracts == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments, Contracts: contracts}
}

type paymentReq struct {
	ContractID    uint64  `json:"contract_id"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	PaidAt        *string `json:"paid_at"` // RFC3339; defaults to now
	ReferenceCode *string `json:"reference_code"`
	Note          *string `json:"note"`
}

type paymentView struct {
	ID            uint64  `json:"id"`
	ContractID    uint64  `json:"contract_id"`
	PayerID       *uint64 `json:"payer_id,omitempty"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	PaidAt        string  `json:"paid_at"`
	ReferenceCode *string `json:"reference_code,omitempty"`
	Note          *string `json:"note,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func toPaymentView(p *model.Payment) paymentView {
	return paymentView{
		ID:            p.ID,
		ContractID:    p.ContractID,
		PayerID:       p.PayerID,
		Amount:        p.Amount,
		Method:        p.Method,
		PaidAt:        p.PaidAt.UTC().Format(time.RFC3339),
		ReferenceCode: p.ReferenceCode,
		Note:          p.Note,
		CreatedAt:     p.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Create handles POST /v1/payments. The contract must exist; the payer
// is the authenticated user when present.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req paymentReq
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "invalid body")
	}
	if req.ContractID == 0 {
		return respondError(c, http.StatusBadRequest, "contract_id is required")
	}
	if req.Amount <= 0 {
		return respondError(c, http.StatusBadRequest, "amount must be greater than zero")
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if method == "" {
		method = "CASH"
	}
	paidAt := time.Now().UTC()
	if req.PaidAt != nil && strings.TrimSpace(*req.PaidAt) != "" {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.PaidAt))
		if err != nil {
			return respondError(c, http.StatusBadRequest, "paid_at must be RFC3339")
		}
		paidAt = t
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Contracts.GetByID(ctx, req.ContractID); err != nil {
		if errors.Is(err, repository.ErrContractNotFound) {
			return respondError(c, http.StatusNotFound, "contract not found")
		}
		log.Printf("payment handler: contract lookup failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "load contract failed")
	}

	p := &model.Payment{
		ContractID:    req.ContractID,
		Amount:        req.Amount,
		Method:        method,
		PaidAt:        paidAt,
		ReferenceCode: req.ReferenceCode,
		Note:          req.Note,
	}
	if uid := optionalUserID(c); uid != 0 {
		p.PayerID = &uid
	}

	if err := h.Payments.Create(ctx, p); err != nil {
		log.Printf("payment handler: create failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "create payment failed")
	}
	return respondCreated(c, "payment recorded", toPaymentView(p))
}

// ListByContract handles GET /v1/contracts/:id/payments and includes
// the running total.
func (h *PaymentHandler) ListByContract(c echo.Context) error {
	contractID, err := pathID(c, "id")
	if err != nil {
		return respondError(c, http.StatusBadRequest, "invalid contract id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Contracts.GetByID(ctx, contractID); err != nil {
		if errors.Is(err, repository.ErrContractNotFound) {
			return respondError(c, http.StatusNotFound, "contract not found")
		}
		log.Printf("payment handler: contract lookup failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "load contract failed")
	}

	items, err := h.Payments.ListByContract(ctx, contractID)
	if err != nil {
		log.Printf("payment handler: list failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "list payments failed")
	}
	total, err := h.Payments.SumByContract(ctx, contractID)
	if err != nil {
		log.Printf("payment handler: sum failed: %v", err)
		return respondError(c, http.StatusInternalServerError, "sum payments failed")
	}
	views := make([]paymentView, 0, len(items))
	for _, p := range items {
		views = append(views, toPaymentView(p))
	}
	return respondOK(c, "payment list", echo.Map{"items": views, "total_paid": total})
}
