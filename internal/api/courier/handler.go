package courier

import (
	"context"
	"net/http"

	"github.com/shopspring/decimal"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
)

type CourierService interface {
	CreateOverride(ctx context.Context, actor domain.Principal, o domain.CourierOverride) (domain.CourierOverride, error)
	ListOverrides(ctx context.Context, shipmentID string) ([]domain.CourierOverride, error)
	CostBreakdown(ctx context.Context, p domain.Principal, shipmentID string) (domain.CostBreakdown, error)
}

type Handler struct {
	Service CourierService
	Logger  logger.Logger
}

func NewHandler(svc CourierService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// overrideRequest é o corpo do POST; id, created_by e created_at são do servidor.
type overrideRequest struct {
	ShipmentID string          `json:"shipment_id"`
	BoxID      string          `json:"box_id"`
	Courier    string          `json:"courier"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
}

// CreateOverrideHandler lida com POST /v1/admin/courier-overrides.
// @Summary Registra override de custo de uma caixa
// @Tags courier
// @Accept json
// @Produce json
// @Success 201 {object} domain.CourierOverride
// @Failure 400 {object} domain.ErrorResponse "amount negativo ou caixa de outra remessa"
// @Security ApiKeyAuth
// @Router /admin/courier-overrides [post]
func (h *Handler) CreateOverrideHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var req overrideRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateOverride(r.Context(), p, domain.CourierOverride{
		ShipmentID: req.ShipmentID,
		BoxID:      req.BoxID,
		Courier:    req.Courier,
		Amount:     req.Amount,
		Reason:     req.Reason,
	})
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, created)
}

// ListOverridesHandler lida com GET /v1/admin/courier-overrides?shipment_id=.
func (h *Handler) ListOverridesHandler(w http.ResponseWriter, r *http.Request) {
	overrides, err := h.Service.ListOverrides(r.Context(), r.URL.Query().Get("shipment_id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, overrides)
}

// CostBreakdownHandler lida com GET /v1/shipments/{id}/cost-breakdown.
func (h *Handler) CostBreakdownHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	breakdown, err := h.Service.CostBreakdown(r.Context(), p, r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, breakdown)
}
