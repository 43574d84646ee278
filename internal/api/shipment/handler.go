package shipment

import (
	"context"
	"net/http"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
)

// ShipmentService define o contrato que o Handler espera da camada de Serviço.
type ShipmentService interface {
	List(ctx context.Context, p domain.Principal, q domain.ShipmentQuery) (domain.ShipmentList, error)
	Stats(ctx context.Context, p domain.Principal, q domain.ShipmentQuery) (domain.ShipmentStats, error)
	Get(ctx context.Context, p domain.Principal, id string) (domain.Shipment, error)
	Create(ctx context.Context, p domain.Principal, req domain.NewShipmentRequest) (domain.Shipment, error)
	Update(ctx context.Context, p domain.Principal, id string, upd domain.ShipmentStatusUpdate) (domain.Shipment, error)
	Delete(ctx context.Context, p domain.Principal, id string) error
	RegenerateAWB(ctx context.Context, p domain.Principal, id string) (domain.Shipment, error)
	Export(ctx context.Context, p domain.Principal, q domain.ShipmentQuery, format string) (domain.ExportFile, error)
}

// Handler agrupa todos os métodos de Handler de remessas.
type Handler struct {
	Service ShipmentService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ShipmentService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

func queryFromRequest(r *http.Request) domain.ShipmentQuery {
	q := r.URL.Query()
	return domain.ShipmentQuery{
		BrandID: q.Get("brand_id"),
		UserID:  q.Get("user_id"),
		Role:    q.Get("role"),
		Bucket:  q.Get("bucket"),
	}
}

// ListShipmentsHandler lida com a requisição GET /v1/shipments.
// @Summary Lista remessas do escopo do usuário
// @Description Retorna as remessas do bucket informado e os contadores de todos os buckets.
// @Tags shipments
// @Produce json
// @Param bucket query string false "all, pending, pickup_scheduled, dispatched, in_transit, out_for_delivery, delivered, issues"
// @Param brand_id query string false "Marca (apenas admin)"
// @Success 200 {object} domain.ShipmentList
// @Failure 400 {object} domain.ErrorResponse "Bucket inválido"
// @Security ApiKeyAuth
// @Router /shipments [get]
func (h *Handler) ListShipmentsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	list, err := h.Service.List(r.Context(), p, queryFromRequest(r))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, list)
}

// StatsHandler lida com GET /v1/shipments/stats.
// @Summary Contadores por bucket
// @Tags shipments
// @Produce json
// @Success 200 {object} domain.ShipmentStats
// @Security ApiKeyAuth
// @Router /shipments/stats [get]
func (h *Handler) StatsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	stats, err := h.Service.Stats(r.Context(), p, queryFromRequest(r))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, stats)
}

// CreateShipmentHandler lida com POST /v1/shipments.
// @Summary Cria uma remessa com caixas
// @Tags shipments
// @Accept json
// @Produce json
// @Param shipment body domain.NewShipmentRequest true "Remessa"
// @Success 201 {object} domain.Shipment
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 403 {object} domain.ErrorResponse "Papel sem permissão"
// @Security ApiKeyAuth
// @Router /shipments [post]
func (h *Handler) CreateShipmentHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var req domain.NewShipmentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.Create(r.Context(), p, req)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetShipmentHandler lida com GET /v1/shipments/{id}.
func (h *Handler) GetShipmentHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	s, err := h.Service.Get(r.Context(), p, r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, s)
}

// UpdateShipmentHandler lida com PUT /v1/shipments/{id}.
// @Summary Atualiza status da remessa e/ou caixas
// @Description Caixas sem AWB não podem avançar para DISPATCHED, IN_TRANSIT, OUT_FOR_DELIVERY ou DELIVERED (409).
// @Tags shipments
// @Accept json
// @Produce json
// @Param id path string true "ID da remessa"
// @Param update body domain.ShipmentStatusUpdate true "Novos status"
// @Success 200 {object} domain.Shipment
// @Failure 409 {object} domain.ErrorResponse "Caixa sem AWB"
// @Security ApiKeyAuth
// @Router /shipments/{id} [put]
func (h *Handler) UpdateShipmentHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var upd domain.ShipmentStatusUpdate
	if err := respond.Decode(r, &upd); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.Update(r.Context(), p, r.PathValue("id"), upd)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, updated)
}

// DeleteShipmentHandler lida com DELETE /v1/shipments/{id}.
func (h *Handler) DeleteShipmentHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.Delete(r.Context(), p, r.PathValue("id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusNoContent, nil)
}

// RegenerateAWBHandler lida com POST /v1/shipments/{id}/regenerate-awb.
func (h *Handler) RegenerateAWBHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	s, err := h.Service.RegenerateAWB(r.Context(), p, r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, s)
}

// ExportHandler lida com GET /v1/shipments/export?format=csv|xlsx.
// @Summary Exporta as remessas do escopo
// @Tags shipments
// @Produce text/csv
// @Param format query string false "csv (padrão) ou xlsx"
// @Success 200 {file} file
// @Security ApiKeyAuth
// @Router /shipments/export [get]
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	file, err := h.Service.Export(r.Context(), p, queryFromRequest(r), r.URL.Query().Get("format"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.File(w, h.Logger, file)
}
