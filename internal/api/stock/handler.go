package stock

import (
	"context"
	"net/http"
	"strconv"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	AdjustStock(ctx context.Context, p domain.Principal, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error)
	ListStock(ctx context.Context, p domain.Principal, brandID, locationID string) ([]domain.StockView, error)
	RestockAlerts(ctx context.Context, p domain.Principal, brandID string, publish bool) ([]domain.RestockAlert, error)
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// AdjustStockHandler lida com a requisição POST /v1/stock/adjust.
// @Summary Ajusta o estoque de uma peça em um local
// @Description delta positivo entra, negativo sai. O resultado nunca fica negativo; conflito de versão retorna 409.
// @Tags stock
// @Accept json
// @Produce json
// @Param adjustment body domain.StockAdjustmentRequest true "Ajuste"
// @Success 200 {object} domain.StockLevel
// @Failure 400 {object} domain.ErrorResponse "Delta zero ou estoque negativo"
// @Failure 409 {object} domain.ErrorResponse "Falha de concorrência"
// @Security ApiKeyAuth
// @Router /stock/adjust [post]
func (h *Handler) AdjustStockHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var adjustmentRequest domain.StockAdjustmentRequest
	if err := respond.Decode(r, &adjustmentRequest); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	stockLevel, err := h.Service.AdjustStock(r.Context(), p, adjustmentRequest)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, stockLevel)
}

// ListStockHandler lida com GET /v1/stock?brand_id=&location_id=.
func (h *Handler) ListStockHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	q := r.URL.Query()
	views, err := h.Service.ListStock(r.Context(), p, q.Get("brand_id"), q.Get("location_id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, views)
}

// RestockAlertsHandler lida com GET /v1/brand/restock-alerts?notify=true.
// @Summary Alertas de reposição por MSL
// @Tags stock
// @Produce json
// @Param notify query bool false "Publica cada alerta na fila de reposição"
// @Success 200 {array} domain.RestockAlert
// @Security ApiKeyAuth
// @Router /brand/restock-alerts [get]
func (h *Handler) RestockAlertsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	publish, _ := strconv.ParseBool(r.URL.Query().Get("notify"))
	alerts, err := h.Service.RestockAlerts(r.Context(), p, r.URL.Query().Get("brand_id"), publish)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, alerts)
}
