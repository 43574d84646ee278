package analytics

import (
	"context"
	"net/http"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
)

type AnalyticsService interface {
	Dashboard(ctx context.Context, p domain.Principal, brandID string) (domain.Dashboard, error)
}

type Handler struct {
	Service AnalyticsService
	Logger  logger.Logger
}

func NewHandler(svc AnalyticsService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// DashboardHandler lida com GET /v1/brand/analytics.
// @Summary Painel da marca
// @Tags analytics
// @Produce json
// @Param brand_id query string false "Marca (obrigatório para admin)"
// @Success 200 {object} domain.Dashboard
// @Security ApiKeyAuth
// @Router /brand/analytics [get]
func (h *Handler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	dashboard, err := h.Service.Dashboard(r.Context(), p, r.URL.Query().Get("brand_id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, dashboard)
}
