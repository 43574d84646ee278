package approval

import (
	"context"
	"net/http"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
)

type ApprovalService interface {
	ListQueue(ctx context.Context, rawStatus string, page, limit int) ([]domain.Part, error)
	Decide(ctx context.Context, actor domain.Principal, partID string, d domain.ApprovalDecision) (domain.Part, error)
	History(ctx context.Context, partID string) ([]domain.ApprovalEvent, error)
}

// Handler expõe a fila de aprovação de peças (rotas de admin).
type Handler struct {
	Service ApprovalService
	Logger  logger.Logger
}

func NewHandler(svc ApprovalService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListQueueHandler lida com GET /v1/admin/part-approvals?status=.
// @Summary Fila de aprovação de peças
// @Description Sem status, lista PENDING e UNDER_REVIEW.
// @Tags approvals
// @Produce json
// @Param status query string false "Lista separada por vírgulas"
// @Success 200 {array} domain.Part
// @Security ApiKeyAuth
// @Router /admin/part-approvals [get]
func (h *Handler) ListQueueHandler(w http.ResponseWriter, r *http.Request) {
	parts, err := h.Service.ListQueue(r.Context(), r.URL.Query().Get("status"),
		respond.QueryInt(r, "page", 1), respond.QueryInt(r, "limit", 50))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, parts)
}

// DecideHandler lida com PUT /v1/admin/part-approvals/{part_id}.
// @Summary Decide a aprovação de uma peça
// @Tags approvals
// @Accept json
// @Produce json
// @Param part_id path string true "ID da peça"
// @Param decision body domain.ApprovalDecision true "Decisão"
// @Success 200 {object} domain.Part
// @Failure 409 {object} domain.ErrorResponse "Transição não permitida"
// @Security ApiKeyAuth
// @Router /admin/part-approvals/{part_id} [put]
func (h *Handler) DecideHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var d domain.ApprovalDecision
	if err := respond.Decode(r, &d); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	part, err := h.Service.Decide(r.Context(), p, r.PathValue("part_id"), d)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, part)
}

// HistoryHandler lida com GET /v1/admin/part-approvals/{part_id}/history.
func (h *Handler) HistoryHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.Service.History(r.Context(), r.PathValue("part_id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, events)
}
