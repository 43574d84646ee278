package part

import (
	"context"
	"net/http"
	"strings"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
)

// PartService define o contrato que o Handler espera da camada de Serviço.
type PartService interface {
	CreatePart(ctx context.Context, p domain.Principal, input domain.PartInput) (domain.Part, error)
	GetPart(ctx context.Context, p domain.Principal, id string) (domain.Part, error)
	ListParts(ctx context.Context, p domain.Principal, filter domain.PartFilter) ([]domain.Part, error)
	UpdatePart(ctx context.Context, p domain.Principal, id string, input domain.PartInput) (domain.Part, error)
	DeletePart(ctx context.Context, p domain.Principal, id string) error
}

// Handler agrupa todos os métodos de Handler do catálogo de peças.
type Handler struct {
	Service PartService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PartService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreatePartHandler lida com a requisição POST /v1/parts.
// @Summary Cria uma nova peça
// @Description Cria uma peça no catálogo da marca. Novas peças começam com approval_status PENDING.
// @Tags parts
// @Accept json
// @Produce json
// @Param part body domain.PartInput true "Dados da peça"
// @Success 201 {object} domain.Part "Peça criada com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Código já existe na marca"
// @Security ApiKeyAuth
// @Router /parts [post]
func (h *Handler) CreatePartHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var input domain.PartInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreatePart(r.Context(), p, input)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetPartHandler lida com a requisição GET /v1/parts/{id}.
// @Summary Obtém uma peça por ID
// @Tags parts
// @Produce json
// @Param id path string true "ID da peça"
// @Success 200 {object} domain.Part
// @Failure 404 {object} domain.ErrorResponse "Peça não encontrada"
// @Security ApiKeyAuth
// @Router /parts/{id} [get]
func (h *Handler) GetPartHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	part, err := h.Service.GetPart(r.Context(), p, r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, part)
}

// ListPartsHandler lida com GET /v1/parts?brand_id=&name=&code=&approval_status=&page=&limit=.
func (h *Handler) ListPartsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	q := r.URL.Query()
	filter := domain.PartFilter{
		BrandID: q.Get("brand_id"),
		Name:    q.Get("name"),
		Code:    q.Get("code"),
		Page:    respond.QueryInt(r, "page", 1),
		Limit:   respond.QueryInt(r, "limit", 50),
	}
	// approval_status aceita lista separada por vírgulas
	if raw := q.Get("approval_status"); raw != "" {
		for _, item := range strings.Split(raw, ",") {
			status, ok := domain.ParseApprovalStatus(item)
			if !ok {
				respond.Error(w, r, h.Logger, apperror.NewValidationError("approval_status inválido: "+strings.TrimSpace(item)))
				return
			}
			filter.ApprovalStatus = append(filter.ApprovalStatus, status)
		}
	}

	parts, err := h.Service.ListParts(r.Context(), p, filter)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, parts)
}

// UpdatePartHandler lida com PUT /v1/parts/{id}.
func (h *Handler) UpdatePartHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var input domain.PartInput
	if err := respond.Decode(r, &input); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	updated, err := h.Service.UpdatePart(r.Context(), p, r.PathValue("id"), input)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, updated)
}

// DeletePartHandler lida com DELETE /v1/parts/{id}.
func (h *Handler) DeletePartHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.DeletePart(r.Context(), p, r.PathValue("id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusNoContent, nil)
}
