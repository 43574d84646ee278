package location

import (
	"context"
	"net/http"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
)

// LocationService define o contrato que o Handler espera da camada de Serviço.
type LocationService interface {
	CreateLocation(ctx context.Context, p domain.Principal, location domain.Location) (domain.Location, error)
	GetLocationByID(ctx context.Context, p domain.Principal, brandID, id string) (domain.Location, error)
	ListLocations(ctx context.Context, p domain.Principal, brandID string) ([]domain.Location, error)
	UpdateLocation(ctx context.Context, p domain.Principal, location domain.Location) (domain.Location, error)
	DeleteLocation(ctx context.Context, p domain.Principal, brandID, id string) error
}

// Handler agrupa todos os métodos de Handler de locais de estoque.
type Handler struct {
	Service LocationService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc LocationService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateLocationHandler lida com a requisição POST /v1/brand/inventory/locations.
// @Summary Cria um novo local de estoque
// @Description Cria um armazém, loja ou local de trânsito da marca.
// @Tags locations
// @Accept json
// @Produce json
// @Param location body domain.Location true "Dados do local para criação"
// @Success 201 {object} domain.Location "Local criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Security ApiKeyAuth
// @Router /brand/inventory/locations [post]
func (h *Handler) CreateLocationHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var location domain.Location
	if err := respond.Decode(r, &location); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.CreateLocation(r.Context(), p, location)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, created)
}

// GetLocationHandler lida com a requisição GET /v1/brand/inventory/locations/{id}.
// @Summary Obtém um local por ID
// @Tags locations
// @Produce json
// @Param id path string true "ID do local"
// @Success 200 {object} domain.Location "Local encontrado"
// @Failure 404 {object} domain.ErrorResponse "Local não encontrado"
// @Security ApiKeyAuth
// @Router /brand/inventory/locations/{id} [get]
func (h *Handler) GetLocationHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	location, err := h.Service.GetLocationByID(r.Context(), p, r.URL.Query().Get("brand_id"), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, location)
}

// ListLocationsHandler lida com a requisição GET /v1/brand/inventory/locations.
// @Summary Lista os locais da marca
// @Tags locations
// @Produce json
// @Success 200 {array} domain.Location "Lista de locais"
// @Security ApiKeyAuth
// @Router /brand/inventory/locations [get]
func (h *Handler) ListLocationsHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	locations, err := h.Service.ListLocations(r.Context(), p, r.URL.Query().Get("brand_id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, locations)
}

// UpdateLocationHandler lida com a requisição PUT /v1/brand/inventory/locations/{id}.
func (h *Handler) UpdateLocationHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var location domain.Location
	if err := respond.Decode(r, &location); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	location.ID = r.PathValue("id") // O ID da URL prevalece sobre o do corpo

	updated, err := h.Service.UpdateLocation(r.Context(), p, location)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, updated)
}

// DeleteLocationHandler lida com a requisição DELETE /v1/brand/inventory/locations/{id}.
func (h *Handler) DeleteLocationHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.DeleteLocation(r.Context(), p, r.URL.Query().Get("brand_id"), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusNoContent, nil)
}
