package supplier

import (
	"context"
	"net/http"

	"goship/internal/domain"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
)

type SupplierService interface {
	Create(ctx context.Context, p domain.Principal, s domain.Supplier) (domain.Supplier, error)
	Get(ctx context.Context, p domain.Principal, brandID, id string) (domain.Supplier, error)
	List(ctx context.Context, p domain.Principal, brandID string) ([]domain.Supplier, error)
	Update(ctx context.Context, p domain.Principal, s domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, p domain.Principal, brandID, id string) error
	Export(ctx context.Context, p domain.Principal, brandID string) (domain.ExportFile, error)
}

type Handler struct {
	Service SupplierService
	Logger  logger.Logger
}

func NewHandler(svc SupplierService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// CreateSupplierHandler lida com POST /v1/brand/inventory/suppliers.
// @Summary Cria um fornecedor
// @Description certifications aceita lista JSON ou string separada por vírgulas.
// @Tags suppliers
// @Accept json
// @Produce json
// @Param supplier body domain.Supplier true "Fornecedor"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /brand/inventory/suppliers [post]
func (h *Handler) CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var s domain.Supplier
	if err := respond.Decode(r, &s); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	created, err := h.Service.Create(r.Context(), p, s)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusCreated, created)
}

func (h *Handler) GetSupplierHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	s, err := h.Service.Get(r.Context(), p, r.URL.Query().Get("brand_id"), r.PathValue("id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, s)
}

func (h *Handler) ListSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	suppliers, err := h.Service.List(r.Context(), p, r.URL.Query().Get("brand_id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, suppliers)
}

func (h *Handler) UpdateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	var s domain.Supplier
	if err := respond.Decode(r, &s); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	s.ID = r.PathValue("id")

	updated, err := h.Service.Update(r.Context(), p, s)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, updated)
}

func (h *Handler) DeleteSupplierHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.Delete(r.Context(), p, r.URL.Query().Get("brand_id"), r.PathValue("id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusNoContent, nil)
}

// ExportSuppliersHandler lida com GET /v1/brand/inventory/suppliers/export (CSV).
func (h *Handler) ExportSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	file, err := h.Service.Export(r.Context(), p, r.URL.Query().Get("brand_id"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.File(w, h.Logger, file)
}
