package network

import (
	"context"
	"errors"
	"mime"
	"net/http"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/csvio"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/middleware"
	"goship/internal/pkg/respond"
	"goship/internal/service/networkservice"
)

// maxUploadBytes limita o corpo do upload em massa.
const maxUploadBytes = 5 << 20

type NetworkService interface {
	List(ctx context.Context, p domain.Principal, brandID, rawRole string) ([]domain.NetworkMember, error)
	Remove(ctx context.Context, p domain.Principal, brandID, userID string) error
	BulkUpload(ctx context.Context, p domain.Principal, brandID string, rows []csvio.NumberedRow) (domain.BulkResult, error)
}

type Handler struct {
	Service NetworkService
	Logger  logger.Logger
}

func NewHandler(svc NetworkService, log logger.Logger) *Handler {
	return &Handler{Service: svc, Logger: log}
}

// ListHandler lida com GET /v1/brand/network?role_type=.
func (h *Handler) ListHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	q := r.URL.Query()
	members, err := h.Service.List(r.Context(), p, q.Get("brand_id"), q.Get("role_type"))
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, members)
}

// RemoveHandler lida com DELETE /v1/brand/network/{user_id}.
func (h *Handler) RemoveHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	if err := h.Service.Remove(r.Context(), p, r.URL.Query().Get("brand_id"), r.PathValue("user_id")); err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusNoContent, nil)
}

// BulkUploadHandler lida com POST /v1/brand/network/bulk.
// @Summary Upload em massa da rede autorizada
// @Description Corpo text/csv com cabeçalho user_id,role_type, ou JSON [{user_id, role_type}].
// @Tags network
// @Accept text/csv
// @Accept json
// @Produce json
// @Success 200 {object} domain.BulkResult
// @Failure 400 {object} domain.ErrorResponse "Cabeçalho CSV inválido"
// @Security ApiKeyAuth
// @Router /brand/network/bulk [post]
func (h *Handler) BulkUploadHandler(w http.ResponseWriter, r *http.Request) {
	p, err := middleware.RequirePrincipal(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	rows, err := h.readRows(r)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}

	result, err := h.Service.BulkUpload(r.Context(), p, r.URL.Query().Get("brand_id"), rows)
	if err != nil {
		respond.Error(w, r, h.Logger, err)
		return
	}
	respond.JSON(w, h.Logger, http.StatusOK, result)
}

func (h *Handler) readRows(r *http.Request) ([]csvio.NumberedRow, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "text/csv", "application/csv":
		rows, err := csvio.ParseNetworkCSV(r.Body)
		if err != nil {
			if errors.Is(err, csvio.ErrHeaderMismatch) {
				return nil, apperror.NewValidationError("Cabeçalho CSV deve ser user_id,role_type.")
			}
			return nil, apperror.NewValidationError("CSV inválido: " + err.Error())
		}
		return rows, nil
	case "application/json", "":
		var rows []domain.NetworkRow
		if err := respond.Decode(r, &rows); err != nil {
			return nil, err
		}
		return networkservice.NumberJSONRows(rows), nil
	}
	return nil, apperror.NewValidationError("Content-Type deve ser text/csv ou application/json.")
}
