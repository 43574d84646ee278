package stockservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/notify"
	"goship/internal/service/tenant"
)

// StockRepository define o contrato que o Serviço de Estoque espera da camada de Persistência.
type StockRepository interface {
	UpdateStockLevel(ctx context.Context, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error)
	ListStock(ctx context.Context, filter domain.StockFilter) ([]domain.StockView, error)
	PartStockTotals(ctx context.Context, brandID string) ([]domain.PartStockTotal, error)
}

// PartFinder busca a peça para checar a marca dona antes do ajuste.
type PartFinder interface {
	FindByID(ctx context.Context, id string) (domain.Part, error)
}

// LocationFinder busca o local dentro da marca dona da peça.
type LocationFinder interface {
	GetLocationByID(ctx context.Context, brandID, id string) (domain.Location, error)
}

// Service implementa ajustes, consultas e alertas de reposição de estoque.
type Service struct {
	repo      StockRepository
	parts     PartFinder
	locations LocationFinder
	notifier  notify.Notifier
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(repo StockRepository, parts PartFinder, locations LocationFinder, notifier notify.Notifier, logger logger.Logger) *Service {
	return &Service{repo: repo, parts: parts, locations: locations, notifier: notifier, logger: logger, now: time.Now}
}

// AdjustStock aplica um ajuste ao nível de estoque de uma peça em um local.
func (s *Service) AdjustStock(ctx context.Context, p domain.Principal, adjustment domain.StockAdjustmentRequest) (domain.StockLevel, error) {
	s.logger.Debug("Iniciando ajuste de estoque no serviço.", map[string]interface{}{
		"part_id":     adjustment.PartID,
		"location_id": adjustment.LocationID,
		"delta":       adjustment.Delta,
	})

	if adjustment.Delta == 0 {
		return domain.StockLevel{}, apperror.NewValidationError("O ajuste de estoque (delta) não pode ser zero.")
	}
	if _, err := uuid.Parse(adjustment.PartID); err != nil {
		return domain.StockLevel{}, apperror.NewValidationError("part_id deve ser um UUID válido.")
	}
	if _, err := uuid.Parse(adjustment.LocationID); err != nil {
		return domain.StockLevel{}, apperror.NewValidationError("location_id deve ser um UUID válido.")
	}

	part, err := s.parts.FindByID(ctx, adjustment.PartID)
	if err != nil {
		return domain.StockLevel{}, err
	}
	if !p.IsAdmin() && part.BrandID != p.BrandID {
		// Peça de outra marca é tratada como inexistente.
		return domain.StockLevel{}, apperror.NewNotFoundError("Peça não encontrada")
	}

	// O local precisa pertencer à mesma marca da peça.
	if _, err := s.locations.GetLocationByID(ctx, part.BrandID, adjustment.LocationID); err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			s.logger.Warn("Local inexistente ou de outra marca no ajuste de estoque.", map[string]interface{}{
				"location_id": adjustment.LocationID,
				"brand_id":    part.BrandID,
			})
			return domain.StockLevel{}, apperror.NewNotFoundError("Local não encontrado")
		}
		return domain.StockLevel{}, err
	}

	stockLevel, err := s.repo.UpdateStockLevel(ctx, adjustment)
	if err != nil {
		var conflictErr *apperror.ConflictError
		if errors.As(err, &conflictErr) {
			s.logger.Warn("Conflito de concorrência no ajuste de estoque.", map[string]interface{}{"part_id": adjustment.PartID})
			return domain.StockLevel{}, apperror.NewConflictError(fmt.Sprintf("Falha de concorrência: %s", conflictErr.Msg))
		}
		if apperror.IsAppError(err) {
			return domain.StockLevel{}, err
		}
		s.logger.Error("Falha ao ajustar estoque no repositório.", err)
		return domain.StockLevel{}, apperror.NewInternalError("Falha interna ao ajustar estoque.", err)
	}

	s.logger.Info("Estoque ajustado com sucesso.", map[string]interface{}{
		"part_id":      stockLevel.PartID,
		"location_id":  stockLevel.LocationID,
		"new_quantity": stockLevel.Quantity,
		"new_version":  stockLevel.Version,
	})
	return stockLevel, nil
}

// ListStock lista os níveis de estoque da marca com o status derivado do MSL.
func (s *Service) ListStock(ctx context.Context, p domain.Principal, brandID, locationID string) ([]domain.StockView, error) {
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return nil, err
	}
	if locationID != "" {
		if _, err := uuid.Parse(locationID); err != nil {
			return nil, apperror.NewValidationError("location_id deve ser um UUID válido.")
		}
	}
	return s.listStock(ctx, domain.StockFilter{BrandID: brandID, LocationID: locationID})
}

func (s *Service) listStock(ctx context.Context, filter domain.StockFilter) ([]domain.StockView, error) {
	views, err := s.repo.ListStock(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar estoque.", err)
		return nil, apperror.NewInternalError("Falha interna ao listar estoque.", err)
	}
	for i := range views {
		views[i].Status = domain.DeriveStockStatus(views[i].Quantity, views[i].MSL)
	}
	return views, nil
}

// Summary conta os níveis de estoque da marca por status (usado pelo painel).
func (s *Service) Summary(ctx context.Context, brandID string) (domain.StockSummary, error) {
	views, err := s.listStock(ctx, domain.StockFilter{BrandID: brandID})
	if err != nil {
		return domain.StockSummary{}, err
	}
	var summary domain.StockSummary
	for _, v := range views {
		switch v.Status {
		case domain.StockInStock:
			summary.InStock++
		case domain.StockLow:
			summary.LowStock++
		case domain.StockOutOfStock:
			summary.OutOfStock++
		}
	}
	return summary, nil
}

// RestockAlerts calcula os alertas da marca. Com publish, cada alerta vai para a fila de reposição.
func (s *Service) RestockAlerts(ctx context.Context, p domain.Principal, brandID string, publish bool) ([]domain.RestockAlert, error) {
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return nil, err
	}
	alerts, err := s.Alerts(ctx, brandID)
	if err != nil {
		return nil, err
	}
	if !publish {
		return alerts, nil
	}

	for _, alert := range alerts {
		if err := s.notifier.Notify(ctx, alert); err != nil {
			s.logger.Error("Falha ao publicar alerta de reposição.", err)
			return nil, apperror.NewInternalError("Falha ao publicar alertas de reposição.", err)
		}
	}
	s.logger.Info("Alertas de reposição publicados.", map[string]interface{}{"brand_id": brandID, "count": len(alerts)})
	return alerts, nil
}

// Alerts calcula os alertas de uma marca já resolvida.
func (s *Service) Alerts(ctx context.Context, brandID string) ([]domain.RestockAlert, error) {
	totals, err := s.repo.PartStockTotals(ctx, brandID)
	if err != nil {
		s.logger.Error("Falha ao agregar estoque por peça.", err)
		return nil, apperror.NewInternalError("Falha interna ao calcular alertas de reposição.", err)
	}
	return BuildAlerts(totals, s.now().UTC()), nil
}

// BuildAlerts gera um alerta para cada peça com estoque total abaixo do MSL.
// Críticos (sem estoque) vêm primeiro, depois por código.
func BuildAlerts(totals []domain.PartStockTotal, now time.Time) []domain.RestockAlert {
	alerts := []domain.RestockAlert{}
	for _, t := range totals {
		if t.MSL <= 0 || t.OnHand >= t.MSL {
			continue
		}
		severity := domain.AlertWarning
		if t.OnHand <= 0 {
			severity = domain.AlertCritical
		}
		alerts = append(alerts, domain.RestockAlert{
			PartID:              t.PartID,
			PartCode:            t.PartCode,
			PartName:            t.PartName,
			BrandID:             t.BrandID,
			OnHand:              t.OnHand,
			MSL:                 t.MSL,
			RecommendedQuantity: recommendedQuantity(t.OnHand, t.MSL),
			Severity:            severity,
			GeneratedAt:         now,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		if alerts[i].Severity != alerts[j].Severity {
			return alerts[i].Severity == domain.AlertCritical
		}
		return alerts[i].PartCode < alerts[j].PartCode
	})
	return alerts
}

// recommendedQuantity repõe até o dobro do MSL, nunca menos que o déficit.
func recommendedQuantity(onHand, msl int) int {
	if onHand < 0 {
		onHand = 0
	}
	rec := 2*msl - onHand
	if deficit := msl - onHand; rec < deficit {
		rec = deficit
	}
	return rec
}
