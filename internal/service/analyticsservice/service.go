// Package analyticsservice monta o painel da marca a partir de remessas, estoque e aprovações.
package analyticsservice

import (
	"context"

	"golang.org/x/sync/errgroup"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
	"goship/internal/service/tenant"
)

// ShipmentStatser fornece os contadores de remessas do escopo (shipmentservice).
type ShipmentStatser interface {
	Stats(ctx context.Context, p domain.Principal, q domain.ShipmentQuery) (domain.ShipmentStats, error)
}

// StockReporter fornece o resumo de estoque e os alertas de reposição (stockservice).
type StockReporter interface {
	Summary(ctx context.Context, brandID string) (domain.StockSummary, error)
	Alerts(ctx context.Context, brandID string) ([]domain.RestockAlert, error)
}

// ApprovalCounter conta peças por status de aprovação (partrepo).
type ApprovalCounter interface {
	CountByApprovalStatus(ctx context.Context, brandID string, statuses []domain.ApprovalStatus) (int, error)
}

// pendingStatuses são os status que contam como aprovação pendente no painel.
var pendingStatuses = []domain.ApprovalStatus{domain.ApprovalPending, domain.ApprovalUnderReview}

// Service monta o painel de analytics da marca.
type Service struct {
	shipments ShipmentStatser
	stock     StockReporter
	approvals ApprovalCounter
	logger    logger.Logger
}

// NewService cria o serviço de analytics a partir das fontes de dados.
func NewService(shipments ShipmentStatser, stock StockReporter, approvals ApprovalCounter, logger logger.Logger) *Service {
	return &Service{shipments: shipments, stock: stock, approvals: approvals, logger: logger}
}

// Dashboard busca as quatro fontes em paralelo; a primeira falha cancela as demais.
func (s *Service) Dashboard(ctx context.Context, p domain.Principal, brandID string) (domain.Dashboard, error) {
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return domain.Dashboard{}, err
	}

	out := domain.Dashboard{BrandID: brandID}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.shipments.Stats(gctx, p, domain.ShipmentQuery{BrandID: brandID})
		out.ShipmentStats = stats
		return err
	})
	g.Go(func() error {
		summary, err := s.stock.Summary(gctx, brandID)
		out.StockSummary = summary
		return err
	})
	g.Go(func() error {
		alerts, err := s.stock.Alerts(gctx, brandID)
		out.RestockAlerts = len(alerts)
		return err
	})
	g.Go(func() error {
		count, err := s.approvals.CountByApprovalStatus(gctx, brandID, pendingStatuses)
		out.PendingApprovals = count
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("Falha ao montar painel da marca.", err)
		if apperror.IsAppError(err) {
			return domain.Dashboard{}, err
		}
		return domain.Dashboard{}, apperror.NewInternalError("Falha interna ao montar painel.", err)
	}

	s.logger.Info("Painel da marca gerado.", map[string]interface{}{"brand_id": brandID})
	return out, nil
}
