// Package courierservice registra overrides de custo de courier e calcula a composição de custos das remessas.
package courierservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
)

// OverrideRepository é o contrato de persistência dos overrides de courier.
type OverrideRepository interface {
	Create(ctx context.Context, o domain.CourierOverride) (domain.CourierOverride, error)
	ListByShipment(ctx context.Context, shipmentID string) ([]domain.CourierOverride, error)
}

// ShipmentGetter resolve a remessa respeitando o escopo do usuário (shipmentservice).
type ShipmentGetter interface {
	Get(ctx context.Context, p domain.Principal, id string) (domain.Shipment, error)
}

// Rates é a tabela de custo base por caixa: BaseFee + peso(kg) * RatePerKg.
type Rates struct {
	BaseFee   decimal.Decimal
	RatePerKg decimal.Decimal
}

// Service implementa overrides de courier e o detalhamento de custo da remessa.
type Service struct {
	repo      OverrideRepository
	shipments ShipmentGetter
	rates     Rates
	logger    logger.Logger
	now       func() time.Time
}

// NewService cria o serviço de courier com a tabela de custo base.
func NewService(repo OverrideRepository, shipments ShipmentGetter, rates Rates, logger logger.Logger) *Service {
	return &Service{repo: repo, shipments: shipments, rates: rates, logger: logger, now: time.Now}
}

// CreateOverride registra um valor que substitui o custo calculado de uma caixa.
func (s *Service) CreateOverride(ctx context.Context, actor domain.Principal, o domain.CourierOverride) (domain.CourierOverride, error) {
	s.logger.Debug("Iniciando criação de override de courier.", map[string]interface{}{"shipment_id": o.ShipmentID, "box_id": o.BoxID})

	if _, err := uuid.Parse(o.ShipmentID); err != nil {
		return domain.CourierOverride{}, apperror.NewValidationError("shipment_id deve ser um UUID válido.")
	}
	if _, err := uuid.Parse(o.BoxID); err != nil {
		return domain.CourierOverride{}, apperror.NewValidationError("box_id deve ser um UUID válido.")
	}
	if o.Amount.IsNegative() {
		return domain.CourierOverride{}, apperror.NewValidationError("amount não pode ser negativo.")
	}

	shipment, err := s.shipments.Get(ctx, actor, o.ShipmentID)
	if err != nil {
		return domain.CourierOverride{}, err
	}
	if !hasBox(shipment, o.BoxID) {
		s.logger.Warn("Override para caixa de outra remessa.", map[string]interface{}{"shipment_id": o.ShipmentID, "box_id": o.BoxID})
		return domain.CourierOverride{}, apperror.NewValidationError("A caixa não pertence à remessa informada.")
	}

	o.ID = uuid.New().String()
	o.Courier = strings.TrimSpace(o.Courier)
	if o.Courier == "" {
		o.Courier = shipment.Courier
	}
	o.Reason = strings.TrimSpace(o.Reason)
	o.CreatedBy = actor.UserID
	o.CreatedAt = s.now().UTC()

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		s.logger.Error("Falha ao gravar override de courier.", err)
		return domain.CourierOverride{}, apperror.NewInternalError("Falha interna ao gravar override.", err)
	}

	s.logger.Info("Override de courier registrado.", map[string]interface{}{"id": created.ID, "amount": created.Amount.String()})
	return created, nil
}

// ListOverrides retorna os overrides de uma remessa.
func (s *Service) ListOverrides(ctx context.Context, shipmentID string) ([]domain.CourierOverride, error) {
	if _, err := uuid.Parse(shipmentID); err != nil {
		return nil, apperror.NewValidationError("shipment_id deve ser um UUID válido.")
	}
	overrides, err := s.repo.ListByShipment(ctx, shipmentID)
	if err != nil {
		s.logger.Error("Falha ao listar overrides de courier.", err)
		return nil, apperror.NewInternalError("Falha interna ao listar overrides.", err)
	}
	return overrides, nil
}

// CostBreakdown calcula o custo por caixa e o total da remessa.
func (s *Service) CostBreakdown(ctx context.Context, p domain.Principal, shipmentID string) (domain.CostBreakdown, error) {
	shipment, err := s.shipments.Get(ctx, p, shipmentID)
	if err != nil {
		return domain.CostBreakdown{}, err
	}
	overrides, err := s.repo.ListByShipment(ctx, shipment.ID)
	if err != nil {
		s.logger.Error("Falha ao buscar overrides para composição de custos.", err)
		return domain.CostBreakdown{}, apperror.NewInternalError("Falha interna ao calcular custos.", err)
	}
	return Breakdown(shipment, overrides, s.rates), nil
}

// Breakdown aplica a tabela e os overrides. Quando há mais de um override para a
// mesma caixa vale o mais recente. Total arredondado em 2 casas (meio para cima).
func Breakdown(shipment domain.Shipment, overrides []domain.CourierOverride, rates Rates) domain.CostBreakdown {
	latest := make(map[string]domain.CourierOverride, len(overrides))
	for _, o := range overrides {
		if prev, ok := latest[o.BoxID]; !ok || !o.CreatedAt.Before(prev.CreatedAt) {
			latest[o.BoxID] = o
		}
	}

	out := domain.CostBreakdown{
		ShipmentID: shipment.ID,
		Courier:    shipment.Courier,
		Lines:      make([]domain.CostLine, 0, len(shipment.Boxes)),
		Total:      decimal.Zero,
	}
	for _, box := range shipment.Boxes {
		line := domain.CostLine{
			BoxID:     box.ID,
			BoxNumber: box.BoxNumber,
			Weight:    box.Weight,
			BaseCost:  rates.BaseFee.Add(box.Weight.Mul(rates.RatePerKg)),
		}
		line.FinalCost = line.BaseCost
		if o, ok := latest[box.ID]; ok {
			amount := o.Amount
			line.Override = &amount
			line.FinalCost = amount
		}
		out.Total = out.Total.Add(line.FinalCost)
		out.Lines = append(out.Lines, line)
	}
	out.Total = out.Total.Round(2)
	return out
}

func hasBox(shipment domain.Shipment, boxID string) bool {
	for _, b := range shipment.Boxes {
		if b.ID == boxID {
			return true
		}
	}
	return false
}
