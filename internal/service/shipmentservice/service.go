package shipmentservice

import (
	"bytes"
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/csvio"
	"goship/internal/pkg/events"
	"goship/internal/pkg/logger"
	"goship/internal/pkg/report"
	"goship/internal/shipmentstatus"
)

// ShipmentRepository define o contrato que o Serviço de Remessas espera da camada de Persistência.
type ShipmentRepository interface {
	List(ctx context.Context, scope domain.ShipmentScope) ([]domain.Shipment, error)
	FindByID(ctx context.Context, id string) (domain.Shipment, error)
	Create(ctx context.Context, s domain.Shipment) (domain.Shipment, error)
	UpdateStatus(ctx context.Context, id string, upd domain.ShipmentStatusUpdate) error
	SetBoxAWBs(ctx context.Context, shipmentID string, boxes []domain.Box) error
	Delete(ctx context.Context, id string) error
}

// awbDigits é a quantidade de dígitos após o prefixo do AWB.
const awbDigits = 10

// Service concentra as regras de negócio de remessas.
type Service struct {
	repo      ShipmentRepository
	publisher events.Publisher
	logger    logger.Logger
	awbPrefix string

	now    func() time.Time
	newAWB func(prefix string) (string, error)
}

// NewService cria e retorna uma nova instância do Serviço de Remessas.
func NewService(repo ShipmentRepository, publisher events.Publisher, awbPrefix string, logger logger.Logger) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
		awbPrefix: awbPrefix,
		now:       func() time.Time { return time.Now().UTC() },
		newAWB:    randomAWB,
	}
}

// randomAWB gera prefixo + 10 dígitos aleatórios.
func randomAWB(prefix string) (string, error) {
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(awbDigits), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s%0*d", prefix, awbDigits, n), nil
}

// ResolveScope traduz o usuário autenticado e os filtros da query no escopo efetivo.
// Admins veem qualquer marca; marcas ficam presas à própria; centros de serviço e
// distribuidores só veem remessas endereçadas a eles.
func ResolveScope(p domain.Principal, q domain.ShipmentQuery) (domain.ShipmentScope, error) {
	userFilter := strings.TrimSpace(q.UserID)
	if userFilter != "" && q.Role != "" {
		if _, ok := domain.ParseNetworkRole(q.Role); !ok {
			return domain.ShipmentScope{}, apperror.NewValidationError(fmt.Sprintf("role inválido: %q", q.Role))
		}
	}

	switch p.Role {
	case domain.RoleAdmin:
		return domain.ShipmentScope{BrandID: q.BrandID, ServiceCenterID: userFilter}, nil

	case domain.RoleBrand:
		if p.BrandID == "" {
			return domain.ShipmentScope{}, apperror.NewForbiddenError("Usuário de marca sem marca associada.")
		}
		if q.BrandID != "" && q.BrandID != p.BrandID {
			return domain.ShipmentScope{}, apperror.NewForbiddenError("Não é permitido consultar remessas de outra marca.")
		}
		return domain.ShipmentScope{BrandID: p.BrandID, ServiceCenterID: userFilter}, nil

	case domain.RoleServiceCenter, domain.RoleDistributor:
		if userFilter != "" && userFilter != p.UserID {
			return domain.ShipmentScope{}, apperror.NewForbiddenError("Não é permitido consultar remessas de outro usuário.")
		}
		return domain.ShipmentScope{BrandID: q.BrandID, ServiceCenterID: p.UserID}, nil
	}
	return domain.ShipmentScope{}, apperror.NewForbiddenError("Papel de usuário sem acesso a remessas.")
}

func canView(p domain.Principal, s domain.Shipment) bool {
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleBrand:
		return p.BrandID != "" && p.BrandID == s.BrandID
	case domain.RoleServiceCenter, domain.RoleDistributor:
		return p.UserID == s.ServiceCenterID
	}
	return false
}

func canManage(p domain.Principal, s domain.Shipment) bool {
	return p.IsAdmin() || (p.Role == domain.RoleBrand && p.BrandID != "" && p.BrandID == s.BrandID)
}

// List retorna as remessas do bucket e os contadores de todos os buckets do escopo.
func (s *Service) List(ctx context.Context, p domain.Principal, q domain.ShipmentQuery) (domain.ShipmentList, error) {
	s.logger.Debug("Iniciando listagem de remessas no serviço.", map[string]interface{}{
		"user_id": p.UserID,
		"role":    p.Role,
		"bucket":  q.Bucket,
	})

	bucket, err := shipmentstatus.ParseBucket(q.Bucket)
	if err != nil {
		s.logger.Warn("Bucket inválido.", map[string]interface{}{"bucket": q.Bucket})
		return domain.ShipmentList{}, apperror.NewValidationError(err.Error())
	}

	all, err := s.scoped(ctx, p, q)
	if err != nil {
		return domain.ShipmentList{}, err
	}

	result := domain.ShipmentList{
		Shipments: shipmentstatus.Filter(all, bucket),
		Stats:     shipmentstatus.ComputeStats(all),
	}
	s.logger.Info("Remessas listadas com sucesso.", map[string]interface{}{
		"bucket":   bucket,
		"returned": len(result.Shipments),
		"total":    result.Stats.Total,
	})
	return result, nil
}

// Stats retorna apenas os contadores do escopo.
func (s *Service) Stats(ctx context.Context, p domain.Principal, q domain.ShipmentQuery) (domain.ShipmentStats, error) {
	all, err := s.scoped(ctx, p, q)
	if err != nil {
		return domain.ShipmentStats{}, err
	}
	return shipmentstatus.ComputeStats(all), nil
}

func (s *Service) scoped(ctx context.Context, p domain.Principal, q domain.ShipmentQuery) ([]domain.Shipment, error) {
	scope, err := ResolveScope(p, q)
	if err != nil {
		s.logger.Warn("Escopo de remessas recusado.", map[string]interface{}{"user_id": p.UserID, "error": err.Error()})
		return nil, err
	}

	shipments, err := s.repo.List(ctx, scope)
	if err != nil {
		s.logger.Error("Falha ao listar remessas no repositório.", err)
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, apperror.NewInternalError("Falha interna ao listar remessas.", err)
	}
	return shipments, nil
}

// Get busca uma remessa visível para o usuário.
func (s *Service) Get(ctx context.Context, p domain.Principal, id string) (domain.Shipment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Shipment{}, apperror.NewValidationError("O ID da remessa deve ser um UUID válido.")
	}

	shipment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Shipment{}, err
	}
	if !canView(p, shipment) {
		// Remessa de outro tenant é tratada como inexistente.
		return domain.Shipment{}, apperror.NewNotFoundError(fmt.Sprintf("Remessa com ID %s não existe.", id))
	}
	return shipment, nil
}

// Create valida e persiste uma nova remessa. Caixas sem AWB nascem AWB_PENDING.
func (s *Service) Create(ctx context.Context, p domain.Principal, req domain.NewShipmentRequest) (domain.Shipment, error) {
	s.logger.Debug("Iniciando criação de remessa no serviço.", map[string]interface{}{
		"user_id": p.UserID,
		"boxes":   len(req.Boxes),
	})

	switch p.Role {
	case domain.RoleAdmin:
		if strings.TrimSpace(req.BrandID) == "" {
			return domain.Shipment{}, apperror.NewValidationError("brand_id é obrigatório.")
		}
	case domain.RoleBrand:
		if req.BrandID != "" && req.BrandID != p.BrandID {
			return domain.Shipment{}, apperror.NewForbiddenError("Não é permitido criar remessas para outra marca.")
		}
		req.BrandID = p.BrandID
	default:
		return domain.Shipment{}, apperror.NewForbiddenError("Apenas marcas e administradores criam remessas.")
	}

	if err := validateNewShipment(req); err != nil {
		s.logger.Warn("Falha na validação da remessa.", map[string]interface{}{"error": err.Error()})
		return domain.Shipment{}, err
	}

	now := s.now()
	shipment := domain.Shipment{
		ID:              uuid.New().String(),
		BrandID:         req.BrandID,
		ServiceCenterID: strings.TrimSpace(req.ServiceCenterID),
		Status:          shipmentstatus.StatusCreated,
		Courier:         strings.TrimSpace(req.Courier),
		CreatedAt:       now,
		UpdatedAt:       now,
		Boxes:           make([]domain.Box, 0, len(req.Boxes)),
	}
	for i, b := range req.Boxes {
		box := domain.Box{
			ID:         uuid.New().String(),
			ShipmentID: shipment.ID,
			BoxNumber:  i + 1,
			Status:     shipmentstatus.StatusAWBPending,
			Weight:     b.Weight,
			Parts:      b.Parts,
		}
		if b.AWBNumber != nil && strings.TrimSpace(*b.AWBNumber) != "" {
			awb := strings.TrimSpace(*b.AWBNumber)
			box.AWBNumber = &awb
			box.Status = shipmentstatus.StatusPending
		}
		if box.Parts == nil {
			box.Parts = []domain.BoxPart{}
		}
		shipment.Boxes = append(shipment.Boxes, box)
	}

	created, err := s.repo.Create(ctx, shipment)
	if err != nil {
		s.logger.Error("Falha ao criar remessa no repositório.", err)
		if apperror.IsAppError(err) {
			return domain.Shipment{}, err
		}
		return domain.Shipment{}, apperror.NewInternalError("Falha interna ao criar remessa.", err)
	}

	s.publish(ctx, domain.ShipmentEventCreated, created)
	s.logger.Info("Remessa criada com sucesso.", map[string]interface{}{"shipment_id": created.ID, "boxes": len(created.Boxes)})
	return created, nil
}

func validateNewShipment(req domain.NewShipmentRequest) error {
	if strings.TrimSpace(req.ServiceCenterID) == "" {
		return apperror.NewValidationError("service_center_id é obrigatório.")
	}
	if len(req.Boxes) == 0 {
		return apperror.NewValidationError("A remessa deve ter ao menos uma caixa.")
	}
	awbs := make(map[string]int, len(req.Boxes))
	for i, b := range req.Boxes {
		if !b.Weight.IsPositive() {
			return apperror.NewValidationError(fmt.Sprintf("Caixa %d: o peso deve ser maior que zero.", i+1))
		}
		if b.AWBNumber != nil {
			if awb := strings.TrimSpace(*b.AWBNumber); awb != "" {
				if first, dup := awbs[awb]; dup {
					return apperror.NewValidationError(fmt.Sprintf("Caixa %d: AWB %s repetido (já usado na caixa %d).", i+1, awb, first))
				}
				awbs[awb] = i + 1
			}
		}
		seen := make(map[string]struct{}, len(b.Parts))
		for _, part := range b.Parts {
			if strings.TrimSpace(part.PartID) == "" {
				return apperror.NewValidationError(fmt.Sprintf("Caixa %d: part_id é obrigatório.", i+1))
			}
			if part.Quantity <= 0 {
				return apperror.NewValidationError(fmt.Sprintf("Caixa %d: a quantidade da peça %s deve ser maior que zero.", i+1, part.PartID))
			}
			if _, dup := seen[part.PartID]; dup {
				return apperror.NewValidationError(fmt.Sprintf("Caixa %d: a peça %s aparece mais de uma vez.", i+1, part.PartID))
			}
			seen[part.PartID] = struct{}{}
		}
	}
	return nil
}

// Update altera status/courier da remessa e status de caixas.
// Uma caixa sem AWB não pode ir para DISPATCHED, IN_TRANSIT, OUT_FOR_DELIVERY ou DELIVERED.
func (s *Service) Update(ctx context.Context, p domain.Principal, id string, upd domain.ShipmentStatusUpdate) (domain.Shipment, error) {
	s.logger.Debug("Iniciando atualização de remessa no serviço.", map[string]interface{}{"shipment_id": id, "status": upd.Status})

	if upd.Status == "" && upd.Courier == "" && len(upd.Boxes) == 0 {
		return domain.Shipment{}, apperror.NewValidationError("Nada a atualizar: informe status, courier ou caixas.")
	}
	if upd.Status != "" {
		if !shipmentstatus.Known(upd.Status) {
			return domain.Shipment{}, apperror.NewValidationError(fmt.Sprintf("Status desconhecido: %q", upd.Status))
		}
		upd.Status = shipmentstatus.Normalize(upd.Status)
	}

	// Quem enxerga a remessa pode atualizar status (o centro de serviço confirma o recebimento).
	current, err := s.Get(ctx, p, id)
	if err != nil {
		return domain.Shipment{}, err
	}

	boxes := make(map[string]domain.Box, len(current.Boxes))
	for _, b := range current.Boxes {
		boxes[b.ID] = b
	}
	for i, bu := range upd.Boxes {
		box, ok := boxes[bu.BoxID]
		if !ok {
			return domain.Shipment{}, apperror.NewNotFoundError(fmt.Sprintf("Caixa %s não pertence à remessa %s.", bu.BoxID, id))
		}
		if !shipmentstatus.Known(bu.Status) {
			return domain.Shipment{}, apperror.NewValidationError(fmt.Sprintf("Status desconhecido para a caixa %d: %q", box.BoxNumber, bu.Status))
		}
		if shipmentstatus.RequiresAWB(bu.Status) && !box.HasAWB() {
			s.logger.Warn("Caixa sem AWB não pode avançar.", map[string]interface{}{
				"shipment_id": id,
				"box_id":      box.ID,
				"status":      bu.Status,
			})
			return domain.Shipment{}, apperror.NewConflictError(fmt.Sprintf("A caixa %d não possui AWB e não pode ir para %s.", box.BoxNumber, shipmentstatus.Normalize(bu.Status)))
		}
		upd.Boxes[i].Status = shipmentstatus.Normalize(bu.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, upd); err != nil {
		s.logger.Error("Falha ao atualizar remessa no repositório.", err)
		if apperror.IsAppError(err) {
			return domain.Shipment{}, err
		}
		return domain.Shipment{}, apperror.NewInternalError("Falha interna ao atualizar remessa.", err)
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Shipment{}, err
	}
	s.publish(ctx, domain.ShipmentEventUpdated, updated)
	s.logger.Info("Remessa atualizada com sucesso.", map[string]interface{}{"shipment_id": id, "status": updated.Status})
	return updated, nil
}

// Delete remove uma remessa da marca.
func (s *Service) Delete(ctx context.Context, p domain.Principal, id string) error {
	current, err := s.Get(ctx, p, id)
	if err != nil {
		return err
	}
	if !canManage(p, current) {
		return apperror.NewForbiddenError("Sem permissão para remover esta remessa.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover remessa no repositório.", err)
		return err
	}
	s.publish(ctx, domain.ShipmentEventDeleted, current)
	s.logger.Info("Remessa removida com sucesso.", map[string]interface{}{"shipment_id": id})
	return nil
}

// RegenerateAWB atribui AWBs novos a todas as caixas da remessa. Caixas ainda
// pendentes (AWB_PENDING/PENDING) passam a PENDING com o novo AWB.
func (s *Service) RegenerateAWB(ctx context.Context, p domain.Principal, id string) (domain.Shipment, error) {
	current, err := s.Get(ctx, p, id)
	if err != nil {
		return domain.Shipment{}, err
	}
	if !canManage(p, current) {
		return domain.Shipment{}, apperror.NewForbiddenError("Sem permissão para regerar AWB desta remessa.")
	}
	if len(current.Boxes) == 0 {
		return domain.Shipment{}, apperror.NewValidationError("A remessa não possui caixas.")
	}

	boxes := make([]domain.Box, len(current.Boxes))
	for i, b := range current.Boxes {
		awb, err := s.newAWB(s.awbPrefix)
		if err != nil {
			s.logger.Error("Falha ao gerar AWB.", err)
			return domain.Shipment{}, apperror.NewInternalError("Falha ao gerar AWB.", err)
		}
		b.AWBNumber = &awb
		switch shipmentstatus.Normalize(b.Status) {
		case shipmentstatus.StatusAWBPending, shipmentstatus.StatusPending, "":
			b.Status = shipmentstatus.StatusPending
		}
		boxes[i] = b
	}

	if err := s.repo.SetBoxAWBs(ctx, id, boxes); err != nil {
		s.logger.Error("Falha ao gravar AWBs no repositório.", err)
		return domain.Shipment{}, err
	}

	current.Boxes = boxes
	current.UpdatedAt = s.now()
	s.publish(ctx, domain.ShipmentEventAWBRegenerated, current)
	s.logger.Info("AWBs regerados com sucesso.", map[string]interface{}{"shipment_id": id, "boxes": len(boxes)})
	return current, nil
}

// Export gera o arquivo de remessas do bucket no formato csv ou xlsx.
func (s *Service) Export(ctx context.Context, p domain.Principal, q domain.ShipmentQuery, format string) (domain.ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		return domain.ExportFile{}, apperror.NewValidationError(fmt.Sprintf("Formato de exportação inválido: %q (use csv ou xlsx).", format))
	}

	list, err := s.List(ctx, p, q)
	if err != nil {
		return domain.ExportFile{}, err
	}

	var buf bytes.Buffer
	file := domain.ExportFile{Filename: fmt.Sprintf("shipments-%s.%s", s.now().Format("20060102"), format)}
	if format == "csv" {
		err = csvio.WriteShipments(&buf, list.Shipments)
		file.ContentType = "text/csv"
	} else {
		err = report.WriteShipmentsXLSX(&buf, list.Shipments)
		file.ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	if err != nil {
		s.logger.Error("Falha ao gerar exportação de remessas.", err)
		return domain.ExportFile{}, apperror.NewInternalError("Falha ao gerar exportação.", err)
	}
	file.Data = buf.Bytes()

	s.logger.Info("Exportação de remessas gerada.", map[string]interface{}{"format": format, "rows": len(list.Shipments)})
	return file, nil
}

// publish envia o evento ao Kafka. Falha de publicação não falha a requisição.
func (s *Service) publish(ctx context.Context, eventType string, shipment domain.Shipment) {
	event := domain.ShipmentEvent{
		Type:       eventType,
		ShipmentID: shipment.ID,
		BrandID:    shipment.BrandID,
		Status:     shipment.Status,
		OccurredAt: s.now(),
	}
	if err := s.publisher.Publish(ctx, shipment.ID, event); err != nil {
		s.logger.Error(fmt.Sprintf("Falha ao publicar evento %s da remessa %s.", eventType, shipment.ID), err)
	}
}
