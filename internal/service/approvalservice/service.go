// Package approvalservice implementa a fila de aprovação de peças do admin.
package approvalservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
)

// PartRepository é o subconjunto do repositório de peças usado na aprovação.
type PartRepository interface {
	FindByID(ctx context.Context, id string) (domain.Part, error)
	FindAll(ctx context.Context, filter domain.PartFilter) ([]domain.Part, error)
	TransitionApproval(ctx context.Context, event domain.ApprovalEvent) error
	ListApprovalEvents(ctx context.Context, partID string) ([]domain.ApprovalEvent, error)
}

// defaultQueue são os status exibidos quando a fila é pedida sem filtro.
var defaultQueue = []domain.ApprovalStatus{domain.ApprovalPending, domain.ApprovalUnderReview}

// Service aplica as transições de aprovação.
type Service struct {
	repo   PartRepository
	logger logger.Logger
	now    func() time.Time
}

// NewService cria e retorna uma nova instância do Serviço de Aprovação.
func NewService(repo PartRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: func() time.Time { return time.Now().UTC() }}
}

// ParseStatuses converte "PENDING,UNDER_REVIEW" em status. Vazio retorna a fila padrão.
func ParseStatuses(raw string) ([]domain.ApprovalStatus, error) {
	if strings.TrimSpace(raw) == "" {
		return defaultQueue, nil
	}
	var statuses []domain.ApprovalStatus
	for _, item := range strings.Split(raw, ",") {
		st, ok := domain.ParseApprovalStatus(item)
		if !ok {
			return nil, apperror.NewValidationError(fmt.Sprintf("Status de aprovação inválido: %q", strings.TrimSpace(item)))
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}

// ListQueue lista as peças nos status informados (todas as marcas).
func (s *Service) ListQueue(ctx context.Context, rawStatus string, page, limit int) ([]domain.Part, error) {
	statuses, err := ParseStatuses(rawStatus)
	if err != nil {
		return nil, err
	}

	filter := domain.PartFilter{ApprovalStatus: statuses, Page: page, Limit: limit}.Normalize()
	parts, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao listar fila de aprovação.", err)
		return nil, apperror.NewInternalError("Falha interna ao listar fila de aprovação.", err)
	}
	return parts, nil
}

// Decide aplica a decisão do admin sobre a peça. REJECTED exige motivo; transições
// fora da tabela retornam ConflictError.
func (s *Service) Decide(ctx context.Context, actor domain.Principal, partID string, d domain.ApprovalDecision) (domain.Part, error) {
	s.logger.Debug("Iniciando decisão de aprovação.", map[string]interface{}{
		"part_id":  partID,
		"decision": d.Decision,
		"actor_id": actor.UserID,
	})

	if _, err := uuid.Parse(partID); err != nil {
		return domain.Part{}, apperror.NewValidationError("O ID da peça deve ser um UUID válido.")
	}
	to, ok := domain.ParseApprovalStatus(d.Decision)
	if !ok || to == domain.ApprovalPending {
		return domain.Part{}, apperror.NewValidationError("decision deve ser UNDER_REVIEW, APPROVED ou REJECTED.")
	}
	reason := strings.TrimSpace(d.Reason)
	if to == domain.ApprovalRejected && reason == "" {
		return domain.Part{}, apperror.NewValidationError("Informe o motivo da rejeição.")
	}

	part, err := s.repo.FindByID(ctx, partID)
	if err != nil {
		return domain.Part{}, err
	}

	from := part.ApprovalStatus
	if !from.CanTransitionTo(to) {
		s.logger.Warn("Transição de aprovação inválida.", map[string]interface{}{"part_id": partID, "from": from, "to": to})
		return domain.Part{}, apperror.NewConflictError(fmt.Sprintf("Transição de %s para %s não é permitida.", from, to))
	}

	event := domain.ApprovalEvent{
		ID:         uuid.New().String(),
		PartID:     partID,
		FromStatus: from,
		ToStatus:   to,
		Reason:     reason,
		ActorID:    actor.UserID,
		CreatedAt:  s.now(),
	}
	if err := s.repo.TransitionApproval(ctx, event); err != nil {
		s.logger.Error("Falha ao gravar transição de aprovação.", err)
		return domain.Part{}, err
	}

	part.ApprovalStatus = to
	part.UpdatedAt = event.CreatedAt
	s.logger.Info("Decisão de aprovação registrada.", map[string]interface{}{"part_id": partID, "from": from, "to": to})
	return part, nil
}

// History retorna o histórico de decisões da peça.
func (s *Service) History(ctx context.Context, partID string) ([]domain.ApprovalEvent, error) {
	if _, err := uuid.Parse(partID); err != nil {
		return nil, apperror.NewValidationError("O ID da peça deve ser um UUID válido.")
	}
	if _, err := s.repo.FindByID(ctx, partID); err != nil {
		return nil, err
	}
	return s.repo.ListApprovalEvents(ctx, partID)
}
