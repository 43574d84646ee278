package partservice

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

// PartRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência (DB, Cache).
type PartRepository interface {
	Save(ctx context.Context, part domain.Part) (domain.Part, error)
	FindByID(ctx context.Context, id string) (domain.Part, error)
	FindAll(ctx context.Context, filter domain.PartFilter) ([]domain.Part, error)
	Update(ctx context.Context, part domain.Part) (domain.Part, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa o catálogo de peças.
type Service struct {
	repo   PartRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Peças.
func NewService(repo PartRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreatePart cadastra uma peça. Toda peça nova começa PENDING e entra na fila de aprovação.
func (s *Service) CreatePart(ctx context.Context, p domain.Principal, input domain.PartInput) (domain.Part, error) {
	s.logger.Debug("Iniciando criação de peça no serviço.", map[string]interface{}{"code": input.Code, "user_id": p.UserID})

	brandID, err := owningBrand(p, input.BrandID)
	if err != nil {
		return domain.Part{}, err
	}
	if err := validateInput(input); err != nil {
		s.logger.Warn("Falha na validação da peça.", map[string]interface{}{"code": input.Code, "error": err.Error()})
		return domain.Part{}, err
	}

	now := time.Now().UTC()
	part := domain.Part{
		ID:             uuid.New().String(),
		BrandID:        brandID,
		Code:           strings.TrimSpace(input.Code),
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Price:          input.Price,
		MSL:            input.MSL,
		ApprovalStatus: domain.ApprovalPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	created, err := s.repo.Save(ctx, part)
	if err != nil {
		s.logger.Error("Falha ao salvar peça no repositório.", err)
		if apperror.IsAppError(err) {
			return domain.Part{}, err
		}
		return domain.Part{}, apperror.NewInternalError("Falha interna ao criar peça.", err)
	}

	s.logger.Info("Peça criada com sucesso.", map[string]interface{}{"part_id": created.ID, "code": created.Code})
	return created, nil
}

// GetPart busca uma peça visível ao usuário.
func (s *Service) GetPart(ctx context.Context, p domain.Principal, id string) (domain.Part, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Part{}, apperror.NewValidationError("O ID da peça deve ser um UUID válido.")
	}

	part, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Part{}, err
	}
	if !canView(p, part) {
		return domain.Part{}, apperror.NewNotFoundError(fmt.Sprintf("Peça com ID %s não foi encontrada.", id))
	}
	return part, nil
}

// ListParts lista peças respeitando o escopo: marcas veem o próprio catálogo e a
// rede (centros de serviço, distribuidores) vê apenas peças aprovadas.
func (s *Service) ListParts(ctx context.Context, p domain.Principal, filter domain.PartFilter) ([]domain.Part, error) {
	switch p.Role {
	case domain.RoleAdmin:
	case domain.RoleBrand:
		if filter.BrandID != "" && filter.BrandID != p.BrandID {
			return nil, apperror.NewForbiddenError("Não é permitido consultar o catálogo de outra marca.")
		}
		filter.BrandID = p.BrandID
	default:
		filter.ApprovalStatus = []domain.ApprovalStatus{domain.ApprovalApproved}
	}
	filter = filter.Normalize()

	parts, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.logger.Error("Falha ao buscar peças no repositório.", err)
		return nil, apperror.NewInternalError("Falha interna ao buscar peças.", err)
	}

	s.logger.Debug("Peças listadas.", map[string]interface{}{"count": len(parts), "page": filter.Page})
	return parts, nil
}

// UpdatePart altera os dados cadastrais; o status de aprovação só muda pelo fluxo de aprovação.
func (s *Service) UpdatePart(ctx context.Context, p domain.Principal, id string, input domain.PartInput) (domain.Part, error) {
	if err := validateInput(input); err != nil {
		return domain.Part{}, err
	}

	current, err := s.GetPart(ctx, p, id)
	if err != nil {
		return domain.Part{}, err
	}
	if !canManage(p, current) {
		return domain.Part{}, apperror.NewForbiddenError("Sem permissão para alterar esta peça.")
	}

	current.Code = strings.TrimSpace(input.Code)
	current.Name = strings.TrimSpace(input.Name)
	current.Description = input.Description
	current.Price = input.Price
	current.MSL = input.MSL
	current.UpdatedAt = time.Now().UTC()

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		s.logger.Error("Falha ao atualizar peça no repositório.", err)
		return domain.Part{}, err
	}
	s.logger.Info("Peça atualizada com sucesso.", map[string]interface{}{"part_id": id})
	return updated, nil
}

// DeletePart remove uma peça do catálogo.
func (s *Service) DeletePart(ctx context.Context, p domain.Principal, id string) error {
	current, err := s.GetPart(ctx, p, id)
	if err != nil {
		return err
	}
	if !canManage(p, current) {
		return apperror.NewForbiddenError("Sem permissão para remover esta peça.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao remover peça no repositório.", err)
		return err
	}
	s.logger.Info("Peça removida com sucesso.", map[string]interface{}{"part_id": id})
	return nil
}

func owningBrand(p domain.Principal, requested string) (string, error) {
	switch p.Role {
	case domain.RoleAdmin:
		if strings.TrimSpace(requested) == "" {
			return "", apperror.NewValidationError("brand_id é obrigatório.")
		}
		return requested, nil
	case domain.RoleBrand:
		if requested != "" && requested != p.BrandID {
			return "", apperror.NewForbiddenError("Não é permitido cadastrar peças para outra marca.")
		}
		return p.BrandID, nil
	}
	return "", apperror.NewForbiddenError("Apenas marcas e administradores cadastram peças.")
}

func canView(p domain.Principal, part domain.Part) bool {
	switch p.Role {
	case domain.RoleAdmin:
		return true
	case domain.RoleBrand:
		return p.BrandID == part.BrandID
	}
	return part.ApprovalStatus == domain.ApprovalApproved
}

func canManage(p domain.Principal, part domain.Part) bool {
	return p.IsAdmin() || (p.Role == domain.RoleBrand && p.BrandID == part.BrandID)
}

func validateInput(input domain.PartInput) error {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Code) == "" {
		return apperror.NewValidationError("Nome e código são obrigatórios para a peça.")
	}
	if input.Price.IsNegative() {
		return apperror.NewValidationError("O preço da peça não pode ser negativo.")
	}
	if input.MSL < 0 {
		return apperror.NewValidationError("O MSL da peça não pode ser negativo.")
	}
	return nil
}
