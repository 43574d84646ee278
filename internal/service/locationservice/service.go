package locationservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/logger"
	"goship/internal/service/tenant"
)

// LocationRepository define o contrato que o Serviço de Locais espera da camada de Persistência.
type LocationRepository interface {
	CreateLocation(ctx context.Context, location domain.Location) (domain.Location, error)
	GetLocationByID(ctx context.Context, brandID, id string) (domain.Location, error)
	ListLocations(ctx context.Context, brandID string) ([]domain.Location, error)
	UpdateLocation(ctx context.Context, location domain.Location) (domain.Location, error)
	DeleteLocation(ctx context.Context, brandID, id string) error
}

// Service implementa o CRUD de locais de estoque da marca.
type Service struct {
	repo   LocationRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Locais.
func NewService(repo LocationRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateLocation cria um novo local após validações de negócio.
func (s *Service) CreateLocation(ctx context.Context, p domain.Principal, location domain.Location) (domain.Location, error) {
	s.logger.Debug("Iniciando criação de local no serviço.", map[string]interface{}{"name": location.Name})

	brandID, err := tenant.BrandScope(p, location.BrandID)
	if err != nil {
		return domain.Location{}, err
	}
	location.BrandID = brandID
	location.ID = ""

	if err := s.validate(&location); err != nil {
		s.logger.Warn("Falha na validação do local.", map[string]interface{}{"name": location.Name, "error": err.Error()})
		return domain.Location{}, err
	}

	created, err := s.repo.CreateLocation(ctx, location)
	if err != nil {
		s.logger.Error("Falha ao criar local no repositório.", err)
		return domain.Location{}, apperror.NewInternalError("Falha interna ao criar local.", err)
	}

	s.logger.Info("Local criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// GetLocationByID busca um local pelo ID após validações de formato.
func (s *Service) GetLocationByID(ctx context.Context, p domain.Principal, brandID, id string) (domain.Location, error) {
	if _, err := uuid.Parse(id); err != nil {
		s.logger.Warn("ID de local inválido fornecido.", map[string]interface{}{"id": id, "error": err.Error()})
		return domain.Location{}, apperror.NewValidationError("O ID do local deve ser um UUID válido.")
	}
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return domain.Location{}, err
	}

	// Erros do repositório já são NotFoundError ou DBError
	return s.repo.GetLocationByID(ctx, brandID, id)
}

// ListLocations busca todos os locais da marca.
func (s *Service) ListLocations(ctx context.Context, p domain.Principal, brandID string) ([]domain.Location, error) {
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return nil, err
	}

	locations, err := s.repo.ListLocations(ctx, brandID)
	if err != nil {
		s.logger.Error("Falha ao buscar locais no repositório.", err)
		return nil, apperror.NewInternalError("Falha interna ao buscar locais.", err)
	}
	return locations, nil
}

// UpdateLocation atualiza um local existente.
func (s *Service) UpdateLocation(ctx context.Context, p domain.Principal, location domain.Location) (domain.Location, error) {
	if _, err := uuid.Parse(location.ID); err != nil {
		return domain.Location{}, apperror.NewValidationError("O ID do local deve ser um UUID válido.")
	}
	brandID, err := tenant.BrandScope(p, location.BrandID)
	if err != nil {
		return domain.Location{}, err
	}
	location.BrandID = brandID

	if err := s.validate(&location); err != nil {
		s.logger.Warn("Falha na validação do local para atualização.", map[string]interface{}{"id": location.ID, "error": err.Error()})
		return domain.Location{}, err
	}

	updated, err := s.repo.UpdateLocation(ctx, location)
	if err != nil {
		s.logger.Error("Falha ao atualizar local no repositório.", err)
		return domain.Location{}, err
	}

	s.logger.Info("Local atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteLocation remove um local.
func (s *Service) DeleteLocation(ctx context.Context, p domain.Principal, brandID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do local deve ser um UUID válido.")
	}
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteLocation(ctx, brandID, id); err != nil {
		s.logger.Error("Falha ao deletar local no repositório.", err)
		return err
	}

	s.logger.Info("Local deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// validate normaliza o tipo (padrão WAREHOUSE) e valida nome e tipo.
func (s *Service) validate(location *domain.Location) error {
	name := strings.TrimSpace(location.Name)
	if name == "" {
		return apperror.NewValidationError("O nome do local não pode ser vazio.")
	}
	if len(name) < 3 || len(name) > 100 {
		return apperror.NewValidationError("O nome do local deve ter entre 3 e 100 caracteres.")
	}
	location.Name = name

	locType := domain.LocationType(strings.ToUpper(strings.TrimSpace(string(location.Type))))
	switch locType {
	case "":
		locType = domain.LocationWarehouse
	case domain.LocationWarehouse, domain.LocationStore, domain.LocationTransit:
	default:
		return apperror.NewValidationError("O tipo do local deve ser WAREHOUSE, STORE ou TRANSIT.")
	}
	location.Type = locType
	return nil
}
