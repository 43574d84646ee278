package supplierservice

import (
	"bytes"
	"context"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/csvio"
	"goship/internal/pkg/logger"
	"goship/internal/service/tenant"
)

// SupplierRepository define o contrato de persistência de fornecedores.
type SupplierRepository interface {
	Create(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	FindByID(ctx context.Context, brandID, id string) (domain.Supplier, error)
	List(ctx context.Context, brandID string) ([]domain.Supplier, error)
	Update(ctx context.Context, s domain.Supplier) (domain.Supplier, error)
	Delete(ctx context.Context, brandID, id string) error
}

// Service implementa o cadastro de fornecedores da marca.
type Service struct {
	repo   SupplierRepository
	logger logger.Logger
	now    func() time.Time
}

// NewService cria o serviço de fornecedores injetando o repositório.
func NewService(repo SupplierRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Create valida e cria um fornecedor na marca do usuário.
func (s *Service) Create(ctx context.Context, p domain.Principal, supplier domain.Supplier) (domain.Supplier, error) {
	brandID, err := tenant.BrandScope(p, supplier.BrandID)
	if err != nil {
		return domain.Supplier{}, err
	}
	supplier.BrandID = brandID
	supplier.ID = ""

	if err := validate(&supplier); err != nil {
		s.logger.Warn("Falha na validação do fornecedor.", map[string]interface{}{"name": supplier.Name, "error": err.Error()})
		return domain.Supplier{}, err
	}

	created, err := s.repo.Create(ctx, supplier)
	if err != nil {
		s.logger.Error("Falha ao criar fornecedor no repositório.", err)
		return domain.Supplier{}, apperror.NewInternalError("Falha interna ao criar fornecedor.", err)
	}
	s.logger.Info("Fornecedor criado com sucesso.", map[string]interface{}{"id": created.ID, "brand_id": brandID})
	return created, nil
}

func (s *Service) Get(ctx context.Context, p domain.Principal, brandID, id string) (domain.Supplier, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return domain.Supplier{}, err
	}
	return s.repo.FindByID(ctx, brandID, id)
}

func (s *Service) List(ctx context.Context, p domain.Principal, brandID string) ([]domain.Supplier, error) {
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return nil, err
	}
	suppliers, err := s.repo.List(ctx, brandID)
	if err != nil {
		s.logger.Error("Falha ao listar fornecedores.", err)
		return nil, apperror.NewInternalError("Falha interna ao listar fornecedores.", err)
	}
	return suppliers, nil
}

func (s *Service) Update(ctx context.Context, p domain.Principal, supplier domain.Supplier) (domain.Supplier, error) {
	if _, err := uuid.Parse(supplier.ID); err != nil {
		return domain.Supplier{}, apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	brandID, err := tenant.BrandScope(p, supplier.BrandID)
	if err != nil {
		return domain.Supplier{}, err
	}
	supplier.BrandID = brandID

	if err := validate(&supplier); err != nil {
		return domain.Supplier{}, err
	}

	updated, err := s.repo.Update(ctx, supplier)
	if err != nil {
		s.logger.Error("Falha ao atualizar fornecedor.", err)
		return domain.Supplier{}, err
	}
	s.logger.Info("Fornecedor atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, p domain.Principal, brandID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do fornecedor deve ser um UUID válido.")
	}
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, brandID, id); err != nil {
		s.logger.Error("Falha ao deletar fornecedor.", err)
		return err
	}
	s.logger.Info("Fornecedor deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// Export gera o CSV de fornecedores da marca.
func (s *Service) Export(ctx context.Context, p domain.Principal, brandID string) (domain.ExportFile, error) {
	suppliers, err := s.List(ctx, p, brandID)
	if err != nil {
		return domain.ExportFile{}, err
	}

	var buf bytes.Buffer
	if err := csvio.WriteSuppliers(&buf, suppliers); err != nil {
		s.logger.Error("Falha ao gerar CSV de fornecedores.", err)
		return domain.ExportFile{}, apperror.NewInternalError("Falha ao gerar CSV de fornecedores.", err)
	}

	s.logger.Info("Fornecedores exportados.", map[string]interface{}{"count": len(suppliers)})
	return domain.ExportFile{
		ContentType: "text/csv",
		Filename:    fmt.Sprintf("suppliers-%s.csv", s.now().UTC().Format("20060102")),
		Data:        buf.Bytes(),
	}, nil
}

func validate(supplier *domain.Supplier) error {
	supplier.Name = strings.TrimSpace(supplier.Name)
	if supplier.Name == "" {
		return apperror.NewValidationError("O nome do fornecedor é obrigatório.")
	}
	supplier.ContactEmail = strings.TrimSpace(supplier.ContactEmail)
	if supplier.ContactEmail != "" {
		if _, err := mail.ParseAddress(supplier.ContactEmail); err != nil {
			return apperror.NewValidationError("Email de contato inválido.")
		}
	}
	supplier.Phone = strings.TrimSpace(supplier.Phone)
	// Normaliza espaços e descarta itens vazios.
	supplier.Certifications = domain.SplitCertifications(supplier.Certifications.Join())
	return nil
}
