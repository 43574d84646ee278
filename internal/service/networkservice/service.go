// Package networkservice gerencia a rede autorizada (centros de serviço e distribuidores) de uma marca.
package networkservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"goship/internal/domain"
	apperror "goship/internal/errors"
	"goship/internal/pkg/csvio"
	"goship/internal/pkg/logger"
	"goship/internal/service/tenant"
)

// NetworkRepository é o contrato de persistência da rede autorizada.
type NetworkRepository interface {
	List(ctx context.Context, brandID string, role domain.NetworkRole) ([]domain.NetworkMember, error)
	Add(ctx context.Context, m domain.NetworkMember) (bool, error)
	Remove(ctx context.Context, brandID, userID string) error
}

// Service implementa listagem, remoção e upload em massa da rede.
type Service struct {
	repo   NetworkRepository
	logger logger.Logger
	now    func() time.Time
}

// NewService cria o serviço de rede injetando o repositório.
func NewService(repo NetworkRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// List retorna a rede da marca, opcionalmente filtrada por role_type.
func (s *Service) List(ctx context.Context, p domain.Principal, brandID, rawRole string) ([]domain.NetworkMember, error) {
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return nil, err
	}
	var role domain.NetworkRole
	if strings.TrimSpace(rawRole) != "" {
		parsed, ok := domain.ParseNetworkRole(rawRole)
		if !ok {
			return nil, apperror.NewValidationError("role_type deve ser service_center ou distributor.")
		}
		role = parsed
	}

	members, err := s.repo.List(ctx, brandID, role)
	if err != nil {
		s.logger.Error("Falha ao listar rede da marca.", err)
		return nil, apperror.NewInternalError("Falha interna ao listar rede.", err)
	}
	return members, nil
}

// Remove revoga um membro da rede.
func (s *Service) Remove(ctx context.Context, p domain.Principal, brandID, userID string) error {
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return err
	}
	parsed, err := uuid.Parse(userID)
	if err != nil {
		return apperror.NewValidationError("user_id deve ser um UUID válido.")
	}
	userID = parsed.String()
	if err := s.repo.Remove(ctx, brandID, userID); err != nil {
		return err
	}
	s.logger.Info("Membro removido da rede.", map[string]interface{}{"brand_id": brandID, "user_id": userID})
	return nil
}

// NumberJSONRows numera linhas recebidas em JSON (1-based, sem cabeçalho).
func NumberJSONRows(rows []domain.NetworkRow) []csvio.NumberedRow {
	numbered := make([]csvio.NumberedRow, len(rows))
	for i, row := range rows {
		numbered[i] = csvio.NumberedRow{Line: i + 1, Row: row}
	}
	return numbered
}

// BulkUpload valida e autoriza cada linha individualmente. Linhas inválidas viram
// erros no resultado; usuários já autorizados (ou repetidos no arquivo) contam como skipped.
func (s *Service) BulkUpload(ctx context.Context, p domain.Principal, brandID string, rows []csvio.NumberedRow) (domain.BulkResult, error) {
	brandID, err := tenant.BrandScope(p, brandID)
	if err != nil {
		return domain.BulkResult{}, err
	}
	if len(rows) == 0 {
		return domain.BulkResult{}, apperror.NewValidationError("O upload não contém linhas.")
	}

	s.logger.Debug("Iniciando upload em massa da rede.", map[string]interface{}{"brand_id": brandID, "rows": len(rows)})

	result := domain.BulkResult{Errors: []domain.BulkRowError{}}
	seen := make(map[string]struct{}, len(rows))
	now := s.now().UTC()

	for _, nr := range rows {
		userID := strings.TrimSpace(nr.Row.UserID)
		if userID == "" {
			result.Errors = append(result.Errors, domain.BulkRowError{Row: nr.Line, Message: "user_id é obrigatório"})
			continue
		}
		parsed, err := uuid.Parse(userID)
		if err != nil {
			result.Errors = append(result.Errors, domain.BulkRowError{Row: nr.Line, Message: fmt.Sprintf("user_id inválido: %q", userID)})
			continue
		}
		// Forma canônica: chaves, urn:uuid: e maiúsculas apontam para o mesmo usuário.
		userID = parsed.String()
		role, ok := domain.ParseNetworkRole(nr.Row.RoleType)
		if !ok {
			result.Errors = append(result.Errors, domain.BulkRowError{Row: nr.Line, Message: fmt.Sprintf("role_type inválido: %q", nr.Row.RoleType)})
			continue
		}
		if _, dup := seen[userID]; dup {
			result.Skipped++
			continue
		}
		seen[userID] = struct{}{}

		created, err := s.repo.Add(ctx, domain.NetworkMember{
			ID:           uuid.New().String(),
			BrandID:      brandID,
			UserID:       userID,
			RoleType:     role,
			AuthorizedAt: now,
		})
		if err != nil {
			s.logger.Error("Falha ao persistir linha do upload da rede.", err)
			return domain.BulkResult{}, apperror.NewInternalError(fmt.Sprintf("Falha ao gravar linha %d.", nr.Line), err)
		}
		if created {
			result.Created++
		} else {
			result.Skipped++
		}
	}

	s.logger.Info("Upload em massa da rede concluído.", map[string]interface{}{
		"brand_id": brandID,
		"created":  result.Created,
		"skipped":  result.Skipped,
		"errors":   len(result.Errors),
	})
	return result, nil
}
