// Package tenant resolve a marca sobre a qual uma requisição opera.
package tenant

import (
	"strings"

	"goship/internal/domain"
	apperror "goship/internal/errors"
)

// BrandScope retorna a marca efetiva: usuários de marca ficam presos à própria,
// admins precisam informar qual marca querem operar. Demais papéis não têm acesso.
func BrandScope(p domain.Principal, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	switch p.Role {
	case domain.RoleAdmin:
		if requested == "" {
			return "", apperror.NewValidationError("brand_id é obrigatório para administradores.")
		}
		return requested, nil
	case domain.RoleBrand:
		if p.BrandID == "" {
			return "", apperror.NewForbiddenError("Usuário de marca sem marca associada.")
		}
		if requested != "" && requested != p.BrandID {
			return "", apperror.NewForbiddenError("Não é permitido operar sobre outra marca.")
		}
		return p.BrandID, nil
	}
	return "", apperror.NewForbiddenError("Recurso restrito a marcas e administradores.")
}
