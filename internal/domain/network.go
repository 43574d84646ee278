package domain

import (
	"strings"
	"time"
)

// NetworkRole é o papel de um membro da rede autorizada de uma marca.
type NetworkRole string

const (
	NetworkServiceCenter NetworkRole = "service_center"
	NetworkDistributor   NetworkRole = "distributor"
)

// ParseNetworkRole converte role_type (case-insensitive; aceita hífen ou espaço).
func ParseNetworkRole(s string) (NetworkRole, bool) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("-", "_", " ", "_").Replace(normalized)
	switch NetworkRole(normalized) {
	case NetworkServiceCenter, NetworkDistributor:
		return NetworkRole(normalized), true
	}
	return "", false
}

// NetworkMember é um centro de serviço ou distribuidor autorizado por uma marca.
type NetworkMember struct {
	ID           string      `json:"id"`
	BrandID      string      `json:"brand_id"`
	UserID       string      `json:"user_id"`
	RoleType     NetworkRole `json:"role_type"`
	AuthorizedAt time.Time   `json:"authorized_at"`
}

// NetworkRow é uma linha do upload em massa (CSV user_id,role_type ou JSON).
type NetworkRow struct {
	UserID   string `json:"user_id"`
	RoleType string `json:"role_type"`
}

// BulkRowError descreve a falha de uma linha específica do upload.
// Row é 1-based contando o cabeçalho (igual à numeração da planilha).
type BulkRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// BulkResult é o resumo do upload em massa.
type BulkResult struct {
	Created int            `json:"created"`
	Skipped int            `json:"skipped"`
	Errors  []BulkRowError `json:"errors"`
}
