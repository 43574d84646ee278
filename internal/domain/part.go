package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part representa uma peça do catálogo de uma marca (a Entidade).
type Part struct {
	ID             string          `json:"id"`
	BrandID        string          `json:"brand_id"`
	Code           string          `json:"code"` // Código único da peça dentro da marca
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	MSL            int             `json:"msl"` // Minimum Stock Level
	ApprovalStatus ApprovalStatus  `json:"approval_status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// PartFilter define os parâmetros de busca e paginação do catálogo.
type PartFilter struct {
	BrandID        string
	Name           string
	Code           string
	ApprovalStatus []ApprovalStatus
	Page           int
	Limit          int
}

// Normalize aplica os limites de paginação padrão.
func (f PartFilter) Normalize() PartFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 200 {
		f.Limit = 50
	}
	return f
}

// Offset retorna o deslocamento SQL correspondente à página.
func (f PartFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// PartInput é o payload de criação/edição de peça.
type PartInput struct {
	BrandID     string          `json:"brand_id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	MSL         int             `json:"msl"`
}
