package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CourierOverride substitui o custo calculado de uma caixa por um valor definido por um admin
// (e.g., fatura real do courier divergente da tabela).
type CourierOverride struct {
	ID         string          `json:"id"`
	ShipmentID string          `json:"shipment_id"`
	BoxID      string          `json:"box_id"`
	Courier    string          `json:"courier"`
	Amount     decimal.Decimal `json:"amount"`
	Reason     string          `json:"reason"`
	CreatedBy  string          `json:"created_by"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CostLine é o custo de uma caixa na composição de custos.
type CostLine struct {
	BoxID     string           `json:"box_id"`
	BoxNumber int              `json:"box_number"`
	Weight    decimal.Decimal  `json:"weight"`
	BaseCost  decimal.Decimal  `json:"base_cost"`
	Override  *decimal.Decimal `json:"override,omitempty"`
	FinalCost decimal.Decimal  `json:"final_cost"`
}

// CostBreakdown é a composição de custos de uma remessa.
type CostBreakdown struct {
	ShipmentID string          `json:"shipment_id"`
	Courier    string          `json:"courier"`
	Lines      []CostLine      `json:"lines"`
	Total      decimal.Decimal `json:"total"`
}
