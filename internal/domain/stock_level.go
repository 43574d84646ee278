package domain

import "time"

// StockLevel representa o nível de estoque de uma peça em um local.
// Inclui uma coluna 'version' para controle de concorrência otimista.
type StockLevel struct {
	ID         string    `json:"id"`
	PartID     string    `json:"part_id"`
	LocationID string    `json:"location_id"`
	Quantity   int       `json:"quantity"`
	Version    int       `json:"version"` // Para Controle de Concorrência Otimista (OCC)
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// StockAdjustmentRequest é o payload esperado para a requisição de ajuste de estoque.
type StockAdjustmentRequest struct {
	PartID     string `json:"part_id"`
	LocationID string `json:"location_id"`
	Delta      int    `json:"delta"` // Quantidade a ser adicionada/removida
}

// StockStatus é o status derivado de um nível de estoque frente ao MSL da peça.
type StockStatus string

const (
	StockInStock    StockStatus = "IN_STOCK"
	StockLow        StockStatus = "LOW_STOCK"
	StockOutOfStock StockStatus = "OUT_OF_STOCK"
)

// DeriveStockStatus calcula o status: zero é OUT_OF_STOCK, abaixo do MSL é LOW_STOCK.
func DeriveStockStatus(quantity, msl int) StockStatus {
	switch {
	case quantity <= 0:
		return StockOutOfStock
	case quantity < msl:
		return StockLow
	default:
		return StockInStock
	}
}

// StockView é a linha de listagem de estoque com dados da peça e status derivado.
type StockView struct {
	StockLevel
	PartCode string      `json:"part_code"`
	PartName string      `json:"part_name"`
	MSL      int         `json:"msl"`
	Status   StockStatus `json:"status"`
}

// StockFilter delimita a listagem de estoque.
type StockFilter struct {
	BrandID    string
	LocationID string
}

// PartStockTotal agrega o estoque de uma peça em todos os locais (base dos alertas).
type PartStockTotal struct {
	PartID   string
	PartCode string
	PartName string
	BrandID  string
	MSL      int
	OnHand   int
}

// AlertSeverity classifica a urgência de um alerta de reposição.
type AlertSeverity string

const (
	AlertCritical AlertSeverity = "CRITICAL"
	AlertWarning  AlertSeverity = "WARNING"
)

// RestockAlert recomenda reposição de uma peça abaixo do MSL.
type RestockAlert struct {
	PartID              string        `json:"part_id"`
	PartCode            string        `json:"part_code"`
	PartName            string        `json:"part_name"`
	BrandID             string        `json:"brand_id"`
	OnHand              int           `json:"on_hand"`
	MSL                 int           `json:"msl"`
	RecommendedQuantity int           `json:"recommended_quantity"`
	Severity            AlertSeverity `json:"severity"`
	GeneratedAt         time.Time     `json:"generated_at"`
}

// StockSummary conta os níveis de estoque por status derivado.
type StockSummary struct {
	InStock    int `json:"in_stock"`
	LowStock   int `json:"low_stock"`
	OutOfStock int `json:"out_of_stock"`
}
