package domain

import (
	"time"
)

// LocationType classifica o local de estoque.
type LocationType string

const (
	LocationWarehouse LocationType = "WAREHOUSE"
	LocationStore     LocationType = "STORE"
	LocationTransit   LocationType = "TRANSIT"
)

// Location representa um armazém físico ou lógico de uma marca.
type Location struct {
	ID        string       `json:"id"`
	BrandID   string       `json:"brand_id"`
	Name      string       `json:"name"`
	Address   string       `json:"address"`
	Type      LocationType `json:"type"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
