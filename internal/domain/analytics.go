package domain

// ShipmentStats é o registro de contadores por bucket usado nos tiles do painel.
type ShipmentStats struct {
	Total           int `json:"total"`
	Pending         int `json:"pending"`
	PickupScheduled int `json:"pickup_scheduled"`
	Dispatched      int `json:"dispatched"`
	InTransit       int `json:"in_transit"`
	OutForDelivery  int `json:"out_for_delivery"`
	Delivered       int `json:"delivered"`
	Issues          int `json:"issues"`
}

// Dashboard é a resposta do GET /v1/brand/analytics.
type Dashboard struct {
	BrandID          string        `json:"brand_id"`
	ShipmentStats    ShipmentStats `json:"shipment_stats"`
	StockSummary     StockSummary  `json:"stock_summary"`
	RestockAlerts    int           `json:"restock_alerts"`
	PendingApprovals int           `json:"pending_approvals"`
}
