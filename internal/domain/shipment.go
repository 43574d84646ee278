package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Shipment representa uma remessa de uma marca para um centro de serviço.
// Status é texto livre vindo do courier; a classificação fica em internal/shipmentstatus.
type Shipment struct {
	ID              string    `json:"id"`
	BrandID         string    `json:"brand_id"`
	ServiceCenterID string    `json:"service_center_id"`
	Status          string    `json:"status"`
	Courier         string    `json:"courier"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Boxes           []Box     `json:"boxes"`
}

// Box é uma caixa física da remessa. AWBNumber ausente (nil ou em branco) significa "AWB pendente".
type Box struct {
	ID         string          `json:"id"`
	ShipmentID string          `json:"shipment_id"`
	BoxNumber  int             `json:"box_number"`
	AWBNumber  *string         `json:"awb_number"`
	Status     string          `json:"status"`
	Weight     decimal.Decimal `json:"weight"` // kg
	Parts      []BoxPart       `json:"parts"`
}

// HasAWB informa se a caixa já possui um AWB atribuído.
func (b Box) HasAWB() bool {
	return b.AWBNumber != nil && strings.TrimSpace(*b.AWBNumber) != ""
}

// BoxPart é uma linha de peça dentro de uma caixa.
type BoxPart struct {
	PartID   string `json:"part_id"`
	Quantity int    `json:"quantity"`
}

// ShipmentScope delimita quais remessas um usuário pode ver.
// Campos vazios não filtram.
type ShipmentScope struct {
	BrandID         string
	ServiceCenterID string
}

// ShipmentStatusUpdate é o payload do PUT /v1/shipments/{id}.
// Status vazio mantém o status atual da remessa.
type ShipmentStatusUpdate struct {
	Status  string            `json:"status"`
	Courier string            `json:"courier"`
	Boxes   []BoxStatusUpdate `json:"boxes"`
}

// BoxStatusUpdate altera o status de uma caixa específica.
type BoxStatusUpdate struct {
	BoxID  string `json:"box_id"`
	Status string `json:"status"`
}

// ShipmentEvent é publicado no Kafka a cada mutação de remessa.
type ShipmentEvent struct {
	Type       string    `json:"type"` // created, updated, deleted, awb_regenerated
	ShipmentID string    `json:"shipment_id"`
	BrandID    string    `json:"brand_id"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Tipos de ShipmentEvent.
const (
	ShipmentEventCreated        = "shipment.created"
	ShipmentEventUpdated        = "shipment.updated"
	ShipmentEventDeleted        = "shipment.deleted"
	ShipmentEventAWBRegenerated = "shipment.awb_regenerated"
)

// ShipmentQuery são os parâmetros de listagem (GET /v1/shipments).
// O escopo efetivo é resolvido a partir do Principal; estes valores só refinam.
type ShipmentQuery struct {
	BrandID string
	UserID  string
	Role    string
	Bucket  string
}

// ShipmentList é a resposta da listagem: remessas do bucket e contadores do escopo inteiro.
type ShipmentList struct {
	Shipments []Shipment    `json:"shipments"`
	Stats     ShipmentStats `json:"stats"`
}

// NewShipmentRequest é o payload do POST /v1/shipments.
type NewShipmentRequest struct {
	BrandID         string          `json:"brand_id"`
	ServiceCenterID string          `json:"service_center_id"`
	Courier         string          `json:"courier"`
	Boxes           []NewBoxRequest `json:"boxes"`
}

// NewBoxRequest descreve uma caixa na criação da remessa. AWB é opcional.
type NewBoxRequest struct {
	AWBNumber *string         `json:"awb_number"`
	Weight    decimal.Decimal `json:"weight"`
	Parts     []BoxPart       `json:"parts"`
}

// ExportFile é um arquivo gerado para download.
type ExportFile struct {
	ContentType string
	Filename    string
	Data        []byte
}
