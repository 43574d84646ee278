// Package shipmentstatus classifica status de remessas/caixas e os agrupa nos
// buckets exibidos no painel de remessas.
package shipmentstatus

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Display é a apresentação de um status: cor, ícone e rótulo legível.
type Display struct {
	Status string `json:"status"`
	Color  string `json:"color"`
	Icon   string `json:"icon"`
	Label  string `json:"label"`
}

// Status canônicos conhecidos (sempre em maiúsculas, separados por underscore).
const (
	StatusPending         = "PENDING"
	StatusCreated         = "CREATED"
	StatusAWBPending      = "AWB_PENDING"
	StatusPickupScheduled = "PICKUP_SCHEDULED"
	StatusDispatched      = "DISPATCHED"
	StatusPickedUp        = "PICKED_UP"
	StatusInTransit       = "IN_TRANSIT"
	StatusOutForDelivery  = "OUT_FOR_DELIVERY"
	StatusDelivered       = "DELIVERED"
	StatusCancelled       = "CANCELLED"
	StatusFailed          = "FAILED"
	StatusReturned        = "RETURNED"
	StatusRTO             = "RTO"
	StatusLost            = "LOST"
	StatusDamaged         = "DAMAGED"
	StatusException       = "EXCEPTION"
	StatusUndelivered     = "UNDELIVERED"
)

const (
	unknownColor = "gray"
	unknownIcon  = "x"
	unknownLabel = "Unknown"
)

var displayTable = map[string]Display{
	StatusPending:         {Color: "yellow", Icon: "clock", Label: "Pending"},
	StatusCreated:         {Color: "yellow", Icon: "clock", Label: "Created"},
	StatusAWBPending:      {Color: "yellow", Icon: "clock", Label: "AWB Pending"},
	StatusPickupScheduled: {Color: "blue", Icon: "calendar", Label: "Pickup Scheduled"},
	StatusDispatched:      {Color: "indigo", Icon: "package", Label: "Dispatched"},
	StatusPickedUp:        {Color: "indigo", Icon: "package", Label: "Picked Up"},
	StatusInTransit:       {Color: "purple", Icon: "truck", Label: "In Transit"},
	StatusOutForDelivery:  {Color: "orange", Icon: "map-pin", Label: "Out for Delivery"},
	StatusDelivered:       {Color: "green", Icon: "check-circle", Label: "Delivered"},
	StatusCancelled:       {Color: "red", Icon: "x-circle", Label: "Cancelled"},
	StatusFailed:          {Color: "red", Icon: "alert-triangle", Label: "Failed"},
	StatusReturned:        {Color: "red", Icon: "alert-triangle", Label: "Returned"},
	StatusRTO:             {Color: "red", Icon: "alert-triangle", Label: "Return to Origin"},
	StatusLost:            {Color: "red", Icon: "alert-triangle", Label: "Lost"},
	StatusDamaged:         {Color: "red", Icon: "alert-triangle", Label: "Damaged"},
	StatusException:       {Color: "red", Icon: "alert-triangle", Label: "Exception"},
	StatusUndelivered:     {Color: "red", Icon: "alert-triangle", Label: "Undelivered"},
}

// Normalize converte um status livre para a forma canônica: maiúsculas,
// sem espaços nas pontas, com espaços e hífens trocados por underscore.
func Normalize(status string) string {
	s := strings.ToUpper(strings.TrimSpace(status))
	return strings.NewReplacer(" ", "_", "-", "_").Replace(s)
}

// Known informa se o status pertence à tabela de classificação.
func Known(status string) bool {
	_, ok := displayTable[Normalize(status)]
	return ok
}

// Classify mapeia qualquer string para um Display. Status desconhecidos
// recebem cinza, ícone "x" e o próprio texto com a primeira letra maiúscula.
func Classify(status string) Display {
	if d, ok := displayTable[Normalize(status)]; ok {
		d.Status = Normalize(status)
		return d
	}
	return Display{
		Status: status,
		Color:  unknownColor,
		Icon:   unknownIcon,
		Label:  capitalize(strings.TrimSpace(status)),
	}
}

// Table retorna a tabela completa (usada como legenda pelo painel).
func Table() []Display {
	out := make([]Display, 0, len(displayTable))
	for _, key := range tableOrder {
		d := displayTable[key]
		d.Status = key
		out = append(out, d)
	}
	return out
}

var tableOrder = []string{
	StatusPending, StatusCreated, StatusAWBPending, StatusPickupScheduled,
	StatusDispatched, StatusPickedUp, StatusInTransit, StatusOutForDelivery,
	StatusDelivered, StatusCancelled, StatusFailed, StatusReturned, StatusRTO,
	StatusLost, StatusDamaged, StatusException, StatusUndelivered,
}

func capitalize(s string) string {
	if s == "" {
		return unknownLabel
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

// awbRequired são os status de caixa que só fazem sentido com AWB atribuído.
var awbRequired = map[string]struct{}{
	StatusDispatched:     {},
	StatusInTransit:      {},
	StatusOutForDelivery: {},
	StatusDelivered:      {},
}

// RequiresAWB informa se uma caixa precisa de AWB para assumir o status.
func RequiresAWB(status string) bool {
	_, ok := awbRequired[Normalize(status)]
	return ok
}
