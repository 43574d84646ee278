package shipmentstatus

import (
	"fmt"
	"strings"

	"goship/internal/domain"
)

// Bucket é a categoria de filtro exibida no painel de remessas.
type Bucket string

const (
	BucketAll             Bucket = "all"
	BucketPending         Bucket = "pending"
	BucketPickupScheduled Bucket = "pickup_scheduled"
	BucketDispatched      Bucket = "dispatched"
	BucketInTransit       Bucket = "in_transit"
	BucketOutForDelivery  Bucket = "out_for_delivery"
	BucketDelivered       Bucket = "delivered"
	BucketIssues          Bucket = "issues"
)

// Buckets lista os buckets na ordem dos tiles do painel.
var Buckets = []Bucket{
	BucketAll, BucketPending, BucketPickupScheduled, BucketDispatched,
	BucketInTransit, BucketOutForDelivery, BucketDelivered, BucketIssues,
}

// bucketStatuses guarda o conjunto de status canônicos de cada bucket.
// BucketAll não tem conjunto: seleciona tudo.
var bucketStatuses = map[Bucket]map[string]struct{}{
	BucketPending:         setOf(StatusPending, StatusCreated, StatusAWBPending),
	BucketPickupScheduled: setOf(StatusPickupScheduled),
	BucketDispatched:      setOf(StatusDispatched, StatusPickedUp),
	BucketInTransit:       setOf(StatusInTransit),
	BucketOutForDelivery:  setOf(StatusOutForDelivery),
	BucketDelivered:       setOf(StatusDelivered),
	BucketIssues: setOf(StatusCancelled, StatusFailed, StatusReturned, StatusRTO,
		StatusLost, StatusDamaged, StatusException, StatusUndelivered),
}

func setOf(statuses ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(statuses))
	for _, s := range statuses {
		set[s] = struct{}{}
	}
	return set
}

// ParseBucket aceita as chaves de bucket sem diferenciar maiúsculas. Vazio é "all".
func ParseBucket(raw string) (Bucket, error) {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return BucketAll, nil
	}
	b := Bucket(key)
	if b == BucketAll {
		return b, nil
	}
	if _, ok := bucketStatuses[b]; ok {
		return b, nil
	}
	return "", fmt.Errorf("bucket desconhecido: %q", raw)
}

// InBucket informa se um status isolado pertence ao bucket.
func InBucket(status string, b Bucket) bool {
	set, ok := bucketStatuses[b]
	if !ok {
		return false
	}
	_, in := set[Normalize(status)]
	return in
}

// Matches aplica o predicado do bucket: status da remessa no conjunto, OU status de
// alguma caixa no conjunto, OU (apenas pending) alguma caixa sem AWB.
func Matches(s domain.Shipment, b Bucket) bool {
	if b == BucketAll {
		return true
	}
	if InBucket(s.Status, b) {
		return true
	}
	for _, box := range s.Boxes {
		if InBucket(box.Status, b) {
			return true
		}
		if b == BucketPending && !box.HasAWB() {
			return true
		}
	}
	return false
}

// Filter retorna, na ordem original, as remessas que satisfazem o bucket.
// Nunca retorna nil; entrada nil produz lista vazia. Não altera a entrada.
func Filter(shipments []domain.Shipment, b Bucket) []domain.Shipment {
	out := make([]domain.Shipment, 0, len(shipments))
	for _, s := range shipments {
		if Matches(s, b) {
			out = append(out, s)
		}
	}
	return out
}

// Count é equivalente a len(Filter(shipments, b)) sem alocar a lista.
func Count(shipments []domain.Shipment, b Bucket) int {
	n := 0
	for _, s := range shipments {
		if Matches(s, b) {
			n++
		}
	}
	return n
}
