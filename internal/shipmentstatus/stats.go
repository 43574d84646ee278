package shipmentstatus

import "goship/internal/domain"

// ComputeStats conta as remessas por bucket. Cada contador usa o mesmo predicado de Filter.
func ComputeStats(shipments []domain.Shipment) domain.ShipmentStats {
	return domain.ShipmentStats{
		Total:           len(shipments),
		Pending:         Count(shipments, BucketPending),
		PickupScheduled: Count(shipments, BucketPickupScheduled),
		Dispatched:      Count(shipments, BucketDispatched),
		InTransit:       Count(shipments, BucketInTransit),
		OutForDelivery:  Count(shipments, BucketOutForDelivery),
		Delivered:       Count(shipments, BucketDelivered),
		Issues:          Count(shipments, BucketIssues),
	}
}

// StatFor retorna o contador correspondente a um bucket.
func StatFor(stats domain.ShipmentStats, b Bucket) int {
	switch b {
	case BucketPending:
		return stats.Pending
	case BucketPickupScheduled:
		return stats.PickupScheduled
	case BucketDispatched:
		return stats.Dispatched
	case BucketInTransit:
		return stats.InTransit
	case BucketOutForDelivery:
		return stats.OutForDelivery
	case BucketDelivered:
		return stats.Delivered
	case BucketIssues:
		return stats.Issues
	default:
		return stats.Total
	}
}
