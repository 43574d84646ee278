package shipmentstatus_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goship/internal/domain"
	"goship/internal/shipmentstatus"
)

func strPtr(s string) *string { return &s }

func ids(shipments []domain.Shipment) []string {
	out := make([]string, 0, len(shipments))
	for _, s := range shipments {
		out = append(out, s.ID)
	}
	return out
}

// fixture cobre todos os buckets, uma remessa sem caixas e status desconhecido.
func fixture() []domain.Shipment {
	return []domain.Shipment{
		{ID: "s1", Status: "DELIVERED", Boxes: []domain.Box{{ID: "b1", Status: "DELIVERED", AWBNumber: strPtr("A1")}}},
		{ID: "s2", Status: "PENDING", Boxes: []domain.Box{{ID: "b2", Status: "PENDING"}}},
		{ID: "s3", Status: "in transit", Boxes: []domain.Box{{ID: "b3", Status: "in_transit", AWBNumber: strPtr("A3")}}},
		{ID: "s4", Status: "DISPATCHED", Boxes: []domain.Box{
			{ID: "b4", Status: "DISPATCHED", AWBNumber: strPtr("A4")},
			{ID: "b5", Status: "lost", AWBNumber: strPtr("A5")},
		}},
		{ID: "s5", Status: "pickup_scheduled", Boxes: nil},
		{ID: "s6", Status: "Out-For-Delivery", Boxes: []domain.Box{{ID: "b6", Status: "OUT_FOR_DELIVERY", AWBNumber: strPtr(" ")}}},
		{ID: "s7", Status: "on_hold_at_hub", Boxes: []domain.Box{{ID: "b7", Status: "weird", AWBNumber: strPtr("A7")}}},
	}
}

func TestClassify_KnownStatuses(t *testing.T) {
	tests := []struct {
		in   string
		want shipmentstatus.Display
	}{
		{"PENDING", shipmentstatus.Display{Status: "PENDING", Color: "yellow", Icon: "clock", Label: "Pending"}},
		{"in transit", shipmentstatus.Display{Status: "IN_TRANSIT", Color: "purple", Icon: "truck", Label: "In Transit"}},
		{"out-for-delivery", shipmentstatus.Display{Status: "OUT_FOR_DELIVERY", Color: "orange", Icon: "map-pin", Label: "Out for Delivery"}},
		{" delivered ", shipmentstatus.Display{Status: "DELIVERED", Color: "green", Icon: "check-circle", Label: "Delivered"}},
		{"Lost", shipmentstatus.Display{Status: "LOST", Color: "red", Icon: "alert-triangle", Label: "Lost"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, shipmentstatus.Classify(tt.in)); diff != "" {
				t.Errorf("Classify(%q) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestClassify_TotalWithFallback(t *testing.T) {
	inputs := []string{"", "   ", "on_hold", "ñandú", "123", "\x00", "PENDINGX"}
	for _, in := range inputs {
		d := shipmentstatus.Classify(in)
		assert.NotEmpty(t, d.Color, in)
		assert.NotEmpty(t, d.Icon, in)
		assert.NotEmpty(t, d.Label, in)
		assert.Equal(t, "gray", d.Color, in)
		assert.Equal(t, "x", d.Icon, in)
	}

	assert.Equal(t, "Unknown", shipmentstatus.Classify("").Label)
	assert.Equal(t, "On_hold", shipmentstatus.Classify("on_hold").Label)
	assert.Equal(t, "Ñandú", shipmentstatus.Classify("ñandú").Label)
}

func TestTable_CoversEveryBucketStatus(t *testing.T) {
	table := shipmentstatus.Table()
	require.NotEmpty(t, table)
	for _, d := range table {
		assert.True(t, shipmentstatus.Known(d.Status), d.Status)
		assert.NotEqual(t, "gray", d.Color, d.Status)
	}
}

func TestFilter_SpecScenario(t *testing.T) {
	shipments := []domain.Shipment{
		{ID: "first", Status: "DELIVERED", Boxes: []domain.Box{{Status: "DELIVERED", AWBNumber: strPtr("A1")}}},
		{ID: "second", Status: "PENDING", Boxes: []domain.Box{{Status: "PENDING", AWBNumber: nil}}},
	}

	pending := shipmentstatus.Filter(shipments, shipmentstatus.BucketPending)
	assert.Equal(t, []string{"second"}, ids(pending))

	stats := shipmentstatus.ComputeStats(shipments)
	assert.Equal(t, 1, stats.Pending)
	assert.Equal(t, 1, stats.Delivered)
	assert.Equal(t, 2, stats.Total)
}

func TestFilter_Buckets(t *testing.T) {
	want := map[shipmentstatus.Bucket][]string{
		shipmentstatus.BucketAll:             {"s1", "s2", "s3", "s4", "s5", "s6", "s7"},
		shipmentstatus.BucketPending:         {"s2", "s6"}, // s6: AWB em branco conta como pendente
		shipmentstatus.BucketPickupScheduled: {"s5"},
		shipmentstatus.BucketDispatched:      {"s4"},
		shipmentstatus.BucketInTransit:       {"s3"},
		shipmentstatus.BucketOutForDelivery:  {"s6"},
		shipmentstatus.BucketDelivered:       {"s1"},
		shipmentstatus.BucketIssues:          {"s4"}, // caixa "lost"
	}

	for bucket, expected := range want {
		t.Run(string(bucket), func(t *testing.T) {
			got := ids(shipmentstatus.Filter(fixture(), bucket))
			if diff := cmp.Diff(expected, got); diff != "" {
				t.Errorf("Filter(%s) mismatch (-want +got):\n%s", bucket, diff)
			}
		})
	}
}

func TestFilter_SubsetAndStatsAgree(t *testing.T) {
	shipments := fixture()
	inputIDs := map[string]bool{}
	for _, s := range shipments {
		inputIDs[s.ID] = true
	}

	stats := shipmentstatus.ComputeStats(shipments)
	for _, bucket := range shipmentstatus.Buckets {
		filtered := shipmentstatus.Filter(shipments, bucket)
		for _, s := range filtered {
			assert.True(t, inputIDs[s.ID], "remessa fabricada %s no bucket %s", s.ID, bucket)
		}
		assert.Equal(t, len(filtered), shipmentstatus.StatFor(stats, bucket), bucket)
	}
}

func TestFilter_IdempotentAndPure(t *testing.T) {
	shipments := fixture()
	before := ids(shipments)

	first := shipmentstatus.Filter(shipments, shipmentstatus.BucketPending)
	second := shipmentstatus.Filter(shipments, shipmentstatus.BucketPending)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, before, ids(shipments))
	assert.Equal(t, "PENDING", shipments[1].Status)
}

func TestFilter_ZeroBoxesOnlyShipmentLevel(t *testing.T) {
	empty := []domain.Shipment{{ID: "z", Status: "weird", Boxes: nil}}
	for _, bucket := range shipmentstatus.Buckets {
		if bucket == shipmentstatus.BucketAll {
			continue
		}
		assert.Empty(t, shipmentstatus.Filter(empty, bucket), bucket)
	}

	delivered := []domain.Shipment{{ID: "d", Status: "delivered", Boxes: []domain.Box{}}}
	assert.Len(t, shipmentstatus.Filter(delivered, shipmentstatus.BucketDelivered), 1)
	assert.Empty(t, shipmentstatus.Filter(delivered, shipmentstatus.BucketPending))
}

func TestFilter_NilInput(t *testing.T) {
	got := shipmentstatus.Filter(nil, shipmentstatus.BucketPending)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Equal(t, domain.ShipmentStats{}, shipmentstatus.ComputeStats(nil))
}

func TestParseBucket(t *testing.T) {
	b, err := shipmentstatus.ParseBucket("")
	require.NoError(t, err)
	assert.Equal(t, shipmentstatus.BucketAll, b)

	b, err = shipmentstatus.ParseBucket(" IN_TRANSIT ")
	require.NoError(t, err)
	assert.Equal(t, shipmentstatus.BucketInTransit, b)

	_, err = shipmentstatus.ParseBucket("shipped")
	assert.Error(t, err)
}
