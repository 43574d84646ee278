package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"goship/internal/domain"
)

func TestWriteShipmentsXLSX(t *testing.T) {
	shipments := []domain.Shipment{
		{ID: "a", Status: "DELIVERED", Boxes: []domain.Box{{BoxNumber: 1, Status: "DELIVERED"}}},
		{ID: "b", Status: "PENDING"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteShipmentsXLSX(&buf, shipments))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(shipmentsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "shipment_id", rows[0][0])
	assert.Equal(t, "Delivered", rows[1][2])

	stats, err := f.GetRows(statsSheet)
	require.NoError(t, err)
	assert.Equal(t, []string{"all", "2"}, stats[1])
	// "a" tem caixa sem AWB, "b" é PENDING
	assert.Equal(t, []string{"pending", "2"}, stats[2])
}
