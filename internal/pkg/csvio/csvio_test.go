package csvio

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goship/internal/domain"
)

func TestParseNetworkCSV(t *testing.T) {
	input := "\ufeffUser_ID, role_type\n" +
		"u-1,service_center\n" +
		"\n" +
		" u-2 , distributor \n" +
		"u-3\n"

	rows, err := ParseNetworkCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, NumberedRow{Line: 2, Row: domain.NetworkRow{UserID: "u-1", RoleType: "service_center"}}, rows[0])
	assert.Equal(t, "u-2", rows[1].Row.UserID)
	assert.Equal(t, "distributor", rows[1].Row.RoleType)
	assert.Equal(t, 5, rows[2].Line)
	assert.Empty(t, rows[2].Row.RoleType)
}

func TestParseNetworkCSV_HeaderMismatch(t *testing.T) {
	_, err := ParseNetworkCSV(strings.NewReader("id,role\nu-1,distributor\n"))
	assert.ErrorIs(t, err, ErrHeaderMismatch)

	_, err = ParseNetworkCSV(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrHeaderMismatch)
}

func TestSuppliers_ExportReimportRoundTrip(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	original := []domain.Supplier{
		{ID: "s-1", Name: "Acme, Ltda", ContactEmail: "a@acme.io", Certifications: domain.Certifications{" ISO9001 ", "RoHS"}, CreatedAt: created},
		{ID: "s-2", Name: "Sem Certificação", Certifications: nil, CreatedAt: created},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSuppliers(&buf, original))

	back, err := ReadSuppliers(&buf)
	require.NoError(t, err)
	require.Len(t, back, 2)

	assert.Equal(t, "Acme, Ltda", back[0].Name)
	assert.Equal(t, domain.Certifications{"ISO9001", "RoHS"}, back[0].Certifications)
	assert.Equal(t, domain.Certifications{}, back[1].Certifications)
	assert.True(t, created.Equal(back[0].CreatedAt))
}

func TestWriteShipments_OneRowPerBox(t *testing.T) {
	awb := "GS0000000001"
	shipments := []domain.Shipment{
		{ID: "sh-1", Status: "IN_TRANSIT", Courier: "delhivery", Boxes: []domain.Box{
			{BoxNumber: 1, AWBNumber: &awb, Status: "IN_TRANSIT", Weight: decimal.RequireFromString("2.5"),
				Parts: []domain.BoxPart{{PartID: "p-1", Quantity: 3}}},
			{BoxNumber: 2, Status: "AWB_PENDING", Weight: decimal.NewFromInt(1)},
		}},
		{ID: "sh-2", Status: "mystery"},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteShipments(&buf, shipments))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, ShipmentHeader, records[0])
	assert.Equal(t, []string{"sh-1", "IN_TRANSIT", "In Transit", "delhivery"}, records[1][:4])
	assert.Equal(t, []string{"1", awb, "IN_TRANSIT", "2.5", "p-1 x3"}, records[1][5:])
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "Mystery", records[3][2])
}
