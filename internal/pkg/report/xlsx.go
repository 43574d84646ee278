// Package report gera as planilhas XLSX baixadas pelo painel.
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"goship/internal/domain"
	"goship/internal/pkg/csvio"
	"goship/internal/shipmentstatus"
)

const (
	shipmentsSheet = "Shipments"
	statsSheet     = "Stats"
)

// WriteShipmentsXLSX escreve duas abas: as remessas (uma linha por caixa) e os contadores por bucket.
func WriteShipmentsXLSX(w io.Writer, shipments []domain.Shipment) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", shipmentsSheet); err != nil {
		return fmt.Errorf("falha ao renomear aba: %w", err)
	}

	if err := writeRow(f, shipmentsSheet, 1, csvio.ShipmentHeader); err != nil {
		return err
	}
	for i, row := range csvio.ShipmentRows(shipments) {
		if err := writeRow(f, shipmentsSheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(statsSheet); err != nil {
		return fmt.Errorf("falha ao criar aba de estatísticas: %w", err)
	}
	stats := shipmentstatus.ComputeStats(shipments)
	if err := writeRow(f, statsSheet, 1, []string{"bucket", "count"}); err != nil {
		return err
	}
	for i, b := range shipmentstatus.Buckets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(statsSheet, cell, &[]interface{}{string(b), shipmentstatus.StatFor(stats, b)}); err != nil {
			return fmt.Errorf("falha ao escrever estatística %s: %w", b, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("falha ao escrever XLSX: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("falha ao escrever linha %d: %w", rowNum, err)
	}
	return nil
}
