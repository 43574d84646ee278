// Package csvio lê e escreve os CSVs do back office (upload da rede autorizada,
// exportação de fornecedores e remessas).
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"goship/internal/domain"
	"goship/internal/shipmentstatus"
)

// NetworkHeader é o cabeçalho exigido no upload em massa da rede.
var NetworkHeader = []string{"user_id", "role_type"}

// ErrHeaderMismatch indica CSV com cabeçalho diferente do esperado.
var ErrHeaderMismatch = errors.New("cabeçalho CSV inválido")

// NumberedRow é uma linha do CSV com sua posição (1-based, contando o cabeçalho).
type NumberedRow struct {
	Line int
	Row  domain.NetworkRow
}

// ParseNetworkCSV lê um CSV "user_id,role_type". Linhas em branco são ignoradas.
// A validação de conteúdo (role válido, duplicados) fica com o serviço.
func ParseNetworkCSV(r io.Reader) ([]NumberedRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: arquivo vazio", ErrHeaderMismatch)
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao ler cabeçalho CSV: %w", err)
	}
	if !validateHeader(header, NetworkHeader) {
		return nil, fmt.Errorf("%w: esperado %v, recebido %v", ErrHeaderMismatch, NetworkHeader, header)
	}

	var rows []NumberedRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("falha ao ler CSV: %w", err)
		}
		if isBlank(record) {
			continue
		}
		// csv.Reader pula linhas vazias; FieldPos mantém o número real da linha.
		line, _ := reader.FieldPos(0)
		row := NumberedRow{Line: line}
		row.Row.UserID = strings.TrimSpace(record[0])
		if len(record) > 1 {
			row.Row.RoleType = strings.TrimSpace(record[1])
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateHeader(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		// Remove BOM do Excel na primeira coluna.
		cell := strings.TrimPrefix(got[i], "\ufeff")
		if !strings.EqualFold(strings.TrimSpace(cell), want[i]) {
			return false
		}
	}
	return true
}

func isBlank(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// SupplierHeader é o cabeçalho da exportação de fornecedores.
var SupplierHeader = []string{"id", "name", "contact_email", "phone", "certifications", "created_at"}

// WriteSuppliers escreve fornecedores em CSV; certifications vai como string separada por vírgulas.
func WriteSuppliers(w io.Writer, suppliers []domain.Supplier) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(SupplierHeader); err != nil {
		return err
	}
	for _, s := range suppliers {
		if err := cw.Write([]string{
			s.ID, s.Name, s.ContactEmail, s.Phone, s.Certifications.Join(), s.CreatedAt.UTC().Format(time.RFC3339),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadSuppliers lê o CSV produzido por WriteSuppliers (reimportação).
func ReadSuppliers(r io.Reader) ([]domain.Supplier, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("falha ao ler CSV de fornecedores: %w", err)
	}
	if len(records) == 0 || !validateHeader(records[0], SupplierHeader) {
		return nil, fmt.Errorf("%w: esperado %v", ErrHeaderMismatch, SupplierHeader)
	}

	suppliers := make([]domain.Supplier, 0, len(records)-1)
	for i, rec := range records[1:] {
		s := domain.Supplier{
			ID:             rec[0],
			Name:           rec[1],
			ContactEmail:   rec[2],
			Phone:          rec[3],
			Certifications: domain.SplitCertifications(rec[4]),
		}
		if rec[5] != "" {
			created, err := time.Parse(time.RFC3339, rec[5])
			if err != nil {
				return nil, fmt.Errorf("linha %d: created_at inválido: %w", i+2, err)
			}
			s.CreatedAt = created
		}
		suppliers = append(suppliers, s)
	}
	return suppliers, nil
}

// ShipmentHeader é o cabeçalho da exportação de remessas (uma linha por caixa).
var ShipmentHeader = []string{
	"shipment_id", "shipment_status", "status_label", "courier", "created_at",
	"box_number", "awb_number", "box_status", "weight_kg", "parts",
}

// ShipmentRows achata remessas em linhas (uma por caixa; remessa sem caixas gera uma linha).
// Compartilhado entre a exportação CSV e a XLSX.
func ShipmentRows(shipments []domain.Shipment) [][]string {
	var rows [][]string
	for _, s := range shipments {
		base := []string{
			s.ID, s.Status, shipmentstatus.Classify(s.Status).Label, s.Courier,
			s.CreatedAt.UTC().Format(time.RFC3339),
		}
		if len(s.Boxes) == 0 {
			rows = append(rows, append(append([]string{}, base...), "", "", "", "", ""))
			continue
		}
		for _, b := range s.Boxes {
			awb := ""
			if b.HasAWB() {
				awb = *b.AWBNumber
			}
			row := append([]string{}, base...)
			row = append(row,
				fmt.Sprint(b.BoxNumber), awb, b.Status, b.Weight.String(), formatParts(b.Parts),
			)
			rows = append(rows, row)
		}
	}
	return rows
}

func formatParts(parts []domain.BoxPart) string {
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		items = append(items, fmt.Sprintf("%s x%d", p.PartID, p.Quantity))
	}
	return strings.Join(items, "; ")
}

// WriteShipments escreve remessas em CSV.
func WriteShipments(w io.Writer, shipments []domain.Shipment) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ShipmentHeader); err != nil {
		return err
	}
	if err := cw.WriteAll(ShipmentRows(shipments)); err != nil {
		return err
	}
	return cw.Error()
}
