// Package export genera archivos descargables (xlsx) a partir del libro de inventario.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/pos-api/internal/domain/entity"
)

const ledgerSheet = "Libro"

var ledgerHeaders = []string{"Fecha", "Tipo", "Referencia", "Cantidad", "Costo unitario", "Saldo", "Usuario"}

var typeLabels = map[string]string{
	entity.TransactionTypeSale:       "Venta",
	entity.TransactionTypePurchase:   "Compra",
	entity.TransactionTypeAdjustment: "Ajuste",
}

// LedgerExcelExporter implementa inventory.LedgerExporter con excelize.
type LedgerExcelExporter struct{}

// NewLedgerExcelExporter construye el exportador.
func NewLedgerExcelExporter() *LedgerExcelExporter { return &LedgerExcelExporter{} }

// ExportLedger escribe una fila por movimiento con el saldo acumulado.
// entries debe venir en orden cronológico y desde el origen del libro para que el saldo cuadre.
func (e *LedgerExcelExporter) ExportLedger(item *entity.Item, entries []*entity.InventoryTransaction) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", ledgerSheet); err != nil {
		return nil, fmt.Errorf("export: renombrar hoja: %w", err)
	}

	_ = f.SetCellValue(ledgerSheet, "A1", fmt.Sprintf("%s (%s)", item.Name, item.SKU))
	_ = f.SetCellValue(ledgerSheet, "A2", "Stock actual")
	_ = f.SetCellValue(ledgerSheet, "B2", item.CurrentStock)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"00467F"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("export: estilo: %w", err)
	}
	const headerRow = 4
	for i, h := range ledgerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(ledgerSheet, cell, h)
	}
	first, _ := excelize.CoordinatesToCellName(1, headerRow)
	last, _ := excelize.CoordinatesToCellName(len(ledgerHeaders), headerRow)
	if err := f.SetCellStyle(ledgerSheet, first, last, headerStyle); err != nil {
		return nil, fmt.Errorf("export: estilo cabecera: %w", err)
	}

	var running int64
	for i, tx := range entries {
		running += tx.QuantityChange
		label := typeLabels[tx.Type]
		if label == "" {
			label = tx.Type
		}
		var cost any
		if tx.UnitCost != nil {
			cost = tx.UnitCost.InexactFloat64()
		}
		values := []any{
			tx.CreatedAt.Format("2006-01-02 15:04:05"),
			label,
			tx.ReferenceID,
			tx.QuantityChange,
			cost,
			running,
			tx.CreatedBy,
		}
		cell, _ := excelize.CoordinatesToCellName(1, headerRow+1+i)
		if err := f.SetSheetRow(ledgerSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("export: fila %d: %w", i+1, err)
		}
	}
	_ = f.SetColWidth(ledgerSheet, "A", "A", 20)
	_ = f.SetColWidth(ledgerSheet, "C", "C", 38)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("export: escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
