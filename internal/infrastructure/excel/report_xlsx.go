// Package excel exporta el reporte de periodo a XLSX con Excelize.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
)

const (
	sheetReport = "Reporte"
	sheetDrifts = "Discrepancias"
)

var reportHeadings = []interface{}{
	"Producto", "ID", "Apertura", "Origen apertura", "Entradas", "Salidas", "Ajuste", "Cierre", "Stock actual", "Movimientos",
}

var _ ports.ReportExporter = (*ReportXLSXGenerator)(nil)

// ReportXLSXGenerator implementa ports.ReportExporter.
type ReportXLSXGenerator struct{}

// NewReportXLSXGenerator construye el generador.
func NewReportXLSXGenerator() *ReportXLSXGenerator { return &ReportXLSXGenerator{} }

func (g *ReportXLSXGenerator) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (g *ReportXLSXGenerator) Extension() string { return "xlsx" }

// Export una fila por producto, fila de totales y una hoja con las discrepancias si las hay.
func (g *ReportXLSXGenerator) Export(_ context.Context, report *inventory.PeriodReport) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetReport); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	if err := f.SetCellValue(sheetReport, "A1", "Periodo "+report.Period.String()); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	if err := f.SetSheetRow(sheetReport, "A2", &reportHeadings); err != nil {
		return nil, fmt.Errorf("xlsx: encabezados: %w", err)
	}
	_ = f.SetCellStyle(sheetReport, "A1", "J2", bold)

	rowNo := 3
	for _, it := range report.Items {
		values := []interface{}{
			it.ProductName, it.ProductID, it.OpeningStock, string(it.OpeningSource),
			it.StockIn, it.StockOut, it.Adjustment, it.ClosingStock, it.CurrentStock, it.Movements,
		}
		if err := f.SetSheetRow(sheetReport, cell(1, rowNo), &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", rowNo, err)
		}
		rowNo++
	}

	totals := []interface{}{
		"TOTAL", "", report.Totals.OpeningStock, "",
		report.Totals.StockIn, report.Totals.StockOut, report.Totals.Adjustment, report.Totals.ClosingStock,
	}
	if err := f.SetSheetRow(sheetReport, cell(1, rowNo), &totals); err != nil {
		return nil, fmt.Errorf("xlsx: totales: %w", err)
	}
	_ = f.SetCellStyle(sheetReport, cell(1, rowNo), cell(len(totals), rowNo), bold)
	_ = f.SetColWidth(sheetReport, "A", "A", 32)

	if len(report.Drifts) > 0 {
		if _, err := f.NewSheet(sheetDrifts); err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		head := []interface{}{"Producto", "ID", "Cierre calculado", "Stock actual", "Diferencia"}
		if err := f.SetSheetRow(sheetDrifts, "A1", &head); err != nil {
			return nil, fmt.Errorf("xlsx: %w", err)
		}
		_ = f.SetCellStyle(sheetDrifts, "A1", "E1", bold)
		for i, d := range report.Drifts {
			values := []interface{}{d.ProductName, d.ProductID, d.Computed, d.Live, d.Difference()}
			if err := f.SetSheetRow(sheetDrifts, cell(1, i+2), &values); err != nil {
				return nil, fmt.Errorf("xlsx: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
