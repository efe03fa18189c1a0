package ports

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// ReportExporter define el puerto de salida para exportar el reporte de periodo a un documento.
// Los adaptadores (PDF con Maroto, XLSX con Excelize) solo conocen este contrato.
type ReportExporter interface {
	Export(ctx context.Context, report *inventory.PeriodReport) ([]byte, error)
	// ContentType MIME del documento generado.
	ContentType() string
	// Extension sin punto, para el nombre del archivo descargado.
	Extension() string
}
