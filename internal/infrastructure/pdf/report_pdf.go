// Package pdf genera el reporte de stock de un periodo en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del negocio   │  Periodo + fecha de emisión  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Producto | Apertura | Entradas | Salidas | Ajuste | Cierre │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES                                                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DISCREPANCIAS: productos cuyo cierre no coincide con el stock │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorWarning = &props.Color{Red: 180, Green: 60, Blue: 0}
)

var _ ports.ReportExporter = (*ReportPDFGenerator)(nil)

// ReportPDFGenerator implementa ports.ReportExporter usando Maroto v2.
type ReportPDFGenerator struct {
	title string
}

// NewReportPDFGenerator construye el generador; title es el nombre del negocio en la cabecera.
func NewReportPDFGenerator(title string) *ReportPDFGenerator {
	return &ReportPDFGenerator{title: title}
}

func (g *ReportPDFGenerator) ContentType() string { return "application/pdf" }
func (g *ReportPDFGenerator) Extension() string   { return "pdf" }

// Export genera el PDF y devuelve sus bytes.
func (g *ReportPDFGenerator) Export(_ context.Context, report *inventory.PeriodReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de stock "+report.Period.String(), true).
		WithAuthor(g.title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.title, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(report.Items)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report.Totals))

	if len(report.Drifts) > 0 {
		m.AddRows(line.NewRow(3))
		m.AddRows(driftRows(report.Drifts)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(title string, report *inventory.PeriodReport) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(title, "Stock Ledger"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Reporte de movimientos de stock", props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("PERIODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.Period.String(), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Emitido: "+report.GeneratedAt.Format("02/01/2006 15:04")+" UTC", props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Producto", 4, align.Left),
		h("Apertura", 2, align.Right),
		h("Entradas", 2, align.Right),
		h("Salidas", 1, align.Right),
		h("Ajuste", 1, align.Right),
		h("Cierre", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableDetailRows(items []*inventory.ProductReport) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		name := it.ProductName
		if it.OpeningSource == domaininv.OpeningFromOverride {
			name += " *"
		}
		cell := func(v string, size int) core.Col {
			return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}))
		}
		result = append(result, row.New(7).Add(
			col.New(4).Add(text.New(name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			cell(formatQty(it.OpeningStock), 2),
			cell(formatQty(it.StockIn), 2),
			cell(formatQty(it.StockOut), 1),
			cell(formatSigned(it.Adjustment), 1),
			cell(formatQty(it.ClosingStock), 2),
		))
	}
	return result
}

func totalsRow(t domaininv.Totals) core.Row {
	v := func(s string, size int) core.Col {
		return col.New(size).Add(text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		col.New(4).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 1, Left: 1,
		})),
		v(formatQty(t.OpeningStock), 2),
		v(formatQty(t.StockIn), 2),
		v(formatQty(t.StockOut), 1),
		v(formatSigned(t.Adjustment), 1),
		v(formatQty(t.ClosingStock), 2),
	)
}

func driftRows(drifts []inventory.LedgerDrift) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("DISCREPANCIAS CON EL STOCK ACTUAL", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorWarning, Top: 1,
			}),
		)),
	}
	for _, d := range drifts {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(fmt.Sprintf("%s: calculado %s, stock actual %s (diferencia %s)",
				d.ProductName, formatQty(d.Computed), formatQty(d.Live), formatSigned(d.Difference())),
				props.Text{Size: 7.5, Color: colorGray, Top: 0.5, Left: 2}),
		)))
	}
	rows = append(rows, row.New(6).Add(col.New(12).Add(
		text.New("* apertura fijada manualmente para el periodo.", props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatQty inserta puntos de miles. Ej: 25000 → "25.000", -1200 → "-1.200".
func formatQty(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if n < 0 {
		sign, s = "-", s[1:]
	}
	l := len(s)
	if l <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, l+l/3)
	for i, c := range []byte(s) {
		if i > 0 && (l-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}

func formatSigned(n int64) string {
	if n > 0 {
		return "+" + formatQty(n)
	}
	return formatQty(n)
}
