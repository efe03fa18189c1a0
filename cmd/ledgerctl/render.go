package main

import (
	"fmt"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// reportMarkdown tabla del reporte de periodo con totales y discrepancias.
func reportMarkdown(r *inventory.PeriodReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Reporte de stock %s\n\n", r.Period)
	if len(r.Items) == 0 {
		b.WriteString("_Sin productos registrados._\n")
		return b.String()
	}
	b.WriteString("| Producto | Apertura | Entradas | Salidas | Ajuste | Cierre | Stock actual |\n")
	b.WriteString("|:---|---:|---:|---:|---:|---:|---:|\n")
	for _, it := range r.Items {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %+d | %d | %d |\n",
			escapeCell(it.ProductName), openingLabel(&it.Summary),
			it.StockIn, it.StockOut, it.Adjustment, it.ClosingStock, it.CurrentStock)
	}
	t := r.Totals
	fmt.Fprintf(&b, "| **TOTAL** | **%d** | **%d** | **%d** | **%+d** | **%d** | |\n",
		t.OpeningStock, t.StockIn, t.StockOut, t.Adjustment, t.ClosingStock)

	if len(r.Drifts) > 0 {
		b.WriteString("\n## Discrepancias\n\n")
		for _, d := range r.Drifts {
			fmt.Fprintf(&b, "- **%s**: calculado %d, stock actual %d (diferencia %+d)\n",
				escapeCell(d.ProductName), d.Computed, d.Live, d.Difference())
		}
	}
	return b.String()
}

// productMarkdown resumen de un solo producto.
func productMarkdown(r *inventory.ProductReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s · %s\n\n", r.ProductName, r.Period)
	fmt.Fprintf(&b, "- Apertura: %s\n", openingLabel(&r.Summary))
	fmt.Fprintf(&b, "- Entradas: %d\n- Salidas: %d\n- Ajuste: %+d\n", r.StockIn, r.StockOut, r.Adjustment)
	fmt.Fprintf(&b, "- **Cierre: %d**\n- Stock actual: %d\n- Movimientos: %d\n", r.ClosingStock, r.CurrentStock, r.Movements)
	if r.Drift != nil {
		fmt.Fprintf(&b, "\n> Discrepancia: el cierre calculado difiere del stock actual en %+d.\n", r.Drift.Difference())
	}
	return b.String()
}

// historyMarkdown movimientos en orden cronológico.
func historyMarkdown(title string, list []*entity.StockMovement) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(list) == 0 {
		b.WriteString("_Sin movimientos._\n")
		return b.String()
	}
	b.WriteString("| Fecha | Tipo | Cantidad | Antes | Después | Motivo | Usuario |\n")
	b.WriteString("|:---|:---|---:|---:|---:|:---|:---|\n")
	for _, m := range list {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d | %s | %s |\n",
			m.CreatedAt.Format("2006-01-02 15:04"), m.Type, m.Quantity,
			m.PreviousStock, m.NewStock, escapeCell(m.Reason), escapeCell(m.UserName))
	}
	return b.String()
}

func openingLabel(s *domaininv.Summary) string {
	if s.OpeningSource == domaininv.OpeningFromOverride {
		return fmt.Sprintf("%d*", s.OpeningStock)
	}
	return fmt.Sprintf("%d", s.OpeningStock)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
