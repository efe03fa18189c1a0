package inventory

import "github.com/jhoicas/stock-ledger/internal/domain/entity"

// OpeningSource de dónde sale el stock de apertura de un periodo.
type OpeningSource string

const (
	OpeningFromOverride OpeningSource = "override" // fijado por un operador
	OpeningFromCarry    OpeningSource = "carried"  // cierre del periodo anterior
	OpeningFromMovement OpeningSource = "movement" // movimiento de tipo opening dentro del periodo
	OpeningFromNone     OpeningSource = "none"     // sin historia previa
)

// Summary resumen de libro de un producto en un periodo.
// ClosingStock = OpeningStock + StockIn - StockOut + Adjustment.
type Summary struct {
	ProductID     string
	ProductName   string
	Period        Period
	OpeningStock  int64
	OpeningSource OpeningSource
	StockIn       int64
	StockOut      int64
	Adjustment    int64 // neto firmado de los ajustes
	ClosingStock  int64
	Movements     int
}

// NewSummary inicia el resumen con su apertura.
func NewSummary(productID string, p Period, opening int64, src OpeningSource) *Summary {
	return &Summary{
		ProductID:     productID,
		Period:        p,
		OpeningStock:  opening,
		OpeningSource: src,
		ClosingStock:  opening,
	}
}

// Apply acumula un movimiento del periodo. Los movimientos deben llegar en orden cronológico.
// Un movimiento opening rebasa el periodo: lo registrado antes en el mismo mes queda absorbido
// y la apertura pasa a ser la cantidad declarada. Una apertura fijada por el operador tiene
// precedencia: el movimiento opening se cuenta pero no la reemplaza.
func (s *Summary) Apply(m *entity.StockMovement) {
	if s.ProductName == "" {
		s.ProductName = m.ProductName
	}
	s.Movements++
	switch m.Type {
	case entity.MovementTypeIn:
		s.StockIn += m.Quantity
	case entity.MovementTypeOut:
		s.StockOut += m.Quantity
	case entity.MovementTypeAdjustment:
		s.Adjustment += m.NewStock - m.PreviousStock
	case entity.MovementTypeOpening:
		if s.OpeningSource == OpeningFromOverride {
			break
		}
		s.OpeningStock = m.Quantity
		s.OpeningSource = OpeningFromMovement
		s.StockIn, s.StockOut, s.Adjustment = 0, 0, 0
	}
	s.ClosingStock = s.OpeningStock + s.StockIn - s.StockOut + s.Adjustment
}

// Totals agrega varios resúmenes (vista de tablero, todos los productos).
type Totals struct {
	OpeningStock int64
	StockIn      int64
	StockOut     int64
	Adjustment   int64
	ClosingStock int64
}

// Sum suma los resúmenes dados.
func Sum(summaries []*Summary) Totals {
	var t Totals
	for _, s := range summaries {
		t.OpeningStock += s.OpeningStock
		t.StockIn += s.StockIn
		t.StockOut += s.StockOut
		t.Adjustment += s.Adjustment
		t.ClosingStock += s.ClosingStock
	}
	return t
}
