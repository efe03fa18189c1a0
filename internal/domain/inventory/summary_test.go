package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func TestSummary_EscenarioA(t *testing.T) {
	s := inventory.NewSummary("p-1", inventory.MustParsePeriod("2025-03"), 50, inventory.OpeningFromOverride)

	s.Apply(&entity.StockMovement{Type: entity.MovementTypeIn, Quantity: 20, PreviousStock: 50, NewStock: 70, ProductName: "Espresso"})
	s.Apply(&entity.StockMovement{Type: entity.MovementTypeOut, Quantity: 5, PreviousStock: 70, NewStock: 65})
	s.Apply(&entity.StockMovement{Type: entity.MovementTypeAdjustment, Quantity: 5, PreviousStock: 65, NewStock: 60})

	assert.Equal(t, int64(50), s.OpeningStock)
	assert.Equal(t, int64(20), s.StockIn)
	assert.Equal(t, int64(5), s.StockOut)
	assert.Equal(t, int64(-5), s.Adjustment)
	assert.Equal(t, int64(60), s.ClosingStock)
	assert.Equal(t, 3, s.Movements)
	assert.Equal(t, "Espresso", s.ProductName)
}

func TestSummary_OpeningRebasa(t *testing.T) {
	s := inventory.NewSummary("p-1", inventory.MustParsePeriod("2025-03"), 10, inventory.OpeningFromCarry)
	s.Apply(&entity.StockMovement{Type: entity.MovementTypeIn, Quantity: 5, PreviousStock: 10, NewStock: 15})
	s.Apply(&entity.StockMovement{Type: entity.MovementTypeOpening, Quantity: 40, PreviousStock: 0, NewStock: 40})
	s.Apply(&entity.StockMovement{Type: entity.MovementTypeOut, Quantity: 4, PreviousStock: 40, NewStock: 36})

	assert.Equal(t, int64(40), s.OpeningStock)
	assert.Equal(t, inventory.OpeningFromMovement, s.OpeningSource)
	assert.Equal(t, int64(0), s.StockIn)
	assert.Equal(t, int64(4), s.StockOut)
	assert.Equal(t, int64(36), s.ClosingStock)
}

func TestSummary_AperturaFijadaPrevaleceSobreOpening(t *testing.T) {
	s := inventory.NewSummary("p-1", inventory.MustParsePeriod("2025-03"), 25, inventory.OpeningFromOverride)
	s.Apply(&entity.StockMovement{Type: entity.MovementTypeIn, Quantity: 5, PreviousStock: 25, NewStock: 30})
	s.Apply(&entity.StockMovement{Type: entity.MovementTypeOpening, Quantity: 40, PreviousStock: 30, NewStock: 40})

	assert.Equal(t, int64(25), s.OpeningStock)
	assert.Equal(t, inventory.OpeningFromOverride, s.OpeningSource)
	assert.Equal(t, int64(5), s.StockIn)
	assert.Equal(t, int64(30), s.ClosingStock)
	assert.Equal(t, 2, s.Movements)
}

func TestSum(t *testing.T) {
	a := &inventory.Summary{OpeningStock: 1, StockIn: 2, StockOut: 3, Adjustment: -1, ClosingStock: -1}
	b := &inventory.Summary{OpeningStock: 10, StockIn: 0, StockOut: 5, Adjustment: 2, ClosingStock: 7}
	got := inventory.Sum([]*inventory.Summary{a, b})
	assert.Equal(t, inventory.Totals{OpeningStock: 11, StockIn: 2, StockOut: 8, Adjustment: 1, ClosingStock: 6}, got)
}
