package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

func TestStockMovement_Validate(t *testing.T) {
	cases := []struct {
		name string
		mov  entity.StockMovement
		want error
	}{
		{"entrada válida", entity.StockMovement{ProductID: "p", Type: entity.MovementTypeIn, Quantity: 3, Reason: "Pembelian"}, nil},
		{"cantidad negativa", entity.StockMovement{ProductID: "p", Type: entity.MovementTypeIn, Quantity: -1, Reason: "x"}, domain.ErrInvalidQuantity},
		{"sin motivo", entity.StockMovement{ProductID: "p", Type: entity.MovementTypeOut, Quantity: 1, Reason: "  "}, domain.ErrMissingReason},
		{"apertura sin motivo", entity.StockMovement{ProductID: "p", Type: entity.MovementTypeOpening, Quantity: 10}, nil},
		{"tipo desconocido", entity.StockMovement{ProductID: "p", Type: "transfer", Quantity: 1, Reason: "x"}, domain.ErrInvalidMovementType},
		{"sin producto", entity.StockMovement{Type: entity.MovementTypeIn, Quantity: 1, Reason: "x"}, domain.ErrInvalidInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.mov.Validate()
			if tc.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestStockMovement_DeltaYConsistencia(t *testing.T) {
	in := entity.StockMovement{Type: entity.MovementTypeIn, Quantity: 20, PreviousStock: 50, NewStock: 70}
	out := entity.StockMovement{Type: entity.MovementTypeOut, Quantity: 5, PreviousStock: 70, NewStock: 65}
	adj := entity.StockMovement{Type: entity.MovementTypeAdjustment, Quantity: 5, PreviousStock: 65, NewStock: 60}
	open := entity.StockMovement{Type: entity.MovementTypeOpening, Quantity: 40, PreviousStock: 0, NewStock: 40}

	assert.Equal(t, int64(20), in.Delta())
	assert.Equal(t, int64(-5), out.Delta())
	assert.Equal(t, int64(-5), adj.Delta())
	assert.Equal(t, int64(40), open.Delta())
	for _, m := range []entity.StockMovement{in, out, adj, open} {
		assert.True(t, m.Consistent(), "movimiento %s debe ser consistente", m.Type)
	}

	bad := entity.StockMovement{Type: entity.MovementTypeAdjustment, Quantity: 2, PreviousStock: 65, NewStock: 60}
	assert.False(t, bad.Consistent())
}

func TestStockMovement_Before(t *testing.T) {
	ts := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	a := &entity.StockMovement{CreatedAt: ts, Seq: 1}
	b := &entity.StockMovement{CreatedAt: ts, Seq: 2}
	c := &entity.StockMovement{CreatedAt: ts.Add(-time.Second), Seq: 3}

	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.True(t, c.Before(a))
}
