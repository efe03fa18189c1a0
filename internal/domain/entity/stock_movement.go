package entity

import (
	"strings"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain"
)

// MovementType tipo de movimiento de stock (value object).
type MovementType string

// Tipos de movimiento del libro de stock.
const (
	MovementTypeIn         MovementType = "in"         // entrada (compra, retorno)
	MovementTypeOut        MovementType = "out"        // salida (venta, merma)
	MovementTypeAdjustment MovementType = "adjustment" // corrección a un valor absoluto
	MovementTypeOpening    MovementType = "opening"    // saldo de apertura de mes
)

// Valid indica si el tipo es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment, MovementTypeOpening:
		return true
	}
	return false
}

// StockMovement registro inmutable de un cambio de stock de un producto.
// PreviousStock/NewStock son la foto del stock actual antes y después de aplicar el movimiento.
type StockMovement struct {
	ID            string
	Seq           int64 // orden de inserción, desempata CreatedAt
	ProductID     string
	ProductName   string
	Type          MovementType
	Quantity      int64 // siempre >= 0; el signo de un ajuste lo dan Previous/New
	PreviousStock int64
	NewStock      int64
	Reason        string
	Reference     string // OC, factura, pedido
	UserID        string
	UserName      string
	Notes         string
	CreatedAt     time.Time
}

// Delta variación firmada que el movimiento aplica sobre el stock.
func (m *StockMovement) Delta() int64 {
	switch m.Type {
	case MovementTypeIn:
		return m.Quantity
	case MovementTypeOut:
		return -m.Quantity
	default:
		return m.NewStock - m.PreviousStock
	}
}

// Validate reglas de un movimiento candidato antes de persistirlo.
func (m *StockMovement) Validate() error {
	if m.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if !m.Type.Valid() {
		return domain.ErrInvalidMovementType
	}
	if m.Quantity < 0 {
		return domain.ErrInvalidQuantity
	}
	if m.Type != MovementTypeOpening && strings.TrimSpace(m.Reason) == "" {
		return domain.ErrMissingReason
	}
	return nil
}

// Consistent verifica newStock = previousStock + delta según el tipo.
func (m *StockMovement) Consistent() bool {
	switch m.Type {
	case MovementTypeIn:
		return m.NewStock == m.PreviousStock+m.Quantity
	case MovementTypeOut:
		return m.NewStock == m.PreviousStock-m.Quantity
	case MovementTypeAdjustment:
		return abs(m.NewStock-m.PreviousStock) == m.Quantity
	case MovementTypeOpening:
		return m.PreviousStock == 0 && m.NewStock == m.Quantity
	}
	return false
}

// Before orden cronológico: CreatedAt ascendente, luego Seq.
func (m *StockMovement) Before(o *StockMovement) bool {
	if !m.CreatedAt.Equal(o.CreatedAt) {
		return m.CreatedAt.Before(o.CreatedAt)
	}
	return m.Seq < o.Seq
}

func abs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
