package repository

import (
	"context"
	"iter"
	"time"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia del libro de movimientos (solo anexar).
// Los listados devuelven secuencias perezosas en orden (CreatedAt, Seq) ascendente; cada
// recorrido ejecuta la consulta de nuevo, no hay cursor compartido.
// Los rangos son [from, to): from incluido, to excluido. nil = sin límite.
type MovementRepository interface {
	// Append persiste el movimiento y asigna Seq.
	Append(ctx context.Context, movement *entity.StockMovement) error
	ListByProduct(ctx context.Context, productID string, from, to *time.Time) iter.Seq2[*entity.StockMovement, error]
	ListByRange(ctx context.Context, from, to time.Time) iter.Seq2[*entity.StockMovement, error]
	// EarliestByProduct fecha del primer movimiento del producto; nil si no tiene.
	EarliestByProduct(ctx context.Context, productID string) (*time.Time, error)
	// DeleteByRange purga administrativa. Los reportes sobre la ventana purgada quedan indefinidos.
	DeleteByRange(ctx context.Context, from, to time.Time) (int64, error)
}
