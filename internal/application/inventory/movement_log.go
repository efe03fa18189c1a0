package inventory

import (
	"context"
	"iter"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementLog registro ordenado y de solo anexar de movimientos de stock.
// No expone ninguna operación de modificación aparte de Append.
type MovementLog struct {
	repo  repository.MovementRepository
	now   func() time.Time
	newID func() string
}

// NewMovementLog construye el log sobre el repositorio dado (pool o tx).
func NewMovementLog(repo repository.MovementRepository, now func() time.Time) *MovementLog {
	if now == nil {
		now = time.Now
	}
	return &MovementLog{repo: repo, now: now, newID: func() string { return uuid.New().String() }}
}

// WithRepo devuelve una copia del log atada a otro repositorio (ej. el de una transacción).
func (l *MovementLog) WithRepo(repo repository.MovementRepository) *MovementLog {
	cp := *l
	cp.repo = repo
	return &cp
}

// Append valida el candidato, asigna ID y CreatedAt, lo persiste y devuelve el registro guardado.
// El registro es visible para las lecturas siguientes del mismo escritor.
func (l *MovementLog) Append(ctx context.Context, candidate entity.StockMovement) (*entity.StockMovement, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	mov := candidate
	mov.ID = l.newID()
	mov.CreatedAt = l.now().UTC()
	if err := l.repo.Append(ctx, &mov); err != nil {
		return nil, err
	}
	return &mov, nil
}

// QueryByProduct movimientos del producto en [from, to), en orden cronológico.
// La secuencia es perezosa y se puede recorrer varias veces.
func (l *MovementLog) QueryByProduct(ctx context.Context, productID string, from, to *time.Time) iter.Seq2[*entity.StockMovement, error] {
	return l.repo.ListByProduct(ctx, productID, from, to)
}

// QueryByPeriod todos los movimientos del mes (UTC), de todos los productos.
func (l *MovementLog) QueryByPeriod(ctx context.Context, period domaininv.Period) iter.Seq2[*entity.StockMovement, error] {
	return l.repo.ListByRange(ctx, period.Start(), period.End())
}

// Collect materializa una secuencia de movimientos.
func Collect(seq iter.Seq2[*entity.StockMovement, error]) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for m, err := range seq {
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
