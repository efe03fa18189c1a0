package memdb

import (
	"context"
	"fmt"
	"iter"
	"sort"
	"time"

	gomemdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// MovementRepo libro de movimientos en memoria.
type MovementRepo struct{ base }

// Append asigna Seq y guarda una copia del movimiento.
func (r *MovementRepo) Append(ctx context.Context, movement *entity.StockMovement) error {
	return r.write(func(txn *gomemdb.Txn) error {
		movement.Seq = r.store.seq.Add(1)
		cp := *movement
		if err := txn.Insert(tableMovements, &cp); err != nil {
			return fmt.Errorf("append movement: %w", err)
		}
		return nil
	})
}

func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time) iter.Seq2[*entity.StockMovement, error] {
	return r.list(ctx, func(txn *gomemdb.Txn) (gomemdb.ResultIterator, error) {
		return txn.Get(tableMovements, "product", productID)
	}, from, to)
}

func (r *MovementRepo) ListByRange(ctx context.Context, from, to time.Time) iter.Seq2[*entity.StockMovement, error] {
	return r.list(ctx, func(txn *gomemdb.Txn) (gomemdb.ResultIterator, error) {
		return txn.Get(tableMovements, "id")
	}, &from, &to)
}

func (r *MovementRepo) EarliestByProduct(ctx context.Context, productID string) (*time.Time, error) {
	for m, err := range r.ListByProduct(ctx, productID, nil, nil) {
		if err != nil {
			return nil, err
		}
		t := m.CreatedAt
		return &t, nil
	}
	return nil, nil
}

func (r *MovementRepo) DeleteByRange(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.write(func(txn *gomemdb.Txn) error {
		it, err := txn.Get(tableMovements, "id")
		if err != nil {
			return fmt.Errorf("delete movements: %w", err)
		}
		var victims []*entity.StockMovement
		for obj := it.Next(); obj != nil; obj = it.Next() {
			m := obj.(*entity.StockMovement)
			if inRange(m.CreatedAt, &from, &to) {
				victims = append(victims, m)
			}
		}
		for _, m := range victims {
			if err := txn.Delete(tableMovements, m); err != nil {
				return fmt.Errorf("delete movement %s: %w", m.ID, err)
			}
		}
		n = int64(len(victims))
		return nil
	})
	return n, err
}

// list materializa la consulta en cada recorrido y entrega en orden (CreatedAt, Seq).
func (r *MovementRepo) list(ctx context.Context, query func(*gomemdb.Txn) (gomemdb.ResultIterator, error), from, to *time.Time) iter.Seq2[*entity.StockMovement, error] {
	return func(yield func(*entity.StockMovement, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}
		it, err := query(r.read())
		if err != nil {
			yield(nil, fmt.Errorf("list movements: %w", err))
			return
		}
		var list []*entity.StockMovement
		for obj := it.Next(); obj != nil; obj = it.Next() {
			m := *obj.(*entity.StockMovement)
			if inRange(m.CreatedAt, from, to) {
				list = append(list, &m)
			}
		}
		sort.Slice(list, func(i, j int) bool { return list[i].Before(list[j]) })
		for _, m := range list {
			if !yield(m, nil) {
				return
			}
		}
	}
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && !t.Before(*to) {
		return false
	}
	return true
}
