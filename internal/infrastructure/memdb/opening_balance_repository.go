package memdb

import (
	"context"
	"fmt"
	"sort"

	gomemdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.OpeningBalanceRepository = (*OpeningBalanceRepo)(nil)

// OpeningBalanceRepo aperturas por (producto, periodo).
type OpeningBalanceRepo struct{ base }

// Upsert Insert de go-memdb reemplaza el objeto con la misma clave compuesta.
func (r *OpeningBalanceRepo) Upsert(ctx context.Context, balance *entity.OpeningBalance) error {
	return r.write(func(txn *gomemdb.Txn) error {
		cp := *balance
		if err := txn.Insert(tableOpenings, &cp); err != nil {
			return fmt.Errorf("upsert opening balance: %w", err)
		}
		return nil
	})
}

func (r *OpeningBalanceRepo) Get(ctx context.Context, productID, period string) (*entity.OpeningBalance, error) {
	obj, err := r.read().First(tableOpenings, "id", productID, period)
	if err != nil {
		return nil, fmt.Errorf("get opening balance: %w", err)
	}
	if obj == nil {
		return nil, nil
	}
	ob := *obj.(*entity.OpeningBalance)
	return &ob, nil
}

func (r *OpeningBalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.OpeningBalance, error) {
	it, err := r.read().Get(tableOpenings, "product", productID)
	if err != nil {
		return nil, fmt.Errorf("list opening balances: %w", err)
	}
	var list []*entity.OpeningBalance
	for obj := it.Next(); obj != nil; obj = it.Next() {
		ob := *obj.(*entity.OpeningBalance)
		list = append(list, &ob)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Period < list[j].Period })
	return list, nil
}
