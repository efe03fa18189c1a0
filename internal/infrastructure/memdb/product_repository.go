package memdb

import (
	"context"
	"fmt"
	"sort"

	gomemdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo catálogo mínimo en memoria.
type ProductRepo struct{ base }

func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return r.write(func(txn *gomemdb.Txn) error {
		existing, err := txn.First(tableProducts, "id", product.ID)
		if err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		if existing != nil {
			return domain.ErrInvalidInput
		}
		cp := *product
		if err := txn.Insert(tableProducts, &cp); err != nil {
			return fmt.Errorf("create product: %w", err)
		}
		return nil
	})
}

func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return r.first(r.read(), "id", id)
}

func (r *ProductRepo) GetBySKU(ctx context.Context, sku string) (*entity.Product, error) {
	if sku == "" {
		return nil, nil
	}
	return r.first(r.read(), "sku", sku)
}

// GetForUpdate dentro de Run la transacción de escritura ya es exclusiva.
func (r *ProductRepo) GetForUpdate(ctx context.Context, id string) (*entity.Product, error) {
	return r.GetByID(ctx, id)
}

func (r *ProductRepo) SetStock(ctx context.Context, id string, stock int64) error {
	return r.write(func(txn *gomemdb.Txn) error {
		p, err := r.first(txn, "id", id)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.ErrProductNotFound
		}
		p.CurrentStock = stock
		p.UpdatedAt = nowUTC()
		if err := txn.Insert(tableProducts, p); err != nil {
			return fmt.Errorf("set stock: %w", err)
		}
		return nil
	})
}

func (r *ProductRepo) List(ctx context.Context) ([]*entity.Product, error) {
	it, err := r.read().Get(tableProducts, "id")
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var list []*entity.Product
	for obj := it.Next(); obj != nil; obj = it.Next() {
		p := *obj.(*entity.Product)
		list = append(list, &p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (r *ProductRepo) first(txn *gomemdb.Txn, index, value string) (*entity.Product, error) {
	obj, err := txn.First(tableProducts, index, value)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	if obj == nil {
		return nil, nil
	}
	p := *obj.(*entity.Product)
	return &p, nil
}
