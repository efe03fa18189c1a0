package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ProductRepository puerto hacia el catálogo de productos (DIP).
// GetByID devuelve nil, nil si el producto no existe.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	// GetBySKU devuelve nil, nil si no existe.
	GetBySKU(ctx context.Context, sku string) (*entity.Product, error)
	// GetForUpdate lee el producto reservando la fila hasta el fin de la transacción (SELECT FOR UPDATE o equivalente).
	GetForUpdate(ctx context.Context, id string) (*entity.Product, error)
	// SetStock solo lo invoca el agregador de stock.
	SetStock(ctx context.Context, id string, stock int64) error
	List(ctx context.Context) ([]*entity.Product, error)
}
