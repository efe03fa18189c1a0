package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// OpeningBalanceRepository persistencia de saldos de apertura por (producto, periodo).
type OpeningBalanceRepository interface {
	Upsert(ctx context.Context, balance *entity.OpeningBalance) error
	// Get devuelve nil, nil si no hay valor fijado.
	Get(ctx context.Context, productID, period string) (*entity.OpeningBalance, error)
	// ListByProduct ordenado por periodo ascendente.
	ListByProduct(ctx context.Context, productID string) ([]*entity.OpeningBalance, error)
}
