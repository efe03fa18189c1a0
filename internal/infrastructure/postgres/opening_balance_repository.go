package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.OpeningBalanceRepository = (*OpeningBalanceRepo)(nil)

// OpeningBalanceRepo aperturas fijadas por (producto, periodo).
type OpeningBalanceRepo struct {
	q Querier
}

func NewOpeningBalanceRepository(q Querier) *OpeningBalanceRepo {
	return &OpeningBalanceRepo{q: q}
}

// Upsert la última escritura gana.
func (r *OpeningBalanceRepo) Upsert(ctx context.Context, b *entity.OpeningBalance) error {
	query := `
		INSERT INTO opening_balances (product_id, period, quantity, set_by, set_by_name, set_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (product_id, period)
		DO UPDATE SET quantity = EXCLUDED.quantity, set_by = EXCLUDED.set_by,
			set_by_name = EXCLUDED.set_by_name, set_at = EXCLUDED.set_at`
	if _, err := r.q.Exec(ctx, query, b.ProductID, b.Period, b.Quantity, b.SetBy, b.SetByName, b.SetAt); err != nil {
		return fmt.Errorf("upsert opening balance: %w", err)
	}
	return nil
}

func (r *OpeningBalanceRepo) Get(ctx context.Context, productID, period string) (*entity.OpeningBalance, error) {
	query := `
		SELECT product_id, period, quantity, set_by, set_by_name, set_at
		FROM opening_balances WHERE product_id = $1 AND period = $2`
	var b entity.OpeningBalance
	err := r.q.QueryRow(ctx, query, productID, period).Scan(
		&b.ProductID, &b.Period, &b.Quantity, &b.SetBy, &b.SetByName, &b.SetAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get opening balance: %w", err)
	}
	return &b, nil
}

func (r *OpeningBalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.OpeningBalance, error) {
	query := `
		SELECT product_id, period, quantity, set_by, set_by_name, set_at
		FROM opening_balances WHERE product_id = $1 ORDER BY period`
	rows, err := r.q.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list opening balances: %w", err)
	}
	defer rows.Close()
	var list []*entity.OpeningBalance
	for rows.Next() {
		var b entity.OpeningBalance
		if err := rows.Scan(&b.ProductID, &b.Period, &b.Quantity, &b.SetBy, &b.SetByName, &b.SetAt); err != nil {
			return nil, fmt.Errorf("scan opening balance: %w", err)
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
