package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.OpeningBalanceRepository = (*OpeningBalanceRepo)(nil)

// OpeningBalanceRepo un hash por producto: campo = periodo, valor = JSON.
type OpeningBalanceRepo struct{ base }

func (r *OpeningBalanceRepo) Upsert(ctx context.Context, b *entity.OpeningBalance) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal opening balance: %w", err)
	}
	return r.write(ctx, func(ctx context.Context, pipe goredis.Pipeliner) {
		pipe.HSet(ctx, r.s.keys.openings(b.ProductID), b.Period, data)
	})
}

func (r *OpeningBalanceRepo) Get(ctx context.Context, productID, period string) (*entity.OpeningBalance, error) {
	raw, err := r.r().HGet(ctx, r.s.keys.openings(productID), period).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get opening balance: %w", err)
	}
	var b entity.OpeningBalance
	if err := json.Unmarshal([]byte(raw), &b); err != nil {
		return nil, fmt.Errorf("decode opening balance: %w", err)
	}
	return &b, nil
}

func (r *OpeningBalanceRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.OpeningBalance, error) {
	vals, err := r.r().HVals(ctx, r.s.keys.openings(productID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list opening balances: %w", err)
	}
	list := make([]*entity.OpeningBalance, 0, len(vals))
	for _, raw := range vals {
		var b entity.OpeningBalance
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("decode opening balance: %w", err)
		}
		list = append(list, &b)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Period < list[j].Period })
	return list, nil
}
