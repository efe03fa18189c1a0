package redis

import (
	"context"
	"encoding/json"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo JSON por entrada más un zset global y otro por categoría.
type ActivityLogRepo struct{ base }

func (r *ActivityLogRepo) Create(ctx context.Context, a *entity.ActivityLog) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("marshal activity: %w", err)
	}
	z := goredis.Z{Score: score(a.CreatedAt), Member: a.ID}
	return r.write(ctx, func(ctx context.Context, pipe goredis.Pipeliner) {
		pipe.Set(ctx, r.s.keys.activity(a.ID), data, 0)
		pipe.ZAdd(ctx, r.s.keys.activities(""), z)
		if a.Category != "" {
			pipe.ZAdd(ctx, r.s.keys.activities(a.Category), z)
		}
	})
}

func (r *ActivityLogRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.ActivityLog, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(offset + limit - 1)
	}
	ids, err := r.r().ZRevRange(ctx, r.s.keys.activities(category), int64(offset), stop).Result()
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	list := make([]*entity.ActivityLog, 0, len(ids))
	if len(ids) == 0 {
		return list, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.s.keys.activity(id)
	}
	vals, err := r.r().MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var a entity.ActivityLog
		if err := json.Unmarshal([]byte(s), &a); err != nil {
			return nil, fmt.Errorf("decode activity: %w", err)
		}
		list = append(list, &a)
	}
	return list, nil
}
