package memdb

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"time"

	gomemdb "github.com/hashicorp/go-memdb"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo registro de actividad en memoria.
type ActivityLogRepo struct{ base }

func (r *ActivityLogRepo) Create(ctx context.Context, log *entity.ActivityLog) error {
	return r.write(func(txn *gomemdb.Txn) error {
		cp := *log
		cp.Details = maps.Clone(log.Details)
		if err := txn.Insert(tableActivities, &cp); err != nil {
			return fmt.Errorf("create activity log: %w", err)
		}
		return nil
	})
}

func (r *ActivityLogRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.ActivityLog, error) {
	it, err := r.read().Get(tableActivities, "id")
	if err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	var list []*entity.ActivityLog
	for obj := it.Next(); obj != nil; obj = it.Next() {
		a := *obj.(*entity.ActivityLog)
		if category != "" && a.Category != category {
			continue
		}
		a.Details = maps.Clone(a.Details)
		list = append(list, &a)
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	if offset >= len(list) {
		return []*entity.ActivityLog{}, nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list, nil
}

func nowUTC() time.Time { return time.Now().UTC() }
