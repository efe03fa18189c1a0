package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo registro de actividad; Details se guarda como JSONB.
type ActivityLogRepo struct {
	q Querier
}

func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

func (r *ActivityLogRepo) Create(ctx context.Context, a *entity.ActivityLog) error {
	details, err := json.Marshal(a.Details)
	if err != nil {
		return fmt.Errorf("marshal activity details: %w", err)
	}
	query := `
		INSERT INTO activity_logs (id, category, action, description, user_id, user_name, details, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	if _, err := r.q.Exec(ctx, query,
		a.ID, a.Category, a.Action, a.Description, a.UserID, a.UserName, details, a.CreatedAt,
	); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

func (r *ActivityLogRepo) List(ctx context.Context, category string, limit, offset int) ([]*entity.ActivityLog, error) {
	query := `
		SELECT id, category, action, description, user_id, user_name, details, created_at
		FROM activity_logs`
	args := []any{}
	pos := 1
	if category != "" {
		query += fmt.Sprintf(" WHERE category = $%d", pos)
		args = append(args, category)
		pos++
	}
	query += " ORDER BY created_at DESC, id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", pos)
		args = append(args, limit)
		pos++
	}
	if offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", pos)
		args = append(args, offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()
	var list []*entity.ActivityLog
	for rows.Next() {
		var a entity.ActivityLog
		var details []byte
		if err := rows.Scan(&a.ID, &a.Category, &a.Action, &a.Description, &a.UserID, &a.UserName, &details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &a.Details); err != nil {
				return nil, fmt.Errorf("unmarshal activity details: %w", err)
			}
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
