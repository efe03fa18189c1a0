package repository

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// ActivityLogRepository registro de actividad de inventario.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *entity.ActivityLog) error
	// List más recientes primero; category vacío = todas.
	List(ctx context.Context, category string, limit, offset int) ([]*entity.ActivityLog, error)
}
