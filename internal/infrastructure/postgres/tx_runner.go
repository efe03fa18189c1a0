package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.Store = (*Store)(nil)

// Store backend PostgreSQL: repos sobre el pool para lecturas y Run para las escrituras del agregador.
type Store struct {
	pool        *pgxpool.Pool
	lockTimeout time.Duration
}

// NewStore construye el backend. lockTimeout acota la espera de SELECT FOR UPDATE dentro de Run (0 = sin límite).
func NewStore(pool *pgxpool.Pool, lockTimeout time.Duration) *Store {
	return &Store{pool: pool, lockTimeout: lockTimeout}
}

func (s *Store) Movements() repository.MovementRepository { return NewMovementRepository(s.pool) }
func (s *Store) Products() repository.ProductRepository   { return NewProductRepository(s.pool) }
func (s *Store) Openings() repository.OpeningBalanceRepository {
	return NewOpeningBalanceRepository(s.pool)
}
func (s *Store) Activity() repository.ActivityLogRepository { return NewActivityLogRepository(s.pool) }

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los errores de lock_timeout, serialización o deadlock se devuelven como *domain.ConflictError.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	activityRepo repository.ActivityLogRepository,
) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if s.lockTimeout > 0 {
		// set_config(..., true) equivale a SET LOCAL y admite parámetros.
		ms := fmt.Sprintf("%dms", s.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, `SELECT set_config('lock_timeout', $1, true)`, ms); err != nil {
			return fmt.Errorf("set lock_timeout: %w", err)
		}
	}

	if err := fn(NewMovementRepository(tx), NewProductRepository(tx), NewActivityLogRepository(tx)); err != nil {
		return asConflict(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return asConflict(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
