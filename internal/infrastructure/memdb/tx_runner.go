package memdb

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// Run abre una transacción de escritura, ejecuta fn con repos atados a ella y hace Commit o Abort.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	activityRepo repository.ActivityLogRepository,
) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txn := s.db.Txn(true)
	defer txn.Abort()

	b := base{store: s, txn: txn}
	if err := fn(&MovementRepo{b}, &ProductRepo{b}, &ActivityLogRepo{b}); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
