package inventory

import (
	"context"

	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción del almacenamiento, pasando repositorios atados a esa tx.
// Garantiza atomicidad para el agregador de stock: movimiento, stock y actividad se confirman juntos o nada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		activityRepo repository.ActivityLogRepository,
	) error) error
}

// Locker exclusión mutua por producto. Mutaciones de productos distintos no se bloquean entre sí.
// Lock espera hasta obtener el acceso o hasta que ctx venza; owner identifica al escritor para los
// mensajes de conflicto. unlock debe llamarse exactamente una vez.
type Locker interface {
	Lock(ctx context.Context, productID, owner string) (unlock func(), err error)
}

// Actor usuario que ejecuta la mutación.
type Actor struct {
	UserID   string
	UserName string
}

// String etiqueta legible del actor para logs y conflictos.
func (a Actor) String() string {
	if a.UserName != "" {
		return a.UserName
	}
	return a.UserID
}

// Store backend de almacenamiento completo (postgres, memdb o redis).
// Los repositorios devueltos leen datos confirmados; las escrituras del agregador pasan por Run.
type Store interface {
	TxRunner
	Movements() repository.MovementRepository
	Products() repository.ProductRepository
	Openings() repository.OpeningBalanceRepository
	Activity() repository.ActivityLogRepository
}
