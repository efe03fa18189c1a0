package redis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/bsm/redislock"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

var _ inventory.Locker = (*Locker)(nil)

// holderLookup espera máxima para leer el dueño del lock al reportar un conflicto.
const holderLookup = 500 * time.Millisecond

// Locker exclusión por producto entre procesos con redislock. El TTL acota cuánto
// sobrevive un lock si el proceso dueño muere sin liberarlo.
// El dueño se publica en una clave aparte con el mismo TTL para nombrarlo en los conflictos.
type Locker struct {
	rdb     *goredis.Client
	client  *redislock.Client
	keys    keys
	ttl     time.Duration
	backoff time.Duration
	logger  zerolog.Logger
}

// NewLocker construye el locker; ttl debe superar la duración de la transacción más lenta.
func NewLocker(rdb *goredis.Client, prefix string, ttl time.Duration, logger zerolog.Logger) *Locker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Locker{
		rdb:     rdb,
		client:  redislock.New(rdb),
		keys:    keys{prefix: nonEmpty(prefix, "ledger")},
		ttl:     ttl,
		backoff: 25 * time.Millisecond,
		logger:  logger,
	}
}

// Lock reintenta con backoff lineal hasta obtener el lock o hasta que venza ctx.
func (l *Locker) Lock(ctx context.Context, productID, owner string) (func(), error) {
	lock, err := l.client.Obtain(ctx, l.keys.productLock(productID), l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(l.backoff),
		Metadata:      owner,
	})
	if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
		return nil, &domain.ConflictError{ProductID: productID, Holder: l.holder(productID), Cause: err}
	}
	if err != nil {
		return nil, err
	}

	holderKey := l.keys.lockHolder(productID)
	if err := l.rdb.Set(ctx, holderKey, owner, l.ttl).Err(); err != nil {
		l.logger.Warn().Err(err).Str("product_id", productID).Msg("no se pudo publicar el dueño del lock")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			// ctx puede haber vencido; liberar igual. El dueño se borra antes de soltar el lock.
			bg := context.Background()
			if err := l.rdb.Del(bg, holderKey).Err(); err != nil {
				l.logger.Warn().Err(err).Str("product_id", productID).Msg("no se pudo borrar el dueño del lock")
			}
			if err := lock.Release(bg); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.logger.Warn().Err(err).Str("product_id", productID).Msg("no se pudo liberar el lock")
			}
		})
	}, nil
}

// holder dueño actual del lock; vacío si no se puede leer.
func (l *Locker) holder(productID string) string {
	ctx, cancel := context.WithTimeout(context.Background(), holderLookup)
	defer cancel()
	owner, err := l.rdb.Get(ctx, l.keys.lockHolder(productID)).Result()
	if err != nil && !errors.Is(err, goredis.Nil) {
		l.logger.Debug().Err(err).Str("product_id", productID).Msg("no se pudo leer el dueño del lock")
	}
	return owner
}
