package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ inventory.Store = (*Store)(nil)

// reader comandos de lectura comunes a *goredis.Client y *goredis.Tx.
type reader interface {
	Get(ctx context.Context, key string) *goredis.StringCmd
	MGet(ctx context.Context, keys ...string) *goredis.SliceCmd
	Exists(ctx context.Context, keys ...string) *goredis.IntCmd
	HGet(ctx context.Context, key, field string) *goredis.StringCmd
	HGetAll(ctx context.Context, key string) *goredis.MapStringStringCmd
	HVals(ctx context.Context, key string) *goredis.StringSliceCmd
	SMembers(ctx context.Context, key string) *goredis.StringSliceCmd
	ZRangeByScore(ctx context.Context, key string, opt *goredis.ZRangeBy) *goredis.StringSliceCmd
	ZRevRange(ctx context.Context, key string, start, stop int64) *goredis.StringSliceCmd
}

// Store backend Redis. Las escrituras de Run se acumulan y se aplican en un MULTI/EXEC
// condicionado a las claves observadas con WATCH (GetForUpdate).
type Store struct {
	rdb  *goredis.Client
	keys keys
}

// NewStore construye el backend; prefix separa varios libros en la misma base.
func NewStore(rdb *goredis.Client, prefix string) *Store {
	return &Store{rdb: rdb, keys: keys{prefix: nonEmpty(prefix, "ledger")}}
}

func (s *Store) Movements() repository.MovementRepository { return &MovementRepo{base{s: s}} }
func (s *Store) Products() repository.ProductRepository   { return &ProductRepo{base{s: s}} }
func (s *Store) Openings() repository.OpeningBalanceRepository {
	return &OpeningBalanceRepo{base{s: s}}
}
func (s *Store) Activity() repository.ActivityLogRepository { return &ActivityLogRepo{base{s: s}} }

// Run si otro escritor modifica una clave observada antes del EXEC devuelve *domain.ConflictError
// con el producto observado. WATCH no informa quién escribió, así que Holder queda vacío.
func (s *Store) Run(ctx context.Context, fn func(
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	activityRepo repository.ActivityLogRepository,
) error) error {
	var watched string
	err := s.rdb.Watch(ctx, func(tx *goredis.Tx) error {
		st := &txState{tx: tx}
		defer func() { watched = st.productID }()
		b := base{s: s, tx: st}
		if err := fn(&MovementRepo{b}, &ProductRepo{b}, &ActivityLogRepo{b}); err != nil {
			return err
		}
		if len(st.ops) == 0 {
			return nil
		}
		_, err := tx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
			for _, op := range st.ops {
				op(ctx, pipe)
			}
			return nil
		})
		return err
	})
	if errors.Is(err, goredis.TxFailedErr) {
		return &domain.ConflictError{ProductID: watched, Cause: err}
	}
	return err
}

type writeOp func(ctx context.Context, pipe goredis.Pipeliner)

type txState struct {
	tx        *goredis.Tx
	ops       []writeOp
	productID string // último producto observado con GetForUpdate
}

// base repos atados o no a una transacción.
type base struct {
	s  *Store
	tx *txState
}

func (b base) r() reader {
	if b.tx != nil {
		return b.tx.tx
	}
	return b.s.rdb
}

// write dentro de Run acumula; fuera ejecuta en su propio MULTI/EXEC.
func (b base) write(ctx context.Context, ops ...writeOp) error {
	if b.tx != nil {
		b.tx.ops = append(b.tx.ops, ops...)
		return nil
	}
	_, err := b.s.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, op := range ops {
			op(ctx, pipe)
		}
		return nil
	})
	return err
}

// watch solo tiene efecto dentro de Run.
func (b base) watch(ctx context.Context, keys ...string) error {
	if b.tx == nil {
		return nil
	}
	return b.tx.tx.Watch(ctx, keys...).Err()
}

// score microsegundos desde epoch: cabe exacto en un float64 y desempata mejor que milisegundos.
func score(t time.Time) float64 { return float64(t.UnixMicro()) }
