package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

var _ repository.MovementRepository = (*MovementRepo)(nil)

// tamaño de lote de MGET al recorrer índices.
const batchSize = 256

// MovementRepo cada movimiento es un JSON; los índices son zsets con score = CreatedAt en µs
// y miembro "seq:id" con seq de ancho fijo, de modo que ZRANGE entrega (CreatedAt, Seq).
type MovementRepo struct{ base }

// Append toma Seq con INCR fuera de la transacción: un Abort deja huecos pero nunca repite.
func (r *MovementRepo) Append(ctx context.Context, m *entity.StockMovement) error {
	seq, err := r.s.rdb.Incr(ctx, r.s.keys.movementSeq()).Result()
	if err != nil {
		return fmt.Errorf("movement seq: %w", err)
	}
	m.Seq = seq
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshal movement: %w", err)
	}
	member := indexMember(m)
	sc := score(m.CreatedAt)
	return r.write(ctx, func(ctx context.Context, pipe goredis.Pipeliner) {
		pipe.Set(ctx, r.s.keys.movement(m.ID), data, 0)
		pipe.ZAdd(ctx, r.s.keys.movementsOf(m.ProductID), goredis.Z{Score: sc, Member: member})
		pipe.ZAdd(ctx, r.s.keys.movementsAll(), goredis.Z{Score: sc, Member: member})
	})
}

func (r *MovementRepo) ListByProduct(ctx context.Context, productID string, from, to *time.Time) iter.Seq2[*entity.StockMovement, error] {
	return r.scan(ctx, r.s.keys.movementsOf(productID), from, to)
}

func (r *MovementRepo) ListByRange(ctx context.Context, from, to time.Time) iter.Seq2[*entity.StockMovement, error] {
	return r.scan(ctx, r.s.keys.movementsAll(), &from, &to)
}

func (r *MovementRepo) EarliestByProduct(ctx context.Context, productID string) (*time.Time, error) {
	for m, err := range r.scan(ctx, r.s.keys.movementsOf(productID), nil, nil) {
		if err != nil {
			return nil, err
		}
		t := m.CreatedAt
		return &t, nil
	}
	return nil, nil
}

func (r *MovementRepo) DeleteByRange(ctx context.Context, from, to time.Time) (int64, error) {
	var victims []*entity.StockMovement
	for m, err := range r.scan(ctx, r.s.keys.movementsAll(), &from, &to) {
		if err != nil {
			return 0, err
		}
		victims = append(victims, m)
	}
	if len(victims) == 0 {
		return 0, nil
	}
	err := r.write(ctx, func(ctx context.Context, pipe goredis.Pipeliner) {
		for _, m := range victims {
			member := indexMember(m)
			pipe.Del(ctx, r.s.keys.movement(m.ID))
			pipe.ZRem(ctx, r.s.keys.movementsOf(m.ProductID), member)
			pipe.ZRem(ctx, r.s.keys.movementsAll(), member)
		}
	})
	if err != nil {
		return 0, fmt.Errorf("delete movements: %w", err)
	}
	return int64(len(victims)), nil
}

// scan lee el índice en [from, to) y carga los JSON por lotes en cada recorrido.
func (r *MovementRepo) scan(ctx context.Context, index string, from, to *time.Time) iter.Seq2[*entity.StockMovement, error] {
	return func(yield func(*entity.StockMovement, error) bool) {
		rng := &goredis.ZRangeBy{Min: "-inf", Max: "+inf"}
		if from != nil {
			rng.Min = strconv.FormatInt(from.UnixMicro(), 10)
		}
		if to != nil {
			rng.Max = "(" + strconv.FormatInt(to.UnixMicro(), 10)
		}
		members, err := r.r().ZRangeByScore(ctx, index, rng).Result()
		if err != nil {
			yield(nil, fmt.Errorf("list movements: %w", err))
			return
		}
		for start := 0; start < len(members); start += batchSize {
			end := min(start+batchSize, len(members))
			keys := make([]string, 0, end-start)
			for _, member := range members[start:end] {
				keys = append(keys, r.s.keys.movement(idFromMember(member)))
			}
			vals, err := r.r().MGet(ctx, keys...).Result()
			if err != nil {
				yield(nil, fmt.Errorf("load movements: %w", err))
				return
			}
			for _, v := range vals {
				s, ok := v.(string)
				if !ok {
					continue // purgado entre ZRANGE y MGET
				}
				var m entity.StockMovement
				if err := json.Unmarshal([]byte(s), &m); err != nil {
					yield(nil, fmt.Errorf("decode movement: %w", err))
					return
				}
				if !yield(&m, nil) {
					return
				}
			}
		}
	}
}

func indexMember(m *entity.StockMovement) string {
	return fmt.Sprintf("%020d:%s", m.Seq, m.ID)
}

func idFromMember(member string) string {
	if len(member) > 21 && member[20] == ':' {
		return member[21:]
	}
	return member
}
