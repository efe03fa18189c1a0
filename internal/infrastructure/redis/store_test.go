package redis_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	ledgerredis "github.com/jhoicas/stock-ledger/internal/infrastructure/redis"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

type env struct {
	store  *ledgerredis.Store
	locker *ledgerredis.Locker
}

// Requiere TEST_REDIS_ADDR; cada prueba usa un prefijo propio y lo borra al terminar.
func newEnv(t *testing.T) env {
	t.Helper()
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR no definido")
	}
	ctx := context.Background()
	rdb, err := ledgerredis.NewClient(ctx, config.RedisConfig{Addr: addr, PoolSize: 20})
	require.NoError(t, err)
	prefix := "test-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		iter := rdb.Scan(ctx, 0, prefix+":*", 500).Iterator()
		for iter.Next(ctx) {
			rdb.Del(ctx, iter.Val())
		}
		_ = rdb.Close()
	})
	return env{
		store:  ledgerredis.NewStore(rdb, prefix),
		locker: ledgerredis.NewLocker(rdb, prefix, 5*time.Second, zerolog.Nop()),
	}
}

func TestRedisStore_ConcurrentSales(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, e.store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Kopi", CreatedAt: now, UpdatedAt: now}))

	svc := inventory.NewService(e.store, e.locker, inventory.Config{LockTimeout: 5 * time.Second, MaxRetries: 3})
	actor := inventory.Actor{UserID: "u-1", UserName: "Kasir"}
	_, err := svc.RecordReceipt(ctx, "p1", 10, "Pembelian", "", "", actor)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 15; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RecordSale(ctx, "p1", 1, "", actor); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	p, err := svc.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.CurrentStock)

	acts, err := svc.ListActivity(ctx, entity.ActivityCategoryStock, 0, 0)
	require.NoError(t, err)
	assert.Len(t, acts, 11)
}

func TestRedisStore_MovementOrderAndRange(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	repo := e.store.Movements()
	at := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"m1", "m2", "m3"} {
		m := &entity.StockMovement{ID: id, ProductID: "p1", Type: entity.MovementTypeIn, Quantity: 1, Reason: "x",
			CreatedAt: at.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Append(ctx, m))
	}
	to := at.Add(2 * time.Hour)
	list, err := inventory.Collect(repo.ListByProduct(ctx, "p1", &at, &to))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "m1", list[0].ID)
	assert.Equal(t, "m2", list[1].ID)

	n, err := repo.DeleteByRange(ctx, at, to)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestRedisLocker_Timeout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	unlock, err := e.locker.Lock(ctx, "p1", "kasir-1")
	require.NoError(t, err)
	defer unlock()

	waitCtx, cancel := context.WithTimeout(ctx, 100*time.Millisecond)
	defer cancel()
	_, err = e.locker.Lock(waitCtx, "p1", "kasir-2")
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "p1", conflict.ProductID)
	assert.Equal(t, "kasir-1", conflict.Holder)
	assert.Contains(t, err.Error(), "kasir-1")

	_, err = e.locker.Lock(ctx, "p2", "kasir-2")
	assert.NoError(t, err)
}

func TestRedisStore_ConflictoNombraElProducto(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, e.store.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Kopi", CurrentStock: 5, CreatedAt: now, UpdatedAt: now}))

	err := e.store.Run(ctx, func(
		_ repository.MovementRepository,
		productRepo repository.ProductRepository,
		_ repository.ActivityLogRepository,
	) error {
		if _, err := productRepo.GetForUpdate(ctx, "p1"); err != nil {
			return err
		}
		// Otro escritor cambia el producto observado antes del EXEC.
		if err := e.store.Products().SetStock(ctx, "p1", 9); err != nil {
			return err
		}
		return productRepo.SetStock(ctx, "p1", 4)
	})
	assert.ErrorIs(t, err, domain.ErrConcurrencyConflict)
	var conflict *domain.ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "p1", conflict.ProductID)

	p, err := e.store.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(9), p.CurrentStock)
}
