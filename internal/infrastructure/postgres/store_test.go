package postgres_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Requiere una base vacía o dedicada: TEST_DATABASE_URL=postgres://...
func newTestStore(t *testing.T) *postgres.Store {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL no definido")
	}
	_, err := postgres.MigrateUp(url)
	require.NoError(t, err)

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return postgres.NewStore(pool, 2*time.Second)
}

func createProduct(t *testing.T, store *postgres.Store, stock int64) *entity.Product {
	t.Helper()
	now := time.Now().UTC()
	p := &entity.Product{ID: uuid.New().String(), Name: "Kopi " + uuid.NewString()[:8], CurrentStock: stock, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.Products().Create(context.Background(), p))
	return p
}

func TestStore_ConcurrentSales(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := createProduct(t, store, 0)

	svc := inventory.NewService(store, lock.NewKeyedLocker(), inventory.Config{LockTimeout: 5 * time.Second, MaxRetries: 3})
	actor := inventory.Actor{UserID: "u-1", UserName: "Kasir"}
	_, err := svc.RecordReceipt(ctx, p.ID, 10, "Pembelian", "", "", actor)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	ok := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.RecordSale(ctx, p.ID, 1, "", actor); err == nil {
				mu.Lock()
				ok++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got.CurrentStock)

	history, err := svc.GetMovementHistory(ctx, p.ID, domaininv.Period{})
	require.NoError(t, err)
	assert.Len(t, history, 11)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].NewStock, history[i].PreviousStock)
	}
}

func TestStore_OpeningBalanceUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	p := createProduct(t, store, 0)
	repo := store.Openings()

	for _, q := range []int64{40, 55} {
		require.NoError(t, repo.Upsert(ctx, &entity.OpeningBalance{
			ProductID: p.ID, Period: "2025-03", Quantity: q, SetBy: "u-1", SetAt: time.Now().UTC(),
		}))
	}
	got, err := repo.Get(ctx, p.ID, "2025-03")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(55), got.Quantity)

	missing, err := repo.Get(ctx, p.ID, "2025-04")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
