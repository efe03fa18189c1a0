package memdb_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memdb"
)

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func newStore(t *testing.T) *memdb.Store {
	t.Helper()
	s, err := memdb.New()
	require.NoError(t, err)
	return s
}

func appendAt(t *testing.T, repo repository.MovementRepository, id, productID string, at time.Time) *entity.StockMovement {
	t.Helper()
	m := &entity.StockMovement{ID: id, ProductID: productID, Type: entity.MovementTypeIn, Quantity: 1, Reason: "x", CreatedAt: at}
	require.NoError(t, repo.Append(context.Background(), m))
	return m
}

func TestMovementRepo_OrderAndRange(t *testing.T) {
	s := newStore(t)
	repo := s.Movements()
	ctx := context.Background()

	appendAt(t, repo, "m3", "p1", base.Add(2*time.Hour))
	first := appendAt(t, repo, "m1", "p1", base)
	second := appendAt(t, repo, "m2", "p1", base) // mismo instante, desempata Seq
	appendAt(t, repo, "o1", "p2", base.Add(time.Hour))

	assert.Greater(t, second.Seq, first.Seq)

	all, err := inventory.Collect(repo.ListByProduct(ctx, "p1", nil, nil))
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"m1", "m2", "m3"}, []string{all[0].ID, all[1].ID, all[2].ID})

	to := base.Add(2 * time.Hour)
	windowed, err := inventory.Collect(repo.ListByProduct(ctx, "p1", &base, &to))
	require.NoError(t, err)
	assert.Len(t, windowed, 2, "to es excluyente")

	byRange, err := inventory.Collect(repo.ListByRange(ctx, base, base.Add(90*time.Minute)))
	require.NoError(t, err)
	assert.Len(t, byRange, 3)

	earliest, err := repo.EarliestByProduct(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, earliest)
	assert.True(t, earliest.Equal(base))

	none, err := repo.EarliestByProduct(ctx, "p-missing")
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestMovementRepo_DeleteByRange(t *testing.T) {
	s := newStore(t)
	repo := s.Movements()
	ctx := context.Background()

	appendAt(t, repo, "m1", "p1", base)
	appendAt(t, repo, "m2", "p1", base.Add(24*time.Hour))

	n, err := repo.DeleteByRange(ctx, base, base.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := inventory.Collect(repo.ListByProduct(ctx, "p1", nil, nil))
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "m2", left[0].ID)
}

func TestStore_RunAbortsOnError(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Teh", CurrentStock: 5}))

	boom := errors.New("boom")
	err := s.Run(ctx, func(mov repository.MovementRepository, prod repository.ProductRepository, _ repository.ActivityLogRepository) error {
		appendAt(t, mov, "m1", "p1", base)
		require.NoError(t, prod.SetStock(ctx, "p1", 6))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(5), p.CurrentStock)
	left, err := inventory.Collect(s.Movements().ListByProduct(ctx, "p1", nil, nil))
	require.NoError(t, err)
	assert.Empty(t, left)
}

func TestProductRepo(t *testing.T) {
	s := newStore(t)
	repo := s.Products()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p2", SKU: "SKU-2", Name: "Teh"}))
	require.NoError(t, repo.Create(ctx, &entity.Product{ID: "p1", Name: "Kopi"}))
	assert.Error(t, repo.Create(ctx, &entity.Product{ID: "p1", Name: "Otro"}))

	bySKU, err := repo.GetBySKU(ctx, "SKU-2")
	require.NoError(t, err)
	require.NotNil(t, bySKU)
	assert.Equal(t, "p2", bySKU.ID)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Kopi", list[0].Name)

	assert.Error(t, repo.SetStock(ctx, "nope", 1))
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ctx := context.Background()

	s := newStore(t)
	require.NoError(t, s.Products().Create(ctx, &entity.Product{ID: "p1", Name: "Kopi", CurrentStock: 3}))
	appendAt(t, s.Movements(), "m1", "p1", base)
	require.NoError(t, s.Openings().Upsert(ctx, &entity.OpeningBalance{ProductID: "p1", Period: "2025-03", Quantity: 40}))
	require.NoError(t, s.Activity().Create(ctx, &entity.ActivityLog{ID: "a1", Category: "stock", Details: map[string]any{"k": "v"}, CreatedAt: base}))
	require.NoError(t, s.Save(path))

	restored := newStore(t)
	require.NoError(t, restored.Load(path))

	p, err := restored.Products().GetByID(ctx, "p1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, int64(3), p.CurrentStock)

	ob, err := restored.Openings().Get(ctx, "p1", "2025-03")
	require.NoError(t, err)
	require.NotNil(t, ob)
	assert.Equal(t, int64(40), ob.Quantity)

	acts, err := restored.Activity().List(ctx, "stock", 10, 0)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.Equal(t, "v", acts[0].Details["k"])

	// la secuencia continúa después de la restaurada
	next := appendAt(t, restored.Movements(), "m2", "p1", base)
	assert.Greater(t, next.Seq, int64(1))
}

func TestStore_LoadMissingFile(t *testing.T) {
	s := newStore(t)
	assert.NoError(t, s.Load(filepath.Join(t.TempDir(), "nope.json")))
}
