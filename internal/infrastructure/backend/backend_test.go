package backend_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/backend"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

func memoryConfig(path string) *config.Config {
	return &config.Config{Ledger: config.LedgerConfig{
		Backend:       config.BackendMemory,
		Locker:        config.LockerLocal,
		SnapshotPath:  path,
		ReportWorkers: 2,
	}}
}

func TestOpen_MemoryPersisteSnapshot(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "ledger.json")
	cfg := memoryConfig(path)

	l, err := backend.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	svc := l.Service(cfg.Ledger, zerolog.Nop())
	p, err := svc.CreateProduct(ctx, "SKU-1", "Kopi")
	require.NoError(t, err)
	_, err = svc.RecordReceipt(ctx, p.ID, 12, "Pembelian", "", "", inventory.Actor{UserID: "u"})
	require.NoError(t, err)
	require.NoError(t, l.Close())

	reopened, err := backend.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Service(cfg.Ledger, zerolog.Nop()).GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), got.CurrentStock)
}

func TestOpen_BackendDesconocido(t *testing.T) {
	cfg := memoryConfig("")
	cfg.Ledger.Backend = "sqlite"
	_, err := backend.Open(context.Background(), cfg, zerolog.Nop())
	assert.Error(t, err)
}
