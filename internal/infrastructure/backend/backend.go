// Package backend arma el almacenamiento y el locker según LEDGER_BACKEND y LEDGER_LOCKER.
// Lo comparten la API, ledgerctl y el seeder.
package backend

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memdb"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/postgres"
	ledgerredis "github.com/jhoicas/stock-ledger/internal/infrastructure/redis"
	"github.com/jhoicas/stock-ledger/pkg/config"
)

// Ledger backend abierto. Close libera conexiones y, con memory, guarda el snapshot.
type Ledger struct {
	Store  inventory.Store
	Locker inventory.Locker

	closers []func() error
}

// Open conecta el backend configurado. Con postgres y DB_AUTO_MIGRATE aplica las migraciones antes.
func Open(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Ledger, error) {
	l := &Ledger{}
	var rdb *goredis.Client
	redisClient := func() (*goredis.Client, error) {
		if rdb != nil {
			return rdb, nil
		}
		var err error
		if rdb, err = ledgerredis.NewClient(ctx, cfg.Redis); err != nil {
			return nil, err
		}
		l.closers = append(l.closers, rdb.Close)
		return rdb, nil
	}

	switch cfg.Ledger.Backend {
	case config.BackendPostgres:
		if cfg.DB.AutoMigrate {
			applied, err := postgres.MigrateUp(cfg.DB.ConnectionString())
			if err != nil {
				return nil, err
			}
			logger.Info().Bool("applied", applied).Msg("migraciones de base de datos")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		l.closers = append(l.closers, func() error { pool.Close(); return nil })
		l.Store = postgres.NewStore(pool, cfg.Ledger.LockTimeout)

	case config.BackendMemory:
		store, err := memdb.New()
		if err != nil {
			return nil, err
		}
		if path := cfg.Ledger.SnapshotPath; path != "" {
			if err := store.Load(path); err != nil {
				return nil, fmt.Errorf("cargar snapshot %s: %w", path, err)
			}
			l.closers = append(l.closers, func() error { return store.Save(path) })
			logger.Info().Str("path", path).Msg("snapshot en memoria cargado")
		}
		l.Store = store

	case config.BackendRedis:
		c, err := redisClient()
		if err != nil {
			return nil, err
		}
		l.Store = ledgerredis.NewStore(c, cfg.Redis.Prefix)

	default:
		return nil, fmt.Errorf("backend desconocido: %s", cfg.Ledger.Backend)
	}

	switch cfg.Ledger.Locker {
	case config.LockerRedis:
		c, err := redisClient()
		if err != nil {
			l.Close()
			return nil, err
		}
		l.Locker = ledgerredis.NewLocker(c, cfg.Redis.Prefix, cfg.Ledger.LockTTL, logger)
	default:
		l.Locker = lock.NewKeyedLocker()
	}

	logger.Info().
		Str("backend", cfg.Ledger.Backend).
		Str("locker", cfg.Ledger.Locker).
		Msg("libro de stock listo")
	return l, nil
}

// Service construye el servicio del libro con los parámetros de LedgerConfig.
func (l *Ledger) Service(cfg config.LedgerConfig, logger zerolog.Logger) *inventory.Service {
	return inventory.NewService(l.Store, l.Locker, inventory.Config{
		LockTimeout:   cfg.LockTimeout,
		MaxRetries:    cfg.MaxRetries,
		RetryBackoff:  cfg.RetryBackoff,
		ReportWorkers: cfg.ReportWorkers,
		Logger:        logger,
	})
}

// Close en orden inverso de apertura; devuelve el primer error.
func (l *Ledger) Close() error {
	var first error
	for i := len(l.closers) - 1; i >= 0; i-- {
		if err := l.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	l.closers = nil
	return first
}
