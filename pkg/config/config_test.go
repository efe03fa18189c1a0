package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/pkg/config"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.BackendPostgres, cfg.Ledger.Backend)
	assert.Equal(t, config.LockerLocal, cfg.Ledger.Locker)
	assert.Equal(t, 5*time.Second, cfg.Ledger.LockTimeout)
	assert.Equal(t, 3, cfg.Ledger.MaxRetries)
	assert.Equal(t, 8, cfg.Ledger.ReportWorkers)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Contains(t, cfg.DB.ConnectionString(), "postgres://postgres:@localhost:5432/stock_ledger")
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("LEDGER_BACKEND", "Memory")
	v.Set("LEDGER_LOCKER", "redis")
	v.Set("LEDGER_LOCK_TIMEOUT", "750ms")
	v.Set("LEDGER_LOCK_TTL", "2000")
	v.Set("LEDGER_MAX_RETRIES", "5")
	v.Set("DATABASE_URL", "postgres://u:p@db:5432/x")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, config.BackendMemory, cfg.Ledger.Backend)
	assert.Equal(t, config.LockerRedis, cfg.Ledger.Locker)
	assert.Equal(t, 750*time.Millisecond, cfg.Ledger.LockTimeout)
	assert.Equal(t, 2*time.Second, cfg.Ledger.LockTTL)
	assert.Equal(t, 5, cfg.Ledger.MaxRetries)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DB.ConnectionString())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  any
	}{
		{"backend desconocido", "LEDGER_BACKEND", "mongo"},
		{"locker desconocido", "LEDGER_LOCKER", "zookeeper"},
		{"reintentos negativos", "LEDGER_MAX_RETRIES", "-1"},
		{"workers cero", "LEDGER_REPORT_WORKERS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			v.Set(tt.key, tt.val)
			_, err := config.FromViper(v)
			assert.Error(t, err)
		})
	}

	v := viper.New()
	v.Set("LEDGER_LOCKER", "redis")
	v.Set("LEDGER_LOCK_TIMEOUT", "10s")
	v.Set("LEDGER_LOCK_TTL", "1s")
	_, err := config.FromViper(v)
	assert.ErrorContains(t, err, "LEDGER_LOCK_TTL")
}
