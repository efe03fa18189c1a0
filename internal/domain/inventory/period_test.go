package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

func TestParsePeriod(t *testing.T) {
	p, err := inventory.ParsePeriod("2025-03")
	require.NoError(t, err)
	assert.Equal(t, 2025, p.Year)
	assert.Equal(t, time.March, p.Month)
	assert.Equal(t, "2025-03", p.String())

	for _, bad := range []string{"", "2025-13", "2025/03", "25-03", "2025-3"} {
		_, err := inventory.ParsePeriod(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidPeriod, bad)
	}
}

func TestPeriod_LimitesUTC(t *testing.T) {
	p := inventory.MustParsePeriod("2024-12")
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), p.Start())
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), p.End())

	assert.True(t, p.Contains(time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)))
	assert.False(t, p.Contains(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))

	// 2025-01-01 02:00 en UTC+7 es 2024-12-31 19:00 UTC
	jakarta := time.FixedZone("WIB", 7*3600)
	assert.True(t, p.Contains(time.Date(2025, 1, 1, 2, 0, 0, 0, jakarta)))
}

func TestPeriod_Navegacion(t *testing.T) {
	p := inventory.MustParsePeriod("2025-01")
	assert.Equal(t, "2024-12", p.Prev().String())
	assert.Equal(t, "2025-02", p.Next().String())
	assert.Equal(t, "2023-11", p.AddMonths(-14).String())
	assert.True(t, p.Prev().Before(p))
	assert.Equal(t, 14, p.MonthsSince(p.AddMonths(-14)))
	assert.Equal(t, "2025-01", inventory.PeriodOf(time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)).String())
}
