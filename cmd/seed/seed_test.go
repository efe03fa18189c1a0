package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/lock"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/memdb"
)

func TestReadRows_SemicolonWithHeader(t *testing.T) {
	in := "sku;nombre;cantidad\nK-1;Kopi Susu;12\n\nT-2;Teh Manis;0\n"
	rows, err := readRows(strings.NewReader(in), "utf-8")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, productRow{Line: 2, SKU: "K-1", Name: "Kopi Susu", Quantity: 12}, rows[0])
	assert.Equal(t, "T-2", rows[1].SKU)
}

func TestReadRows_Windows1252(t *testing.T) {
	enc, err := charmap.Windows1252.NewEncoder().String("C-1,Café molido,5\n")
	require.NoError(t, err)
	rows, err := readRows(bytes.NewReader([]byte(enc)), "windows-1252")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Café molido", rows[0].Name)
}

func TestReadRows_Errors(t *testing.T) {
	cases := map[string]string{
		"columnas": "K-1,Kopi\n",
		"cantidad": "K-1,Kopi,1\nK-2,Teh,x\n",
		"negativa": "K-1,Kopi,-1\n",
		"repetido": "K-1,Kopi,1\nk-1,Kopi 2,1\n",
		"sin sku":  ",Kopi,1\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readRows(strings.NewReader(in), "utf-8")
			assert.Error(t, err)
		})
	}
	_, err := readRows(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}

func TestSeed_Idempotente(t *testing.T) {
	ctx := context.Background()
	store, err := memdb.New()
	require.NoError(t, err)
	svc := inventory.NewService(store, lock.NewKeyedLocker(), inventory.Config{
		ReportWorkers: 2, Logger: zerolog.Nop(),
	})
	rows := []productRow{
		{Line: 1, SKU: "K-1", Name: "Kopi", Quantity: 10},
		{Line: 2, SKU: "T-2", Name: "Teh", Quantity: 0},
	}
	period := domaininv.MustParsePeriod("2025-01")

	res, err := seed(ctx, svc, rows, period)
	require.NoError(t, err)
	assert.Equal(t, seedResult{created: 2, openings: 1}, res)

	res, err = seed(ctx, svc, rows, period)
	require.NoError(t, err)
	assert.Equal(t, seedResult{existing: 2}, res)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	for _, p := range products {
		if p.SKU == "K-1" {
			assert.Equal(t, int64(10), p.CurrentStock)
			ob, ok, err := svc.GetOpeningStock(ctx, p.ID, period)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, int64(10), ob.Quantity)
		}
	}
}
