// seed carga el catálogo inicial desde un CSV exportado de la caja o de una hoja de cálculo.
// Cada fila crea el producto (si su SKU no existe) y registra un movimiento de apertura
// con la cantidad indicada.
//
// Uso: go run ./cmd/seed [-encoding windows-1252] [-period AAAA-MM] productos.csv
// Formato: sku;nombre;cantidad (separador ; o ,, primera fila de encabezados opcional).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/infrastructure/backend"
	"github.com/jhoicas/stock-ledger/pkg/config"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

func main() {
	encoding := flag.String("encoding", "utf-8", "codificación del CSV: utf-8, windows-1252 o iso-8859-1")
	periodFlag := flag.String("period", "", "además fija la apertura de este periodo AAAA-MM")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-encoding enc] [-period AAAA-MM] productos.csv")
		os.Exit(2)
	}

	var period domaininv.Period
	if *periodFlag != "" {
		p, err := domaininv.ParsePeriod(*periodFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Periodo: %v\n", err)
			os.Exit(2)
		}
		period = p
	}

	f, err := os.Open(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, err := readRows(f, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Output: os.Stderr})

	ctx := context.Background()
	ledger, err := backend.Open(ctx, cfg, log.Component("backend"))
	if err != nil {
		log.Fatal().Err(err).Msg("abrir backend")
	}
	svc := ledger.Service(cfg.Ledger, log.Component("ledger"))

	res, err := seed(ctx, svc, rows, period)
	if cerr := ledger.Close(); cerr != nil {
		log.Error().Err(cerr).Msg("cerrar backend")
	}
	if err != nil {
		log.Fatal().Err(err).Msg("seed interrumpido")
	}
	fmt.Printf("Productos creados: %d, existentes: %d, aperturas: %d\n", res.created, res.existing, res.openings)
}

type seedResult struct {
	created, existing, openings int
}

var seedActor = inventory.Actor{UserID: "seed", UserName: "Carga inicial"}

// seed es idempotente por SKU: los productos existentes no reciben una segunda apertura.
func seed(ctx context.Context, svc *inventory.Service, rows []productRow, period domaininv.Period) (seedResult, error) {
	var res seedResult
	products, err := svc.ListProducts(ctx)
	if err != nil {
		return res, err
	}
	bySKU := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		if p.SKU != "" {
			bySKU[strings.ToUpper(p.SKU)] = p
		}
	}

	for _, r := range rows {
		if _, ok := bySKU[strings.ToUpper(r.SKU)]; ok {
			res.existing++
			continue
		}
		p, err := svc.CreateProduct(ctx, r.SKU, r.Name)
		if err != nil {
			return res, fmt.Errorf("línea %d (%s): %w", r.Line, r.SKU, err)
		}
		bySKU[strings.ToUpper(r.SKU)] = p
		res.created++

		if r.Quantity > 0 {
			if _, err := svc.RecordOpening(ctx, p.ID, r.Quantity, "carga inicial", seedActor); err != nil {
				return res, fmt.Errorf("línea %d (%s): apertura: %w", r.Line, r.SKU, err)
			}
			res.openings++
		}
		if !period.IsZero() {
			if _, err := svc.SetOpeningStock(ctx, p.ID, period, r.Quantity, seedActor); err != nil {
				return res, fmt.Errorf("línea %d (%s): apertura %s: %w", r.Line, r.SKU, period, err)
			}
		}
	}
	return res, nil
}
