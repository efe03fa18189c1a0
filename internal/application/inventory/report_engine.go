package inventory

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// LedgerDrift discrepancia entre el cierre calculado desde el libro y el stock vivo del producto.
// Es una advertencia para revisión del operador, nunca un error.
type LedgerDrift struct {
	ProductID   string
	ProductName string
	Period      domaininv.Period
	Computed    int64
	Live        int64
}

// Difference Computed - Live.
func (d LedgerDrift) Difference() int64 { return d.Computed - d.Live }

// ProductReport resumen de un producto en un periodo más los datos de control.
type ProductReport struct {
	domaininv.Summary
	CurrentStock int64
	Drift        *LedgerDrift
}

// PeriodReport reporte de todos los productos (vista de tablero).
type PeriodReport struct {
	Period      domaininv.Period
	Items       []*ProductReport
	Totals      domaininv.Totals
	Drifts      []LedgerDrift
	GeneratedAt time.Time
}

// driftReads veces que se repite el cálculo del periodo actual si el stock cambia mientras se recorre el libro.
const driftReads = 3

// ReportEngine recalcula reportes de periodo desde el libro en cada consulta (sin estado cacheado).
// No toma locks: lee datos confirmados, por lo que nunca observa un movimiento a medio aplicar.
// Las lecturas no comparten snapshot; la verificación de drift lo compensa releyendo el producto.
type ReportEngine struct {
	movements repository.MovementRepository
	openings  *OpeningBalanceStore
	products  repository.ProductRepository
	now       func() time.Time
	workers   int
	logger    zerolog.Logger
}

// ReportConfig parámetros del motor de reportes.
type ReportConfig struct {
	Workers int // productos calculados en paralelo en el reporte general
	Now     func() time.Time
	Logger  zerolog.Logger
}

// NewReportEngine construye el motor.
func NewReportEngine(
	movements repository.MovementRepository,
	openings *OpeningBalanceStore,
	products repository.ProductRepository,
	cfg ReportConfig,
) *ReportEngine {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ReportEngine{
		movements: movements,
		openings:  openings,
		products:  products,
		now:       cfg.Now,
		workers:   cfg.Workers,
		logger:    cfg.Logger,
	}
}

// ProductReport calcula {apertura, entradas, salidas, ajuste, cierre} del producto en el periodo.
//
// Apertura: valor fijado para (producto, periodo); si no existe, cierre del periodo anterior; sin historia previa, 0.
// En lugar de recursión se recorre hacia adelante desde el primer periodo con datos (movimiento o apertura
// fijada), calculando cada mes una sola vez. El costo es lineal en meses más movimientos, así que no se
// recorta la historia: un producto inactivo por años arrastra su cierre real.
func (e *ReportEngine) ProductReport(ctx context.Context, productID string, period domaininv.Period) (*ProductReport, error) {
	product, err := e.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return e.productReport(ctx, product, period)
}

// productReport en el periodo actual compara el cierre con el stock vivo. Solo lo hace si el producto
// no cambió entre la lectura inicial y la relectura posterior al recorrido; si cambió, un movimiento
// concurrente pudo quedar dentro o fuera del recorrido y se recalcula con el producto releído.
func (e *ReportEngine) productReport(ctx context.Context, product *entity.Product, period domaininv.Period) (*ProductReport, error) {
	current := period == domaininv.PeriodOf(e.now())
	for attempt := 1; ; attempt++ {
		rep, err := e.walk(ctx, product, period)
		if err != nil {
			return nil, err
		}
		if !current {
			return rep, nil
		}
		after, err := e.products.GetByID(ctx, product.ID)
		if err != nil {
			return nil, err
		}
		if after == nil {
			return nil, domain.ErrProductNotFound
		}
		if unchanged(product, after) {
			e.checkDrift(rep, product, period)
			return rep, nil
		}
		if attempt == driftReads {
			e.logger.Debug().
				Str("product_id", product.ID).
				Str("period", period.String()).
				Int("attempts", attempt).
				Msg("stock en movimiento durante el reporte; se omite la verificación de drift")
			rep.CurrentStock = after.CurrentStock
			return rep, nil
		}
		product = after
	}
}

func (e *ReportEngine) walk(ctx context.Context, product *entity.Product, period domaininv.Period) (*ProductReport, error) {
	overrides, earliestOverride, err := e.openings.byPeriod(ctx, product.ID)
	if err != nil {
		return nil, err
	}
	earliestMov, err := e.movements.EarliestByProduct(ctx, product.ID)
	if err != nil {
		return nil, err
	}

	start, ok := earliestPeriod(earliestMov, earliestOverride)
	if !ok || period.Before(start) {
		// Sin historia hasta el periodo pedido.
		start = period
	}

	w := newPeriodWalk(product, start, overrides)
	from, to := start.Start(), period.End()
	for m, err := range e.movements.ListByProduct(ctx, product.ID, &from, &to) {
		if err != nil {
			return nil, err
		}
		w.advanceTo(domaininv.PeriodOf(m.CreatedAt))
		w.cur.Apply(m)
	}
	w.advanceTo(period)

	rep := &ProductReport{
		Summary:      *w.cur,
		CurrentStock: product.CurrentStock,
	}
	rep.ProductName = product.Name
	return rep, nil
}

func (e *ReportEngine) checkDrift(rep *ProductReport, product *entity.Product, period domaininv.Period) {
	if rep.ClosingStock == product.CurrentStock {
		return
	}
	rep.Drift = &LedgerDrift{
		ProductID:   product.ID,
		ProductName: product.Name,
		Period:      period,
		Computed:    rep.ClosingStock,
		Live:        product.CurrentStock,
	}
	e.logger.Warn().
		Str("product_id", product.ID).
		Str("period", period.String()).
		Int64("computed_closing", rep.ClosingStock).
		Int64("current_stock", product.CurrentStock).
		Msg("ledger drift: el cierre calculado no coincide con el stock actual")
}

// unchanged todo cambio de stock confirmado actualiza UpdatedAt, así que dos lecturas iguales
// encierran un libro sin escrituras del producto.
func unchanged(before, after *entity.Product) bool {
	return before.CurrentStock == after.CurrentStock && before.UpdatedAt.Equal(after.UpdatedAt)
}

// PeriodReport reporte de todos los productos del catálogo en el periodo.
func (e *ReportEngine) PeriodReport(ctx context.Context, period domaininv.Period) (*PeriodReport, error) {
	products, err := e.products.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]*ProductReport, len(products))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range products {
		g.Go(func() error {
			rep, err := e.productReport(gctx, p, period)
			if err != nil {
				return err
			}
			items[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &PeriodReport{Period: period, Items: items, GeneratedAt: e.now().UTC()}
	summaries := make([]*domaininv.Summary, 0, len(items))
	for _, it := range items {
		summaries = append(summaries, &it.Summary)
		if it.Drift != nil {
			out.Drifts = append(out.Drifts, *it.Drift)
		}
	}
	out.Totals = domaininv.Sum(summaries)
	return out, nil
}

// periodWalk recorre los meses hacia adelante encadenando cierre → apertura.
type periodWalk struct {
	productID string
	overrides map[domaininv.Period]int64
	cur       *domaininv.Summary
}

func newPeriodWalk(product *entity.Product, start domaininv.Period, overrides map[domaininv.Period]int64) *periodWalk {
	w := &periodWalk{productID: product.ID, overrides: overrides}
	if q, ok := overrides[start]; ok {
		w.cur = domaininv.NewSummary(product.ID, start, q, domaininv.OpeningFromOverride)
	} else {
		w.cur = domaininv.NewSummary(product.ID, start, 0, domaininv.OpeningFromNone)
	}
	return w
}

// advanceTo cierra los meses hasta llegar a p. Nunca retrocede.
func (w *periodWalk) advanceTo(p domaininv.Period) {
	for w.cur.Period.Before(p) {
		next := w.cur.Period.Next()
		if q, ok := w.overrides[next]; ok {
			w.cur = domaininv.NewSummary(w.productID, next, q, domaininv.OpeningFromOverride)
			continue
		}
		w.cur = domaininv.NewSummary(w.productID, next, w.cur.ClosingStock, domaininv.OpeningFromCarry)
	}
}

func earliestPeriod(mov *time.Time, override *domaininv.Period) (domaininv.Period, bool) {
	switch {
	case mov == nil && override == nil:
		return domaininv.Period{}, false
	case mov == nil:
		return *override, true
	case override == nil:
		return domaininv.PeriodOf(*mov), true
	}
	mp := domaininv.PeriodOf(*mov)
	if override.Before(mp) {
		return *override, true
	}
	return mp, true
}
