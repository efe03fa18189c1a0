package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// ReasonSale motivo fijo de las salidas por venta.
const ReasonSale = "Penjualan"

// Config parámetros del servicio de libro de stock.
type Config struct {
	LockTimeout   time.Duration
	MaxRetries    int
	RetryBackoff  time.Duration
	ReportWorkers int
	Now           func() time.Time
	Logger        zerolog.Logger
}

// Service fachada del libro de stock expuesta a handlers HTTP, CLI y seeder.
type Service struct {
	store      Store
	aggregator *StockAggregator
	reports    *ReportEngine
	log        *MovementLog
	openings   *OpeningBalanceStore
	maxRetries int
	backoff    time.Duration
	now        func() time.Time
	logger     zerolog.Logger
}

// NewService arma los componentes sobre el backend y el locker dados.
func NewService(store Store, locker Locker, cfg Config) *Service {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 50 * time.Millisecond
	}
	log := NewMovementLog(store.Movements(), cfg.Now)
	openings := NewOpeningBalanceStore(store.Openings(), cfg.Now)
	return &Service{
		store: store,
		aggregator: NewStockAggregator(store, locker, log, openings, store.Products(), AggregatorConfig{
			LockTimeout: cfg.LockTimeout,
			Logger:      cfg.Logger,
		}),
		reports: NewReportEngine(store.Movements(), openings, store.Products(), ReportConfig{
			Workers: cfg.ReportWorkers,
			Now:     cfg.Now,
			Logger:  cfg.Logger,
		}),
		log:        log,
		openings:   openings,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		now:        cfg.Now,
		logger:     cfg.Logger,
	}
}

// CreateProduct registra un producto en el catálogo con stock 0.
// El stock inicial se carga después con RecordOpening o RecordReceipt.
func (s *Service) CreateProduct(ctx context.Context, sku, name string) (*entity.Product, error) {
	sku, name = strings.TrimSpace(sku), strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	if sku != "" {
		existing, err := s.store.Products().GetBySKU(ctx, sku)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, nil
		}
	}
	now := s.now().UTC()
	p := &entity.Product{
		ID:        uuid.New().String(),
		SKU:       sku,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.Products().Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// GetProduct devuelve ErrProductNotFound si no existe.
func (s *Service) GetProduct(ctx context.Context, id string) (*entity.Product, error) {
	p, err := s.store.Products().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

// ListProducts catálogo completo.
func (s *Service) ListProducts(ctx context.Context) ([]*entity.Product, error) {
	return s.store.Products().List(ctx)
}

// RecordSale salida por venta (motivo fijo, referencia = orden).
func (s *Service) RecordSale(ctx context.Context, productID string, quantity int64, orderRef string, actor Actor) (*entity.StockMovement, error) {
	return s.apply(ctx, MovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeOut,
		Quantity:  quantity,
		Reason:    ReasonSale,
		Reference: orderRef,
		Actor:     actor,
	})
}

// RecordReceipt entrada manual de mercancía.
func (s *Service) RecordReceipt(ctx context.Context, productID string, quantity int64, reason, reference, notes string, actor Actor) (*entity.StockMovement, error) {
	return s.apply(ctx, MovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeIn,
		Quantity:  quantity,
		Reason:    reason,
		Reference: reference,
		Notes:     notes,
		Actor:     actor,
	})
}

// RecordWriteOff salida manual (daño, vencimiento, pérdida).
func (s *Service) RecordWriteOff(ctx context.Context, productID string, quantity int64, reason, notes string, actor Actor) (*entity.StockMovement, error) {
	return s.apply(ctx, MovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeOut,
		Quantity:  quantity,
		Reason:    reason,
		Notes:     notes,
		Actor:     actor,
	})
}

// RecordAdjustment lleva el stock a newStock; la cantidad guardada es |newStock - anterior|.
func (s *Service) RecordAdjustment(ctx context.Context, productID string, newStock int64, reason, notes string, actor Actor) (*entity.StockMovement, error) {
	return s.apply(ctx, MovementRequest{
		ProductID:   productID,
		Type:        entity.MovementTypeAdjustment,
		TargetStock: newStock,
		Reason:      reason,
		Notes:       notes,
		Actor:       actor,
	})
}

// RecordOpening movimiento de apertura: el stock vivo pasa a ser quantity.
func (s *Service) RecordOpening(ctx context.Context, productID string, quantity int64, notes string, actor Actor) (*entity.StockMovement, error) {
	if notes == "" {
		notes = "Stock de apertura del periodo"
	}
	return s.apply(ctx, MovementRequest{
		ProductID: productID,
		Type:      entity.MovementTypeOpening,
		Quantity:  quantity,
		Notes:     notes,
		Actor:     actor,
	})
}

// SetOpeningStock fija la apertura de reporte del periodo. No cambia el stock vivo.
func (s *Service) SetOpeningStock(ctx context.Context, productID string, period domaininv.Period, quantity int64, actor Actor) (*entity.OpeningBalance, error) {
	return s.aggregator.ApplyOpeningOverride(ctx, productID, period, quantity, actor)
}

// GetOpeningStock apertura fijada; ok=false si no hay.
func (s *Service) GetOpeningStock(ctx context.Context, productID string, period domaininv.Period) (*entity.OpeningBalance, bool, error) {
	return s.openings.Get(ctx, productID, period)
}

// GetPeriodReport resumen de todos los productos en el periodo.
func (s *Service) GetPeriodReport(ctx context.Context, period domaininv.Period) (*PeriodReport, error) {
	return s.reports.PeriodReport(ctx, period)
}

// GetProductReport resumen de un producto en el periodo.
func (s *Service) GetProductReport(ctx context.Context, productID string, period domaininv.Period) (*ProductReport, error) {
	return s.reports.ProductReport(ctx, productID, period)
}

// GetMovementHistory movimientos del producto en el periodo, en orden cronológico.
// Un periodo vacío devuelve la historia completa.
func (s *Service) GetMovementHistory(ctx context.Context, productID string, period domaininv.Period) ([]*entity.StockMovement, error) {
	if _, err := s.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if period.IsZero() {
		return Collect(s.log.QueryByProduct(ctx, productID, nil, nil))
	}
	from, to := period.Start(), period.End()
	return Collect(s.log.QueryByProduct(ctx, productID, &from, &to))
}

// GetPeriodMovements movimientos de todos los productos en el periodo.
func (s *Service) GetPeriodMovements(ctx context.Context, period domaininv.Period) ([]*entity.StockMovement, error) {
	return Collect(s.log.QueryByPeriod(ctx, period))
}

// ListActivity registro de actividad, más reciente primero.
func (s *Service) ListActivity(ctx context.Context, category string, limit, offset int) ([]*entity.ActivityLog, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.Activity().List(ctx, category, limit, offset)
}

// PurgeMovements borrado administrativo de movimientos en [from, to).
// Los reportes sobre la ventana purgada dejan de ser confiables.
func (s *Service) PurgeMovements(ctx context.Context, from, to time.Time, actor Actor) (int64, error) {
	if !from.Before(to) {
		return 0, domain.ErrInvalidInput
	}
	n, err := s.store.Movements().DeleteByRange(ctx, from.UTC(), to.UTC())
	if err != nil {
		return 0, err
	}
	s.logger.Warn().
		Time("from", from).
		Time("to", to).
		Int64("deleted", n).
		Str("user", actor.String()).
		Msg("movimientos purgados")
	return n, nil
}

// apply ejecuta la mutación reintentando conflictos de concurrencia con espera lineal.
func (s *Service) apply(ctx context.Context, req MovementRequest) (*entity.StockMovement, error) {
	for attempt := 0; ; attempt++ {
		mov, err := s.aggregator.ApplyMovement(ctx, req)
		if err == nil || !domain.IsRetryable(err) || attempt >= s.maxRetries {
			return mov, err
		}
		wait := s.backoff * time.Duration(attempt+1)
		s.logger.Info().
			Err(err).
			Str("product_id", req.ProductID).
			Int("attempt", attempt+1).
			Dur("backoff", wait).
			Msg("conflicto de concurrencia, reintentando")

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
}
