package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/domain"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/repository"
)

// MovementRequest solicitud de mutación de stock.
// Quantity aplica a in/out/opening; para adjustment se usa TargetStock (stock absoluto deseado)
// y la cantidad guardada es |TargetStock - stock anterior|.
type MovementRequest struct {
	ProductID   string
	Type        entity.MovementType
	Quantity    int64
	TargetStock int64
	Reason      string
	Reference   string
	Notes       string
	Actor       Actor
}

func (r MovementRequest) validate() error {
	if r.ProductID == "" {
		return domain.ErrInvalidInput
	}
	if !r.Type.Valid() {
		return domain.ErrInvalidMovementType
	}
	if r.Quantity < 0 || r.TargetStock < 0 {
		return domain.ErrInvalidQuantity
	}
	if r.Type != entity.MovementTypeOpening && strings.TrimSpace(r.Reason) == "" {
		return domain.ErrMissingReason
	}
	return nil
}

// StockAggregator único escritor de Product.CurrentStock.
// Cada mutación: lock por producto → tx { SELECT FOR UPDATE, calcular, anexar movimiento, escribir stock,
// registrar actividad } → Commit/Rollback → liberar lock.
type StockAggregator struct {
	txRunner    TxRunner
	locker      Locker
	log         *MovementLog
	openings    *OpeningBalanceStore
	products    repository.ProductRepository
	lockTimeout time.Duration
	logger      zerolog.Logger
}

// AggregatorConfig parámetros del agregador.
type AggregatorConfig struct {
	LockTimeout time.Duration
	Logger      zerolog.Logger
}

// NewStockAggregator construye el agregador.
func NewStockAggregator(
	txRunner TxRunner,
	locker Locker,
	log *MovementLog,
	openings *OpeningBalanceStore,
	products repository.ProductRepository,
	cfg AggregatorConfig,
) *StockAggregator {
	if cfg.LockTimeout <= 0 {
		cfg.LockTimeout = 5 * time.Second
	}
	return &StockAggregator{
		txRunner:    txRunner,
		locker:      locker,
		log:         log,
		openings:    openings,
		products:    products,
		lockTimeout: cfg.LockTimeout,
		logger:      cfg.Logger,
	}
}

// ApplyMovement valida, serializa por producto y aplica el movimiento de forma atómica.
// Errores: ErrInvalidQuantity/ErrMissingReason (validación), *InsufficientStockError, ErrProductNotFound,
// *ConflictError (reintentable).
func (a *StockAggregator) ApplyMovement(ctx context.Context, req MovementRequest) (*entity.StockMovement, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, a.lockTimeout)
	unlock, err := a.locker.Lock(lockCtx, req.ProductID, req.Actor.String())
	cancel()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return nil, withProduct(conflict, req.ProductID)
		}
		return nil, &domain.ConflictError{ProductID: req.ProductID, Cause: err}
	}
	defer unlock()

	var stored *entity.StockMovement
	err = a.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
		activityRepo repository.ActivityLogRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}

		candidate, err := buildMovement(product, req)
		if err != nil {
			return err
		}
		stored, err = a.log.WithRepo(movRepo).Append(ctx, candidate)
		if err != nil {
			return err
		}
		if err := productRepo.SetStock(ctx, product.ID, stored.NewStock); err != nil {
			return err
		}
		return activityRepo.Create(ctx, activityFor(stored))
	})
	if err != nil {
		var conflict *domain.ConflictError
		if errors.As(err, &conflict) {
			return nil, withProduct(conflict, req.ProductID)
		}
		return nil, err
	}

	a.logger.Debug().
		Str("product_id", stored.ProductID).
		Str("type", string(stored.Type)).
		Int64("quantity", stored.Quantity).
		Int64("previous_stock", stored.PreviousStock).
		Int64("new_stock", stored.NewStock).
		Str("user", req.Actor.String()).
		Msg("movimiento de stock aplicado")
	return stored, nil
}

// withProduct completa el producto en conflictos que el backend no pudo atribuir.
func withProduct(conflict *domain.ConflictError, productID string) *domain.ConflictError {
	if conflict.ProductID != "" {
		return conflict
	}
	c := *conflict
	c.ProductID = productID
	return &c
}

// ApplyOpeningOverride fija la apertura del periodo en el OpeningBalanceStore.
// Es un dato de reporte: nunca modifica el stock actual del producto.
func (a *StockAggregator) ApplyOpeningOverride(ctx context.Context, productID string, period domaininv.Period, quantity int64, actor Actor) (*entity.OpeningBalance, error) {
	if quantity < 0 {
		return nil, domain.ErrInvalidQuantity
	}
	product, err := a.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	ob, err := a.openings.Set(ctx, productID, period, quantity, actor)
	if err != nil {
		return nil, err
	}
	a.logger.Info().
		Str("product_id", productID).
		Str("period", period.String()).
		Int64("quantity", quantity).
		Str("user", actor.String()).
		Msg("apertura de periodo fijada")
	return ob, nil
}

// buildMovement calcula previous/new según el tipo. Para out verifica stock suficiente.
func buildMovement(product *entity.Product, req MovementRequest) (entity.StockMovement, error) {
	prev := product.CurrentStock
	mov := entity.StockMovement{
		ProductID:   product.ID,
		ProductName: product.Name,
		Type:        req.Type,
		Reason:      req.Reason,
		Reference:   req.Reference,
		Notes:       req.Notes,
		UserID:      req.Actor.UserID,
		UserName:    req.Actor.UserName,
	}
	switch req.Type {
	case entity.MovementTypeIn:
		mov.Quantity = req.Quantity
		mov.PreviousStock = prev
		mov.NewStock = prev + req.Quantity
	case entity.MovementTypeOut:
		if req.Quantity > prev {
			return entity.StockMovement{}, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   req.Quantity,
				Available:   prev,
			}
		}
		mov.Quantity = req.Quantity
		mov.PreviousStock = prev
		mov.NewStock = prev - req.Quantity
	case entity.MovementTypeAdjustment:
		mov.PreviousStock = prev
		mov.NewStock = req.TargetStock
		mov.Quantity = req.TargetStock - prev
		if mov.Quantity < 0 {
			mov.Quantity = -mov.Quantity
		}
	case entity.MovementTypeOpening:
		mov.Quantity = req.Quantity
		mov.PreviousStock = 0
		mov.NewStock = req.Quantity
	default:
		return entity.StockMovement{}, domain.ErrInvalidMovementType
	}
	return mov, nil
}

func activityFor(m *entity.StockMovement) *entity.ActivityLog {
	category := entity.ActivityCategoryStock
	var action, desc string
	switch m.Type {
	case entity.MovementTypeIn:
		action = entity.ActivityActionStockIn
		desc = fmt.Sprintf("Entrada de stock: %s (+%d)", m.ProductName, m.Quantity)
	case entity.MovementTypeOut:
		action = entity.ActivityActionStockOut
		desc = fmt.Sprintf("Salida de stock: %s (-%d)", m.ProductName, m.Quantity)
	case entity.MovementTypeAdjustment:
		category = entity.ActivityCategoryInventory
		action = entity.ActivityActionAdjustment
		desc = fmt.Sprintf("Ajuste de stock: %s (%+d)", m.ProductName, m.NewStock-m.PreviousStock)
	case entity.MovementTypeOpening:
		category = entity.ActivityCategoryInventory
		action = entity.ActivityActionOpening
		desc = fmt.Sprintf("Stock de apertura: %s (%d)", m.ProductName, m.Quantity)
	}
	details := map[string]any{
		"movement_id":    m.ID,
		"product_id":     m.ProductID,
		"product_name":   m.ProductName,
		"quantity":       m.Quantity,
		"previous_stock": m.PreviousStock,
		"new_stock":      m.NewStock,
		"reason":         m.Reason,
	}
	if m.Reference != "" {
		details["reference"] = m.Reference
	}
	return &entity.ActivityLog{
		ID:          uuid.New().String(),
		Category:    category,
		Action:      action,
		Description: desc,
		UserID:      m.UserID,
		UserName:    m.UserName,
		Details:     details,
		CreatedAt:   m.CreatedAt,
	}
}
