package dto

import (
	"time"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
)

// RecordSaleRequest body para POST /api/inventory/sales.
type RecordSaleRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int64  `json:"quantity"`
	OrderRef  string `json:"order_ref,omitempty" validate:"max=100"`
}

// RecordReceiptRequest body para POST /api/inventory/receipts.
type RecordReceiptRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason" validate:"max=100"`
	Reference string `json:"reference,omitempty" validate:"max=100"`
	Notes     string `json:"notes,omitempty" validate:"max=500"`
}

// RecordWriteOffRequest body para POST /api/inventory/write-offs.
type RecordWriteOffRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int64  `json:"quantity"`
	Reason    string `json:"reason" validate:"max=100"`
	Notes     string `json:"notes,omitempty" validate:"max=500"`
}

// RecordAdjustmentRequest body para POST /api/inventory/adjustments. NewStock es el stock absoluto contado.
type RecordAdjustmentRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	NewStock  int64  `json:"new_stock"`
	Reason    string `json:"reason" validate:"max=100"`
	Notes     string `json:"notes,omitempty" validate:"max=500"`
}

// RecordOpeningRequest body para POST /api/inventory/openings (movimiento de apertura).
type RecordOpeningRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int64  `json:"quantity"`
	Notes     string `json:"notes,omitempty" validate:"max=500"`
}

// SetOpeningStockRequest body para PUT /api/inventory/opening-balances/:period.
type SetOpeningStockRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int64  `json:"quantity"`
}

// CreateProductRequest body para POST /api/products.
type CreateProductRequest struct {
	SKU  string `json:"sku" validate:"max=64"`
	Name string `json:"name" validate:"required,max=200"`
}

// ProductResponse producto con su stock vivo.
type ProductResponse struct {
	ID           string    `json:"id"`
	SKU          string    `json:"sku,omitempty"`
	Name         string    `json:"name"`
	CurrentStock int64     `json:"current_stock"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MovementResponse movimiento guardado.
type MovementResponse struct {
	ID            string    `json:"id"`
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Type          string    `json:"type"`
	Quantity      int64     `json:"quantity"`
	PreviousStock int64     `json:"previous_stock"`
	NewStock      int64     `json:"new_stock"`
	Reason        string    `json:"reason,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	UserID        string    `json:"user_id"`
	UserName      string    `json:"user_name"`
	CreatedAt     time.Time `json:"created_at"`
}

// OpeningBalanceResponse apertura fijada.
type OpeningBalanceResponse struct {
	ProductID string    `json:"product_id"`
	Period    string    `json:"period"`
	Quantity  int64     `json:"quantity"`
	SetBy     string    `json:"set_by"`
	SetByName string    `json:"set_by_name"`
	SetAt     time.Time `json:"set_at"`
}

// LedgerDriftDTO advertencia de discrepancia entre libro y stock vivo.
type LedgerDriftDTO struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Computed    int64  `json:"computed_closing"`
	Live        int64  `json:"current_stock"`
	Difference  int64  `json:"difference"`
}

// ProductReportDTO resumen de un producto en el periodo.
type ProductReportDTO struct {
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	Period        string          `json:"period"`
	OpeningStock  int64           `json:"opening_stock"`
	OpeningSource string          `json:"opening_source"`
	StockIn       int64           `json:"stock_in"`
	StockOut      int64           `json:"stock_out"`
	Adjustment    int64           `json:"adjustment"`
	ClosingStock  int64           `json:"closing_stock"`
	Movements     int             `json:"movements"`
	Drift         *LedgerDriftDTO `json:"drift,omitempty"`
}

// TotalsDTO agregado de todos los productos.
type TotalsDTO struct {
	OpeningStock int64 `json:"opening_stock"`
	StockIn      int64 `json:"stock_in"`
	StockOut     int64 `json:"stock_out"`
	Adjustment   int64 `json:"adjustment"`
	ClosingStock int64 `json:"closing_stock"`
}

// PeriodReportResponse reporte de periodo (vista de tablero).
type PeriodReportResponse struct {
	Period      string             `json:"period"`
	GeneratedAt time.Time          `json:"generated_at"`
	Items       []ProductReportDTO `json:"items"`
	Totals      TotalsDTO          `json:"totals"`
	Drifts      []LedgerDriftDTO   `json:"drifts"`
}

// ActivityResponse entrada del registro de actividad.
type ActivityResponse struct {
	ID          string         `json:"id"`
	Category    string         `json:"category"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	UserID      string         `json:"user_id"`
	UserName    string         `json:"user_name"`
	Details     map[string]any `json:"details,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ToProductResponse mapea la entidad.
func ToProductResponse(p *entity.Product) ProductResponse {
	return ProductResponse{ID: p.ID, SKU: p.SKU, Name: p.Name, CurrentStock: p.CurrentStock, UpdatedAt: p.UpdatedAt}
}

// ToMovementResponse mapea la entidad.
func ToMovementResponse(m *entity.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ProductID:     m.ProductID,
		ProductName:   m.ProductName,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		PreviousStock: m.PreviousStock,
		NewStock:      m.NewStock,
		Reason:        m.Reason,
		Reference:     m.Reference,
		Notes:         m.Notes,
		UserID:        m.UserID,
		UserName:      m.UserName,
		CreatedAt:     m.CreatedAt,
	}
}

// ToMovementList mapea una lista de movimientos (nunca nil).
func ToMovementList(list []*entity.StockMovement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMovementResponse(m))
	}
	return out
}

// ToOpeningBalanceResponse mapea la entidad.
func ToOpeningBalanceResponse(ob *entity.OpeningBalance) OpeningBalanceResponse {
	return OpeningBalanceResponse{
		ProductID: ob.ProductID,
		Period:    ob.Period,
		Quantity:  ob.Quantity,
		SetBy:     ob.SetBy,
		SetByName: ob.SetByName,
		SetAt:     ob.SetAt,
	}
}

func toDriftDTO(d inventory.LedgerDrift) LedgerDriftDTO {
	return LedgerDriftDTO{
		ProductID:   d.ProductID,
		ProductName: d.ProductName,
		Computed:    d.Computed,
		Live:        d.Live,
		Difference:  d.Difference(),
	}
}

// ToProductReportDTO mapea el resumen de un producto.
func ToProductReportDTO(r *inventory.ProductReport) ProductReportDTO {
	out := ProductReportDTO{
		ProductID:     r.ProductID,
		ProductName:   r.ProductName,
		Period:        r.Period.String(),
		OpeningStock:  r.OpeningStock,
		OpeningSource: string(r.OpeningSource),
		StockIn:       r.StockIn,
		StockOut:      r.StockOut,
		Adjustment:    r.Adjustment,
		ClosingStock:  r.ClosingStock,
		Movements:     r.Movements,
	}
	if r.Drift != nil {
		d := toDriftDTO(*r.Drift)
		out.Drift = &d
	}
	return out
}

// ToPeriodReportResponse mapea el reporte de todos los productos.
func ToPeriodReportResponse(r *inventory.PeriodReport) PeriodReportResponse {
	out := PeriodReportResponse{
		Period:      r.Period.String(),
		GeneratedAt: r.GeneratedAt,
		Items:       make([]ProductReportDTO, 0, len(r.Items)),
		Drifts:      make([]LedgerDriftDTO, 0, len(r.Drifts)),
		Totals: TotalsDTO{
			OpeningStock: r.Totals.OpeningStock,
			StockIn:      r.Totals.StockIn,
			StockOut:     r.Totals.StockOut,
			Adjustment:   r.Totals.Adjustment,
			ClosingStock: r.Totals.ClosingStock,
		},
	}
	for _, it := range r.Items {
		out.Items = append(out.Items, ToProductReportDTO(it))
	}
	for _, d := range r.Drifts {
		out.Drifts = append(out.Drifts, toDriftDTO(d))
	}
	return out
}

// ToActivityList mapea el registro de actividad (nunca nil).
func ToActivityList(list []*entity.ActivityLog) []ActivityResponse {
	out := make([]ActivityResponse, 0, len(list))
	for _, a := range list {
		out = append(out, ActivityResponse{
			ID:          a.ID,
			Category:    a.Category,
			Action:      a.Action,
			Description: a.Description,
			UserID:      a.UserID,
			UserName:    a.UserName,
			Details:     a.Details,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out
}
