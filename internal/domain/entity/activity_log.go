package entity

import "time"

// Categorías y acciones del registro de actividad de inventario.
const (
	ActivityCategoryStock     = "stock"
	ActivityCategoryInventory = "inventory"

	ActivityActionStockIn    = "stock_in"
	ActivityActionStockOut   = "stock_out"
	ActivityActionAdjustment = "adjustment"
	ActivityActionOpening    = "opening"
)

// ActivityLog entrada del registro de actividad escrita junto con cada movimiento.
type ActivityLog struct {
	ID          string
	Category    string
	Action      string
	Description string
	UserID      string
	UserName    string
	Details     map[string]any
	CreatedAt   time.Time
}
