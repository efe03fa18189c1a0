package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/application/ports"
	"github.com/jhoicas/stock-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.Service
	Exporters []ports.ReportExporter
	JWTSecret string
	Logger    zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Use(AccessLog(deps.Logger))
	app.Get("/health", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"status": "ok"}) })

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	anyRole := RequireRole(jwt.RoleAdmin, jwt.RoleManager, jwt.RoleCashier)
	managers := RequireRole(jwt.RoleAdmin, jwt.RoleManager)
	admins := RequireRole(jwt.RoleAdmin)

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.Ledger)
	products.Get("/", anyRole, productHandler.List)
	products.Get("/:id", anyRole, productHandler.GetByID)
	products.Post("/", managers, productHandler.Create)

	// Inventory
	inv := api.Group("/inventory")
	h := NewInventoryHandler(deps.Ledger)
	inv.Post("/sales", anyRole, h.RecordSale)
	inv.Post("/receipts", anyRole, h.RecordReceipt)
	inv.Post("/write-offs", anyRole, h.RecordWriteOff)
	inv.Post("/adjustments", managers, h.RecordAdjustment)
	inv.Post("/openings", managers, h.RecordOpening)
	inv.Put("/opening-balances/:period", managers, h.SetOpeningStock)
	inv.Get("/opening-balances/:period", anyRole, h.GetOpeningStock)
	inv.Get("/products/:id/movements", anyRole, h.GetMovementHistory)
	inv.Get("/movements", anyRole, h.GetPeriodMovements)
	inv.Delete("/movements", admins, h.PurgeMovements)
	inv.Get("/activity", managers, h.ListActivity)

	// Reports
	reports := NewReportHandler(deps.Ledger, deps.Exporters...)
	inv.Get("/reports/:period", anyRole, reports.GetPeriodReport)
	inv.Get("/reports/:period/products/:id", anyRole, reports.GetProductReport)
}
