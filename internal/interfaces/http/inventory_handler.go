package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain"
	domaininv "github.com/jhoicas/stock-ledger/internal/domain/inventory"
)

// InventoryHandler maneja las peticiones HTTP de movimientos de stock (protegido).
type InventoryHandler struct {
	svc *inventory.Service
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(svc *inventory.Service) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// RecordSale godoc
// @Summary      Registrar venta (salida de stock)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "product_id, quantity, order_ref"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/sales [post]
func (h *InventoryHandler) RecordSale(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if handled, err := bindJSON(c, &in); handled {
		return err
	}
	mov, err := h.svc.RecordSale(c.UserContext(), in.ProductID, in.Quantity, in.OrderRef, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// RecordReceipt godoc
// @Summary      Registrar entrada de stock
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordReceiptRequest  true  "product_id, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) RecordReceipt(c *fiber.Ctx) error {
	var in dto.RecordReceiptRequest
	if handled, err := bindJSON(c, &in); handled {
		return err
	}
	mov, err := h.svc.RecordReceipt(c.UserContext(), in.ProductID, in.Quantity, in.Reason, in.Reference, in.Notes, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// RecordWriteOff godoc
// @Summary      Registrar merma o salida no comercial
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordWriteOffRequest  true  "product_id, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/write-offs [post]
func (h *InventoryHandler) RecordWriteOff(c *fiber.Ctx) error {
	var in dto.RecordWriteOffRequest
	if handled, err := bindJSON(c, &in); handled {
		return err
	}
	mov, err := h.svc.RecordWriteOff(c.UserContext(), in.ProductID, in.Quantity, in.Reason, in.Notes, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// RecordAdjustment godoc
// @Summary      Ajustar stock a un valor contado
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordAdjustmentRequest  true  "product_id, new_stock, reason"
// @Success      201   {object}  dto.MovementResponse
// @Router       /api/inventory/adjustments [post]
func (h *InventoryHandler) RecordAdjustment(c *fiber.Ctx) error {
	var in dto.RecordAdjustmentRequest
	if handled, err := bindJSON(c, &in); handled {
		return err
	}
	mov, err := h.svc.RecordAdjustment(c.UserContext(), in.ProductID, in.NewStock, in.Reason, in.Notes, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// RecordOpening registra un movimiento de apertura: el stock pasa a ser quantity.
func (h *InventoryHandler) RecordOpening(c *fiber.Ctx) error {
	var in dto.RecordOpeningRequest
	if handled, err := bindJSON(c, &in); handled {
		return err
	}
	mov, err := h.svc.RecordOpening(c.UserContext(), in.ProductID, in.Quantity, in.Notes, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(mov))
}

// SetOpeningStock godoc
// @Summary      Fijar stock de apertura de un periodo
// @Description  Dato de reporte: no modifica el stock actual del producto.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        period  path  string  true  "YYYY-MM"
// @Param        body    body  dto.SetOpeningStockRequest  true  "product_id, quantity"
// @Success      200     {object}  dto.OpeningBalanceResponse
// @Router       /api/inventory/opening-balances/{period} [put]
func (h *InventoryHandler) SetOpeningStock(c *fiber.Ctx) error {
	period, err := domaininv.ParsePeriod(c.Params("period"))
	if err != nil {
		return respondError(c, err)
	}
	var in dto.SetOpeningStockRequest
	if handled, err := bindJSON(c, &in); handled {
		return err
	}
	ob, err := h.svc.SetOpeningStock(c.UserContext(), in.ProductID, period, in.Quantity, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToOpeningBalanceResponse(ob))
}

// GetOpeningStock GET /api/inventory/opening-balances/:period?product_id=
func (h *InventoryHandler) GetOpeningStock(c *fiber.Ctx) error {
	period, err := domaininv.ParsePeriod(c.Params("period"))
	if err != nil {
		return respondError(c, err)
	}
	productID := c.Query("product_id")
	if productID == "" {
		return badRequest(c, "VALIDATION", "product_id es requerido")
	}
	ob, ok, err := h.svc.GetOpeningStock(c.UserContext(), productID, period)
	if err != nil {
		return respondError(c, err)
	}
	if !ok {
		return respondError(c, domain.ErrNotFound)
	}
	return c.JSON(dto.ToOpeningBalanceResponse(ob))
}

// GetMovementHistory godoc
// @Summary      Historial de movimientos de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del producto"
// @Param        period  query  string  false  "YYYY-MM; vacío = toda la historia"
// @Success      200     {array}   dto.MovementResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/inventory/products/{id}/movements [get]
func (h *InventoryHandler) GetMovementHistory(c *fiber.Ctx) error {
	var period domaininv.Period
	if p := c.Query("period"); p != "" {
		var err error
		if period, err = domaininv.ParsePeriod(p); err != nil {
			return respondError(c, err)
		}
	}
	list, err := h.svc.GetMovementHistory(c.UserContext(), c.Params("id"), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementList(list))
}

// GetPeriodMovements GET /api/inventory/movements?period=YYYY-MM (todos los productos).
func (h *InventoryHandler) GetPeriodMovements(c *fiber.Ctx) error {
	period, err := domaininv.ParsePeriod(c.Query("period"))
	if err != nil {
		return respondError(c, err)
	}
	list, err := h.svc.GetPeriodMovements(c.UserContext(), period)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ToMovementList(list))
}

// PurgeMovements DELETE /api/inventory/movements?from=YYYY-MM-DD&to=YYYY-MM-DD, ventana [from, to) en UTC.
func (h *InventoryHandler) PurgeMovements(c *fiber.Ctx) error {
	from, err1 := time.Parse(time.DateOnly, c.Query("from"))
	to, err2 := time.Parse(time.DateOnly, c.Query("to"))
	if err1 != nil || err2 != nil {
		return badRequest(c, "VALIDATION", "from y to requeridos con formato YYYY-MM-DD")
	}
	n, err := h.svc.PurgeMovements(c.UserContext(), from, to, GetActor(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": n})
}

// ListActivity GET /api/inventory/activity?category=&limit=&offset=
func (h *InventoryHandler) ListActivity(c *fiber.Ctx) error {
	var q dto.ActivityQuery
	if err := c.QueryParser(&q); err != nil {
		return badRequest(c, "VALIDATION", "paginación inválida")
	}
	q.DefaultPage()
	if err := validate.Struct(q); err != nil {
		return badRequest(c, "VALIDATION", validationMessage(err))
	}
	list, err := h.svc.ListActivity(c.UserContext(), q.Category, q.Limit, q.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"items": dto.ToActivityList(list),
		"page":  dto.PageResponse{Limit: q.Limit, Offset: q.Offset, Count: len(list)},
	})
}
