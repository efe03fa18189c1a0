package http

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/domain"
)

// retryAfter sugerencia para el cliente ante CONCURRENCY_CONFLICT.
const retryAfter = time.Second

// statusFor código HTTP por código de dominio.
func statusFor(code string) int {
	switch code {
	case "VALIDATION", "INVALID_QUANTITY", "MISSING_REASON":
		return fiber.StatusBadRequest
	case "PRODUCT_NOT_FOUND", "NOT_FOUND":
		return fiber.StatusNotFound
	case "INSUFFICIENT_STOCK", "CONCURRENCY_CONFLICT":
		return fiber.StatusConflict
	case "UNAUTHORIZED":
		return fiber.StatusUnauthorized
	case "FORBIDDEN":
		return fiber.StatusForbidden
	}
	return fiber.StatusInternalServerError
}

// respondError traduce el error de dominio a la respuesta JSON estándar.
// Los errores internos no exponen el mensaje original.
func respondError(c *fiber.Ctx, err error) error {
	code := domain.Code(err)
	status := statusFor(code)
	msg := err.Error()
	if status == fiber.StatusInternalServerError {
		msg = "error interno"
	}
	if errors.Is(err, domain.ErrConcurrencyConflict) {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retryAfter.Seconds())))
	}
	c.Locals(localError, err)
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Message: msg, Details: detailsFor(err)})
}

func detailsFor(err error) *dto.ErrorDetails {
	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		return &dto.ErrorDetails{
			ProductID: insufficient.ProductID,
			Requested: insufficient.Requested,
			Available: insufficient.Available,
			Shortfall: insufficient.Shortfall(),
		}
	}
	var conflict *domain.ConflictError
	if errors.As(err, &conflict) {
		return &dto.ErrorDetails{ProductID: conflict.ProductID, Holder: conflict.Holder}
	}
	return nil
}

func badRequest(c *fiber.Ctx, code, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: code, Message: msg})
}
