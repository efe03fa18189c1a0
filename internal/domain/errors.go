package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrInvalidQuantity     = errors.New("cantidad inválida")
	ErrMissingReason       = errors.New("el motivo es obligatorio")
	ErrInvalidPeriod       = errors.New("periodo inválido, formato esperado YYYY-MM")
	ErrInvalidMovementType = errors.New("tipo de movimiento inválido")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrProductNotFound     = errors.New("producto no encontrado")
	ErrConcurrencyConflict = errors.New("conflicto de concurrencia, reintente")
)

// InsufficientStockError detalla la salida rechazada: producto, cantidad pedida y disponible.
// errors.Is(err, ErrInsufficientStock) sigue funcionando.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int64
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("stock insuficiente para %s: solicitado %d, disponible %d (faltan %d)",
		name, e.Requested, e.Available, e.Shortfall())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// Shortfall unidades que faltan para cubrir la salida.
func (e *InsufficientStockError) Shortfall() int64 {
	if e.Requested <= e.Available {
		return 0
	}
	return e.Requested - e.Available
}

// ConflictError indica que no se obtuvo acceso exclusivo al producto a tiempo.
// Holder identifica al escritor concurrente cuando el backend lo conoce (token del lock, id de tx).
type ConflictError struct {
	ProductID string
	Holder    string
	Cause     error
}

func (e *ConflictError) Error() string {
	msg := "conflicto de concurrencia sobre el producto " + e.ProductID
	if e.Holder != "" {
		msg += " (en uso por " + e.Holder + ")"
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConflictError) Unwrap() error { return ErrConcurrencyConflict }

// IsRetryable indica si el caller puede reintentar la operación tal cual.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// Code código estable del error para respuestas HTTP, CLI y logs.
func Code(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidQuantity):
		return "INVALID_QUANTITY"
	case errors.Is(err, ErrMissingReason):
		return "MISSING_REASON"
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrInvalidPeriod), errors.Is(err, ErrInvalidMovementType):
		return "VALIDATION"
	case errors.Is(err, ErrInsufficientStock):
		return "INSUFFICIENT_STOCK"
	case errors.Is(err, ErrProductNotFound):
		return "PRODUCT_NOT_FOUND"
	case errors.Is(err, ErrNotFound):
		return "NOT_FOUND"
	case errors.Is(err, ErrConcurrencyConflict):
		return "CONCURRENCY_CONFLICT"
	case errors.Is(err, ErrUnauthorized):
		return "UNAUTHORIZED"
	case errors.Is(err, ErrForbidden):
		return "FORBIDDEN"
	}
	return "INTERNAL"
}
