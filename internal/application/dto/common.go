package dto

// ActivityQuery filtros y paginación de GET /api/inventory/activity.
type ActivityQuery struct {
	Category string `query:"category" validate:"omitempty,oneof=stock inventory"`
	Limit    int    `query:"limit" validate:"min=1,max=100"`
	Offset   int    `query:"offset" validate:"min=0"`
}

// DefaultPage 20 por página si no se pidió otra cosa.
func (q *ActivityQuery) DefaultPage() {
	if q.Limit <= 0 {
		q.Limit = 20
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
}

// PageResponse metadatos de la página devuelta. Count es el número de items de esta página.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP. Details solo viaja en INSUFFICIENT_STOCK y CONCURRENCY_CONFLICT.
type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// ErrorDetails datos del producto afectado para que la caja muestre el faltante o reintente.
type ErrorDetails struct {
	ProductID string `json:"product_id"`
	Requested int64  `json:"requested,omitempty"`
	Available int64  `json:"available,omitempty"`
	Shortfall int64  `json:"shortfall,omitempty"`
	Holder    string `json:"holder,omitempty"`
}
