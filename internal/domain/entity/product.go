package entity

import "time"

// Product vista mínima del producto del catálogo que necesita el libro de stock.
// El catálogo es dueño del registro; CurrentStock solo lo escribe el agregador de stock.
type Product struct {
	ID           string
	SKU          string
	Name         string
	CurrentStock int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
