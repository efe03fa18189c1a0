package entity

import "time"

// OpeningBalance stock de apertura fijado explícitamente por un operador para (producto, periodo).
// Period en formato YYYY-MM. La última escritura gana.
type OpeningBalance struct {
	ProductID string
	Period    string
	Quantity  int64
	SetBy     string
	SetByName string
	SetAt     time.Time
}
