package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quant saldo actual (con signo) de un producto en una ubicación. Único por (producto, ubicación).
// Se crea con el primer movimiento y solo cambia por incremento atómico; nunca se elimina.
type Quant struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal // puede ser negativo (fuentes virtuales)
	UpdatedAt  time.Time
}
