package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product referencia de solo lectura a un producto administrado por el servicio de catálogo.
// El stock no vive aquí: se maneja por ubicación en Quant.
type Product struct {
	ID            string
	SKU           string // código único
	Name          string
	MinStockLevel decimal.Decimal // umbral de stock mínimo (0 = sin alerta)
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
