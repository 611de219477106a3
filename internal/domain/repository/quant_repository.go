package repository

import (
	"context"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// QuantRepository almacén de saldos por (producto, ubicación).
// La única escritura es Increment: lectura-modificación-escritura atómica, segura con
// llamadores concurrentes sobre la misma clave. No impone piso; el saldo puede quedar negativo.
type QuantRepository interface {
	// Increment suma delta al saldo (creando la fila si no existe) y devuelve el quant resultante.
	Increment(ctx context.Context, productID, locationID string, delta decimal.Decimal) (*entity.Quant, error)
	// Get devuelve el saldo; 0 si no existe la fila.
	Get(ctx context.Context, productID, locationID string) (decimal.Decimal, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Quant, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.Quant, error)
}
