package repository

import (
	"context"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LedgerRepository bitácora de movimientos de solo inserción.
// No existe ninguna operación de actualización ni de borrado.
type LedgerRepository interface {
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	QueryByProduct(ctx context.Context, productID string, dates entity.DateRange) ([]*entity.LedgerEntry, error)
	QueryByOperationReference(ctx context.Context, reference string) ([]*entity.LedgerEntry, error)
	QueryByLocation(ctx context.Context, locationID string, direction entity.Direction) ([]*entity.LedgerEntry, error)
	// SumEffect suma los efectos con signo de todos los asientos sobre (producto, ubicación).
	SumEffect(ctx context.Context, productID, locationID string) (decimal.Decimal, error)
}
