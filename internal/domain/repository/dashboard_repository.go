package repository

import (
	"context"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
)

// DashboardRepository consultas agregadas de solo lectura para el tablero.
type DashboardRepository interface {
	CountProducts(ctx context.Context) (int, error)
	// CountOperations cuenta operaciones del tipo dado en cualquiera de los estados indicados.
	CountOperations(ctx context.Context, opType entity.OperationType, statuses []entity.OperationStatus) (int, error)
	// CountLowStock cuenta productos con MinStockLevel > 0 cuyo stock en ubicaciones INTERNAL
	// (suma de quants) es menor que el mínimo.
	CountLowStock(ctx context.Context) (int, error)
}
