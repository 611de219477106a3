package repository

import (
	"context"
	"time"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
)

// OperationFilter filtros para el listado de operaciones (vacío = sin filtro).
type OperationFilter struct {
	Type   *entity.OperationType
	Status *entity.OperationStatus
	Limit  int
	Offset int
}

// OperationRepository define el puerto de persistencia para operaciones y sus líneas (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si la operación no existe.
type OperationRepository interface {
	// Create persiste la operación con sus líneas. Referencia duplicada -> domain.ErrConflict.
	Create(ctx context.Context, op *entity.Operation) error
	GetByID(ctx context.Context, id string) (*entity.Operation, error)
	// GetForUpdate bloquea la fila de la operación hasta el fin de la unidad de trabajo.
	GetForUpdate(ctx context.Context, id string) (*entity.Operation, error)
	UpdateStatus(ctx context.Context, id string, status entity.OperationStatus, updatedAt time.Time) error
	// UpdateDoneQuantities guarda la cantidad hecha de cada línea (mismo orden que op.Lines).
	UpdateDoneQuantities(ctx context.Context, id string, lines []entity.OperationLine) error
	List(ctx context.Context, filter OperationFilter) ([]*entity.Operation, int, error)
}
