package inventory

import (
	"context"

	"github.com/jhoicas/stock-operations-api/internal/domain/entity"
	"github.com/jhoicas/stock-operations-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo, pasando repositorios atados a ella.
// Si fn devuelve error (o el commit falla) se descartan todos los efectos: incrementos de quants,
// asientos de bitácora y cambios de estado. Los bloqueos tomados con GetForUpdate se liberan
// al terminar Run, tanto en commit como en rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		opRepo repository.OperationRepository,
		quantRepo repository.QuantRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}

// EventPublisher notifica transiciones ya confirmadas. Un fallo al publicar no revierte nada.
type EventPublisher interface {
	Publish(ctx context.Context, evt entity.OperationEvent) error
}
